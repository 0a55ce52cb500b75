package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"sms-portal/internal/models"
	"sms-portal/internal/workflow"
	"sms-portal/pkg/document"
	"sms-portal/pkg/utils"
)

// Verification is what the QR code on a printed document resolves to.
type Verification struct {
	Type        workflow.Kind   `json:"type"`
	ID          uint            `json:"id"`
	SocietyName string          `json:"societyName"`
	EventName   string          `json:"eventName,omitempty"`
	Status      workflow.Status `json:"status"`
	StatusLabel string          `json:"statusLabel"`
}

func downloadPath(kind workflow.Kind, id uint) (string, error) {
	switch kind {
	case workflow.KindRegistration:
		return fmt.Sprintf("/api/societies/registration/download/%d", id), nil
	case workflow.KindRenewal:
		return fmt.Sprintf("/api/renewals/download/%d", id), nil
	case workflow.KindEvent:
		return fmt.Sprintf("/api/events/download/%d", id), nil
	}
	return "", workflow.ErrUnknownKind
}

// DownloadURL returns a signed, expiring link to an application document.
func (s *Service) DownloadURL(kind workflow.Kind, id uint) (string, error) {
	path, err := downloadPath(kind, id)
	if err != nil {
		return "", err
	}
	return utils.GenerateSignedURL(strings.TrimRight(s.opts.PublicBaseURL, "/")+path, s.now().Add(s.opts.DownloadLinkTTL))
}

func (s *Service) verifyURL(kind workflow.Kind, id uint) (string, error) {
	token, err := utils.EncodeDocumentToken(utils.DocumentClaim{Kind: string(kind), ID: id})
	if err != nil {
		return "", fmt.Errorf("sign verification token: %w", err)
	}
	return strings.TrimRight(s.opts.PublicBaseURL, "/") + "/api/files/verify?token=" + url.QueryEscape(token), nil
}

// Verify resolves a document verification token to the application's
// current status.
func (s *Service) Verify(ctx context.Context, token string) (Verification, error) {
	claim, err := utils.DecodeDocumentToken(token)
	if err != nil {
		return Verification{}, invalid("This verification code is invalid or has expired.")
	}
	kind, err := workflow.ParseKind(claim.Kind)
	if err != nil {
		return Verification{}, invalid("This verification code is invalid or has expired.")
	}
	app, err := loadApplication(ctx, s.repo, kind, claim.ID)
	if err != nil {
		return Verification{}, err
	}
	return Verification{
		Type:        kind,
		ID:          app.GetID(),
		SocietyName: app.Society(),
		EventName:   eventName(app),
		Status:      app.CurrentStatus(),
		StatusLabel: workflow.StatusLabel(app.CurrentStatus()),
	}, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func applicantSection(a models.Applicant, position string) document.Section {
	rows := []document.Row{
		{Label: "Full name", Value: a.FullName},
		{Label: "Registration number", Value: a.RegNo},
		{Label: "Email", Value: a.Email},
		{Label: "Faculty", Value: a.Faculty},
		{Label: "Mobile", Value: a.Mobile},
	}
	if position != "" {
		rows = append(rows, document.Row{Label: "Position", Value: position})
	}
	return document.Section{Heading: "Applicant", Rows: rows}
}

func treasurerSection(t models.SeniorTreasurer) document.Section {
	return document.Section{Heading: "Senior Treasurer", Rows: []document.Row{
		{Label: "Name", Value: strings.TrimSpace(t.Title + " " + t.FullName)},
		{Label: "Designation", Value: t.Designation},
		{Label: "Department", Value: t.Department},
		{Label: "Email", Value: t.Email},
		{Label: "Mobile", Value: t.Mobile},
	}}
}

func officialsSection(o models.Officials) document.Section {
	t := &document.Table{Columns: []string{"Position", "Name", "Reg No", "Email", "Mobile"}}
	for _, p := range []struct {
		label string
		o     models.Official
	}{
		{"President", o.President},
		{"Vice President", o.VicePresident},
		{"Secretary", o.Secretary},
		{"Joint Secretary", o.JointSecretary},
		{"Junior Treasurer", o.JuniorTreasurer},
		{"Editor", o.Editor},
	} {
		if p.o.IsZero() {
			continue
		}
		t.Rows = append(t.Rows, []string{p.label, p.o.Name, p.o.RegNo, p.o.Email, p.o.Mobile})
	}
	return document.Section{Heading: "Office Bearers", Table: t}
}

func membersTable(heading string, members []models.Member) document.Section {
	t := &document.Table{Columns: []string{"Reg No", "Name"}}
	for _, m := range members {
		t.Rows = append(t.Rows, []string{m.RegNo, m.Name})
	}
	return document.Section{Heading: heading, Table: t}
}

func advisoryTable(board []models.AdvisoryBoardMember) document.Section {
	t := &document.Table{Columns: []string{"Name", "Designation", "Department"}}
	for _, m := range board {
		t.Rows = append(t.Rows, []string{m.Name, m.Designation, m.Department})
	}
	return document.Section{Heading: "Advisory Board", Table: t}
}

func planTable(heading string, plan []models.PlanningEvent) document.Section {
	t := &document.Table{Columns: []string{"Month", "Activity"}}
	for _, p := range plan {
		t.Rows = append(t.Rows, []string{p.Month, p.Activity})
	}
	return document.Section{Heading: heading, Table: t}
}

func reviewSection(stages []string, reviews []models.StageReview) document.Section {
	t := &document.Table{Columns: []string{"Stage", "Decision", "Date", "Reviewer", "Comment"}}
	for i, r := range reviews {
		if r.Date == nil {
			continue
		}
		decision := "Rejected"
		if r.Approved {
			decision = "Approved"
		}
		t.Rows = append(t.Rows, []string{stages[i], decision, r.Date.Format("2006-01-02"), r.ReviewedBy, r.Comment})
	}
	return document.Section{Heading: "Approvals", Table: t}
}

func (s *Service) render(kind workflow.Kind, id uint, status workflow.Status, sections []document.Section, verify bool) ([]byte, error) {
	doc := document.Document{
		Organization: s.opts.UniversityName,
		Title:        workflow.KindLabel(kind),
		Reference:    strings.ToUpper(string(kind)) + "-" + strconv.FormatUint(uint64(id), 10),
		Status:       workflow.StatusLabel(status),
		Sections:     sections,
		GeneratedAt:  s.now(),
	}
	if verify {
		u, err := s.verifyURL(kind, id)
		if err != nil {
			return nil, err
		}
		doc.VerifyURL = u
	}
	return document.Render(doc)
}

func (s *Service) RegistrationDocument(ctx context.Context, id uint) ([]byte, error) {
	reg, err := s.GetRegistration(ctx, id)
	if err != nil {
		return nil, err
	}
	sections := []document.Section{
		applicantSection(reg.Applicant, ""),
		{Heading: "Society", Rows: []document.Row{
			{Label: "Name", Value: reg.SocietyName},
			{Label: "Faculty", Value: reg.Faculty},
			{Label: "Year", Value: strconv.Itoa(reg.Year)},
			{Label: "Aims", Value: reg.Aims},
			{Label: "AGM date", Value: reg.AGMDate.String()},
			{Label: "Bank account", Value: reg.BankAccount},
			{Label: "Bank", Value: reg.BankName},
		}},
		treasurerSection(reg.SeniorTreasurer),
		officialsSection(reg.Officials),
		advisoryTable(reg.AdvisoryBoard),
		membersTable("Committee Members", reg.CommitteeMembers),
		membersTable("Members", reg.Members),
		planTable("Planned Activities", reg.PlanningEvents),
		reviewSection([]string{"Dean", "Assistant Registrar", "Vice Chancellor"},
			[]models.StageReview{reg.DeanReview, reg.ARReview, reg.VCReview}),
	}
	return s.render(workflow.KindRegistration, reg.ID, reg.Status, sections, true)
}

func (s *Service) RenewalDocument(ctx context.Context, id uint) ([]byte, error) {
	ren, err := s.GetRenewal(ctx, id)
	if err != nil {
		return nil, err
	}
	sections := []document.Section{
		applicantSection(ren.Applicant, ""),
		{Heading: "Society", Rows: []document.Row{
			{Label: "Name", Value: ren.SocietyName},
			{Label: "Faculty", Value: ren.Faculty},
			{Label: "Renewal year", Value: strconv.Itoa(ren.RenewalYear)},
			{Label: "Aims", Value: ren.Aims},
			{Label: "Website", Value: ren.Website},
			{Label: "AGM date", Value: ren.AGMDate.String()},
			{Label: "Bank account", Value: ren.BankAccount},
			{Label: "Bank", Value: ren.BankName},
			{Label: "Difficulties faced", Value: ren.Difficulties},
		}},
		treasurerSection(ren.SeniorTreasurer),
		officialsSection(ren.Officials),
		advisoryTable(ren.AdvisoryBoard),
		membersTable("Committee Members", ren.CommitteeMembers),
		membersTable("Members", ren.Members),
		planTable("Past Activities", ren.PastActivities),
		planTable("Planned Activities", ren.PlanningEvents),
		reviewSection([]string{"Dean", "Assistant Registrar", "Vice Chancellor"},
			[]models.StageReview{ren.DeanReview, ren.ARReview, ren.VCReview}),
	}
	return s.render(workflow.KindRenewal, ren.ID, ren.Status, sections, true)
}

func eventSections(ev *models.EventPermission) []document.Section {
	return []document.Section{
		applicantSection(ev.Applicant, ev.ApplicantPosition),
		{Heading: "Event", Rows: []document.Row{
			{Label: "Society", Value: ev.SocietyName},
			{Label: "Event", Value: ev.EventName},
			{Label: "Date", Value: ev.EventDate.String()},
			{Label: "Time", Value: ev.TimeFrom + " - " + ev.TimeTo},
			{Label: "Place", Value: ev.Place},
			{Label: "Inside the university", Value: yesNo(ev.IsInsideUniversity)},
			{Label: "Late pass required", Value: yesNo(ev.LatePassRequired)},
			{Label: "Outsiders invited", Value: yesNo(ev.OutsidersInvited)},
			{Label: "Outsiders", Value: ev.OutsidersList},
			{Label: "First year participation", Value: yesNo(ev.FirstYearParticipation)},
		}},
		{Heading: "Finance", Rows: []document.Row{
			{Label: "Budget estimate", Value: ev.BudgetEstimate},
			{Label: "Fund collection", Value: ev.FundCollectionMethods},
			{Label: "Student fee", Value: ev.StudentFeeAmount},
			{Label: "Receipt number", Value: ev.ReceiptNumber},
			{Label: "Payment date", Value: ev.PaymentDate.String()},
		}},
		{Heading: "Senior Treasurer", Rows: []document.Row{
			{Label: "Name", Value: ev.SeniorTreasurerName},
			{Label: "Department", Value: ev.SeniorTreasurerDepartment},
			{Label: "Mobile", Value: ev.SeniorTreasurerMobile},
		}},
		{Heading: "Premises Officer", Rows: []document.Row{
			{Label: "Name", Value: ev.PremisesOfficerName},
			{Label: "Designation", Value: ev.PremisesOfficerDesignation},
			{Label: "Division", Value: ev.PremisesOfficerDivision},
		}},
		reviewSection([]string{"Dean", "Premises Officer", "Assistant Registrar", "Vice Chancellor"},
			[]models.StageReview{ev.DeanReview, ev.PremisesReview, ev.ARReview, ev.VCReview}),
	}
}

func (s *Service) EventDocument(ctx context.Context, id uint) ([]byte, error) {
	ev, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(workflow.KindEvent, ev.ID, ev.Status, eventSections(ev), true)
}

// PreviewEventDocument renders an unsaved request so the applicant can
// check it before submitting. It carries no verification code.
func (s *Service) PreviewEventDocument(ctx context.Context, ev models.EventPermission) ([]byte, error) {
	if err := s.checkEventRequest(&ev); err != nil {
		return nil, err
	}
	if soc, err := s.repo.LatestSociety(ctx, ev.SocietyName); err == nil {
		ev.SocietyName = soc.SocietyName
		ev.Faculty = soc.Faculty
	}
	status, _ := workflow.Initial(workflow.KindEvent)
	return s.render(workflow.KindEvent, 0, status, eventSections(&ev), false)
}
