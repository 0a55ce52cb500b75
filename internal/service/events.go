package service

import (
	"context"
	"strings"
	"time"

	"sms-portal/internal/models"
	"sms-portal/internal/workflow"
	"sms-portal/pkg/utils"
	"sms-portal/pkg/validation"

	"go.uber.org/zap"
)

const DefaultUpcomingLimit = 5

// ApplicantCheck is the outcome of matching an applicant against the
// society's office bearers.
type ApplicantCheck struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

func (s *Service) checkEventRequest(ev *models.EventPermission) error {
	ev.SocietyName = strings.TrimSpace(ev.SocietyName)
	if err := validation.Struct(ev); err != nil {
		return invalidFields(err)
	}
	if ev.EventDate.IsZero() {
		return &Error{Kind: ErrValidation, Msg: "Event date is required.", Fields: map[string]string{"eventDate": "eventDate is a required field"}}
	}
	if ev.EventDate.Before(s.today()) {
		return invalid("Invalid Date: Event cannot be in the past.")
	}
	from, _ := time.Parse("15:04", ev.TimeFrom)
	to, _ := time.Parse("15:04", ev.TimeTo)
	if !to.After(from) {
		return invalid("Invalid Time: End time must be after start time.")
	}
	return nil
}

// RequestEvent files an event permission request for an existing society.
func (s *Service) RequestEvent(ctx context.Context, ev models.EventPermission) (*models.EventPermission, error) {
	if err := s.checkEventRequest(&ev); err != nil {
		return nil, err
	}
	status, err := workflow.Initial(workflow.KindEvent)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		soc, err := tx.LatestSociety(ctx, ev.SocietyName)
		if err != nil {
			return orNotFound(err, "Society %q not found.", ev.SocietyName)
		}
		ev.ID = 0
		ev.SocietyName = soc.SocietyName
		ev.Faculty = soc.Faculty
		if ev.Applicant.Faculty == "" {
			ev.Applicant.Faculty = soc.Faculty
		}
		ev.Status = status
		ev.DeanReview = models.StageReview{}
		ev.PremisesReview = models.StageReview{}
		ev.ARReview = models.StageReview{}
		ev.VCReview = models.StageReview{}
		ev.ApprovedDate = nil
		ev.RejectionReason = ""
		ev.SubmittedDate = s.now()
		if err := tx.CreateEvent(ctx, &ev); err != nil {
			return err
		}
		return s.logActivity(ctx, tx, ev.Applicant.FullName, "STUDENT", "REQUEST_EVENT", ev.EventName+" ("+ev.SocietyName+")")
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Event permission requested",
		zap.Uint("id", ev.ID),
		zap.String("society", ev.SocietyName),
		zap.String("event", ev.EventName),
		zap.String("eventDate", ev.EventDate.String()),
	)
	s.notifyApplicant(&ev, "", "Your request has been received and forwarded to the Dean of your faculty.")
	s.notifyReviewers(ctx, s.repo, &ev)
	return &ev, nil
}

// ApplicantDetails returns the office bearer holding position in the
// society's latest approved data.
func (s *Service) ApplicantDetails(ctx context.Context, societyName, position string) (models.Official, error) {
	key := utils.NormalizePosition(position)
	if _, ok := officialFor(models.Officials{}, key); !ok {
		return models.Official{}, invalid("Unknown position %q.", position)
	}
	soc, err := s.LatestSocietyData(ctx, societyName)
	if err != nil {
		return models.Official{}, err
	}
	official, _ := officialFor(soc.Officials, key)
	if official.IsZero() {
		return models.Official{}, notFound("No %s recorded for %s.", strings.TrimSpace(position), soc.SocietyName)
	}
	return official, nil
}

// ValidateApplicant checks that regNo and email belong to the office bearer
// holding position in the society.
func (s *Service) ValidateApplicant(ctx context.Context, societyName, position, regNo, email string) (ApplicantCheck, error) {
	official, err := s.ApplicantDetails(ctx, societyName, position)
	if err != nil {
		if isNotFound(err) {
			return ApplicantCheck{Valid: false, Message: err.Error()}, nil
		}
		return ApplicantCheck{}, err
	}
	if utils.NormalizeRegNo(official.RegNo) != utils.NormalizeRegNo(regNo) {
		return ApplicantCheck{Valid: false, Message: "Registration number does not match the society records."}, nil
	}
	if !utils.EmailsMatch(official.Email, email) {
		return ApplicantCheck{Valid: false, Message: "Email does not match the society records."}, nil
	}
	return ApplicantCheck{Valid: true, Message: "Applicant verified."}, nil
}

func (s *Service) GetEvent(ctx context.Context, id uint) (*models.EventPermission, error) {
	ev, err := s.repo.GetEvent(ctx, id)
	return ev, orNotFound(err, "Event %d not found", id)
}

// ListEvents pages events. An empty status or "all" lists every status.
func (s *Service) ListEvents(ctx context.Context, status string, page models.PageRequest) (models.Page[models.EventPermission], error) {
	page = page.Normalize()
	var f ApplicationFilter
	if status = strings.TrimSpace(status); status != "" && !strings.EqualFold(status, "all") {
		st, err := workflow.ParseStatus(status)
		if err != nil {
			return models.Page[models.EventPermission]{}, invalid("Unknown status %q.", status)
		}
		f.Status = st
	}
	rows, total, err := s.repo.ListEvents(ctx, f, page)
	if err != nil {
		return models.Page[models.EventPermission]{}, err
	}
	return models.NewPage(rows, page, total), nil
}

// PendingEvents lists the events waiting on the actor's stage.
func (s *Service) PendingEvents(ctx context.Context, actor Actor) ([]models.EventPermission, error) {
	stage, ok := workflow.PendingStatusFor(workflow.KindEvent, actor.Role)
	if !ok {
		return []models.EventPermission{}, nil
	}
	rows, _, err := s.repo.ListEvents(ctx, ApplicationFilter{Status: stage}, models.PageRequest{})
	if err != nil {
		return nil, err
	}
	out := make([]models.EventPermission, 0, len(rows))
	for _, e := range rows {
		if actor.canSee(&e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Service) UpcomingEvents(ctx context.Context, limit int) ([]models.EventPermission, error) {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	return s.repo.UpcomingEvents(ctx, s.today(), limit)
}
