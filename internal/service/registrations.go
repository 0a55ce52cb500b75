package service

import (
	"context"
	"strings"

	"sms-portal/internal/models"
	"sms-portal/internal/workflow"
	"sms-portal/pkg/email"
	"sms-portal/pkg/utils"
	"sms-portal/pkg/validation"

	"go.uber.org/zap"
)

// RegisterSociety files a new society registration for the current year.
func (s *Service) RegisterSociety(ctx context.Context, reg models.SocietyRegistration) (*models.SocietyRegistration, error) {
	reg.SocietyName = strings.TrimSpace(reg.SocietyName)
	reg.Faculty = strings.TrimSpace(reg.Faculty)
	if reg.Applicant.Faculty == "" {
		reg.Applicant.Faculty = reg.Faculty
	}
	if err := validation.Struct(&reg); err != nil {
		return nil, invalidFields(err)
	}
	if err := checkTreasurerEmail(reg.SeniorTreasurer.Email); err != nil {
		return nil, err
	}

	status, err := workflow.Initial(workflow.KindRegistration)
	if err != nil {
		return nil, err
	}
	year := s.currentYear()

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		if _, err := tx.FindSociety(ctx, reg.SocietyName, year); err == nil {
			return conflict("Society already registered for this year.")
		} else if !isNotFound(err) {
			return err
		}
		existing, _, err := tx.ListRegistrations(ctx, ApplicationFilter{SocietyName: reg.SocietyName, Year: year}, models.PageRequest{})
		if err != nil {
			return err
		}
		for _, r := range existing {
			if r.Status != workflow.StatusRejected {
				return conflict("Society already registered for this year.")
			}
		}

		reg.ID = 0
		reg.Year = year
		reg.Status = status
		reg.DeanReview = models.StageReview{}
		reg.ARReview = models.StageReview{}
		reg.VCReview = models.StageReview{}
		reg.ApprovedDate = nil
		reg.RejectionReason = ""
		reg.SubmittedDate = s.now()
		if err := tx.CreateRegistration(ctx, &reg); err != nil {
			return err
		}
		return s.logActivity(ctx, tx, reg.Applicant.FullName, "STUDENT", "SUBMIT_REGISTRATION", reg.SocietyName)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Society registration submitted",
		zap.Uint("id", reg.ID),
		zap.String("society", reg.SocietyName),
		zap.String("faculty", reg.Faculty),
	)
	s.invalidateStats(ctx)
	s.notifyApplicant(&reg, "", "Your registration has been received and forwarded to the Dean of your faculty.")
	s.notifyTreasurer(reg.SeniorTreasurer, reg.SocietyName, reg.Applicant.FullName)
	s.notifyReviewers(ctx, s.repo, &reg)
	return &reg, nil
}

func checkTreasurerEmail(addr string) error {
	if addr == "" || validation.IsUniversityEmail(addr) {
		return nil
	}
	return &Error{
		Kind:   ErrValidation,
		Msg:    "The senior treasurer must use a university email address.",
		Fields: map[string]string{"seniorTreasurer.email": "must be a @" + validation.UniversityDomain() + " address"},
	}
}

func (s *Service) notifyTreasurer(t models.SeniorTreasurer, society, applicant string) {
	if t.Email == "" {
		return
	}
	name := strings.TrimSpace(t.Title + " " + t.FullName)
	s.enqueue(email.Message{
		To:      t.Email,
		Subject: "Senior Treasurer nomination: " + society,
		Body:    email.BuildNominationEmail(name, society, utils.TitleCase(applicant)),
	})
}

func (s *Service) GetRegistration(ctx context.Context, id uint) (*models.SocietyRegistration, error) {
	reg, err := s.repo.GetRegistration(ctx, id)
	return reg, orNotFound(err, "Registration %d not found", id)
}
