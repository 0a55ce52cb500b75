package service

import (
	"context"
	"fmt"
	"strings"

	"sms-portal/internal/models"
	"sms-portal/internal/workflow"
	"sms-portal/pkg/validation"

	"go.uber.org/zap"
)

type RenewalStatistics struct {
	TotalRenewals       int64 `json:"totalRenewals"`
	CurrentYearRenewals int64 `json:"currentYearRenewals"`
	ApprovedRenewals    int64 `json:"approvedRenewals"`
}

// SubmitRenewal files a renewal for an existing society.
func (s *Service) SubmitRenewal(ctx context.Context, ren models.SocietyRenewal) (*models.SocietyRenewal, error) {
	ren.SocietyName = strings.TrimSpace(ren.SocietyName)
	if err := validation.Struct(&ren); err != nil {
		return nil, invalidFields(err)
	}
	if err := checkTreasurerEmail(ren.SeniorTreasurer.Email); err != nil {
		return nil, err
	}
	year := s.currentYear()
	if ren.RenewalYear == 0 {
		ren.RenewalYear = year
	}
	if ren.RenewalYear != year {
		return nil, &Error{
			Kind:   ErrValidation,
			Msg:    fmt.Sprintf("Renewals can only be submitted for %d.", year),
			Fields: map[string]string{"renewalYear": fmt.Sprintf("renewalYear must be %d", year)},
		}
	}
	ren.Year = year

	status, err := workflow.Initial(workflow.KindRenewal)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		soc, err := tx.LatestSociety(ctx, ren.SocietyName)
		if err != nil {
			return orNotFound(err, "Society %q not found. Register it before renewing.", ren.SocietyName)
		}
		existing, _, err := tx.ListRenewals(ctx, ApplicationFilter{SocietyName: ren.SocietyName, Year: year}, models.PageRequest{})
		if err != nil {
			return err
		}
		for _, r := range existing {
			if r.Status != workflow.StatusRejected {
				return conflict("A renewal for %s has already been submitted for %d.", soc.SocietyName, year)
			}
		}

		ren.ID = 0
		ren.SocietyName = soc.SocietyName
		if strings.TrimSpace(ren.Faculty) == "" {
			ren.Faculty = soc.Faculty
		}
		if ren.Applicant.Faculty == "" {
			ren.Applicant.Faculty = ren.Faculty
		}
		ren.Status = status
		ren.DeanReview = models.StageReview{}
		ren.ARReview = models.StageReview{}
		ren.VCReview = models.StageReview{}
		ren.ApprovedDate = nil
		ren.RejectionReason = ""
		ren.SubmittedDate = s.now()
		if err := tx.CreateRenewal(ctx, &ren); err != nil {
			return err
		}
		return s.logActivity(ctx, tx, ren.Applicant.FullName, "STUDENT", "SUBMIT_RENEWAL", ren.SocietyName)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Society renewal submitted",
		zap.Uint("id", ren.ID),
		zap.String("society", ren.SocietyName),
		zap.Int("renewalYear", ren.RenewalYear),
	)
	s.invalidateStats(ctx)
	s.notifyApplicant(&ren, "", "Your renewal has been received and forwarded to the Dean of your faculty.")
	s.notifyTreasurer(ren.SeniorTreasurer, ren.SocietyName, ren.Applicant.FullName)
	s.notifyReviewers(ctx, s.repo, &ren)
	return &ren, nil
}

func (s *Service) GetRenewal(ctx context.Context, id uint) (*models.SocietyRenewal, error) {
	ren, err := s.repo.GetRenewal(ctx, id)
	return ren, orNotFound(err, "Renewal %d not found", id)
}

func (s *Service) ListRenewals(ctx context.Context, f ApplicationFilter, page models.PageRequest) (models.Page[models.SocietyRenewal], error) {
	page = page.Normalize()
	rows, total, err := s.repo.ListRenewals(ctx, f, page)
	if err != nil {
		return models.Page[models.SocietyRenewal]{}, err
	}
	return models.NewPage(rows, page, total), nil
}

// PendingRenewals lists the renewals waiting on the actor's stage.
func (s *Service) PendingRenewals(ctx context.Context, actor Actor) ([]models.SocietyRenewal, error) {
	stage, ok := workflow.PendingStatusFor(workflow.KindRenewal, actor.Role)
	if !ok {
		return []models.SocietyRenewal{}, nil
	}
	rows, _, err := s.repo.ListRenewals(ctx, ApplicationFilter{Status: stage}, models.PageRequest{})
	if err != nil {
		return nil, err
	}
	out := make([]models.SocietyRenewal, 0, len(rows))
	for _, r := range rows {
		if actor.canSee(&r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) RenewalStatistics(ctx context.Context) (RenewalStatistics, error) {
	var stats RenewalStatistics
	if err := s.cache.GetJSON(ctx, renewalStatsKey, &stats); err == nil {
		return stats, nil
	}

	one := models.PageRequest{Size: 1}
	var err error
	if _, stats.TotalRenewals, err = s.repo.ListRenewals(ctx, ApplicationFilter{}, one); err != nil {
		return stats, err
	}
	if _, stats.CurrentYearRenewals, err = s.repo.ListRenewals(ctx, ApplicationFilter{Year: s.currentYear()}, one); err != nil {
		return stats, err
	}
	if _, stats.ApprovedRenewals, err = s.repo.ListRenewals(ctx, ApplicationFilter{Status: workflow.StatusApproved}, one); err != nil {
		return stats, err
	}

	if err := s.cache.SetJSON(ctx, renewalStatsKey, stats, s.opts.StatsTTL); err != nil {
		logger.Warn("Failed to cache renewal statistics", zap.Error(err))
	}
	return stats, nil
}
