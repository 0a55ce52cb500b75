package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"sms-portal/internal/models"
	"sms-portal/internal/workflow"
	"sms-portal/pkg/utils"

	"go.uber.org/zap"
)

var allKinds = []workflow.Kind{workflow.KindRegistration, workflow.KindRenewal, workflow.KindEvent}

// canSee applies dean faculty scoping. Other roles see every faculty.
func (a Actor) canSee(app models.Application) bool {
	if a.Role != workflow.RoleDean {
		return true
	}
	return utils.FacultyMatches(a.Faculty, app.FacultyName())
}

func listByStatus(ctx context.Context, repo Repository, kind workflow.Kind, status workflow.Status) ([]models.Application, error) {
	f := ApplicationFilter{Status: status}
	all := models.PageRequest{}
	var out []models.Application
	switch kind {
	case workflow.KindRegistration:
		rows, _, err := repo.ListRegistrations(ctx, f, all)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	case workflow.KindRenewal:
		rows, _, err := repo.ListRenewals(ctx, f, all)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	case workflow.KindEvent:
		rows, _, err := repo.ListEvents(ctx, f, all)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	default:
		return nil, workflow.ErrUnknownKind
	}
	return out, nil
}

func loadApplication(ctx context.Context, repo Repository, kind workflow.Kind, id uint) (models.Application, error) {
	var (
		app models.Application
		err error
	)
	switch kind {
	case workflow.KindRegistration:
		app, err = repo.GetRegistration(ctx, id)
	case workflow.KindRenewal:
		app, err = repo.GetRenewal(ctx, id)
	case workflow.KindEvent:
		app, err = repo.GetEvent(ctx, id)
	default:
		return nil, invalid("Unknown application type %q.", kind)
	}
	if err != nil {
		return nil, orNotFound(err, "%s %d not found", workflow.KindLabel(kind), id)
	}
	return app, nil
}

func saveApplication(ctx context.Context, repo Repository, app models.Application) error {
	switch a := app.(type) {
	case *models.SocietyRegistration:
		return repo.UpdateRegistration(ctx, a)
	case *models.SocietyRenewal:
		return repo.UpdateRenewal(ctx, a)
	case *models.EventPermission:
		return repo.UpdateEvent(ctx, a)
	}
	return fmt.Errorf("unsupported application %T", app)
}

func sortNewestFirst(items []models.ApprovalItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SubmittedDate.After(items[j].SubmittedDate)
	})
}

// PendingItems lists every application, of any kind, waiting on the actor.
func (s *Service) PendingItems(ctx context.Context, actor Actor) ([]models.ApprovalItem, error) {
	return s.pendingItems(ctx, s.repo, actor)
}

func (s *Service) pendingItems(ctx context.Context, repo Repository, actor Actor) ([]models.ApprovalItem, error) {
	items := []models.ApprovalItem{}
	for _, kind := range allKinds {
		stage, ok := workflow.PendingStatusFor(kind, actor.Role)
		if !ok {
			continue
		}
		apps, err := listByStatus(ctx, repo, kind, stage)
		if err != nil {
			return nil, err
		}
		for _, app := range apps {
			if actor.canSee(app) {
				items = append(items, app.ToApprovalItem())
			}
		}
	}
	sortNewestFirst(items)
	return items, nil
}

// MonitoringItems lists every application in the system, newest first.
func (s *Service) MonitoringItems(ctx context.Context) ([]models.ApprovalItem, error) {
	items := []models.ApprovalItem{}
	for _, kind := range allKinds {
		apps, err := listByStatus(ctx, s.repo, kind, "")
		if err != nil {
			return nil, err
		}
		for _, app := range apps {
			items = append(items, app.ToApprovalItem())
		}
	}
	sortNewestFirst(items)
	return items, nil
}

func decisionError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrTerminal):
		return conflict("This application has already been finalized.")
	case errors.Is(err, workflow.ErrNotStageOwner):
		return forbidden("Your role cannot act on this application at its current stage.")
	case errors.Is(err, workflow.ErrInvalidStatus), errors.Is(err, workflow.ErrUnknownKind):
		return conflict("Application is in an unexpected state: %v", err)
	}
	return err
}

// Decide records an approver's decision and moves the application along
// its workflow. Everything persistent happens in one transaction; emails
// and cache invalidation follow a successful commit.
func (s *Service) Decide(ctx context.Context, actor Actor, kind workflow.Kind, id uint, d workflow.Decision, comment string) (models.Application, error) {
	comment = strings.TrimSpace(comment)
	if d != workflow.Approve && d != workflow.Reject {
		return nil, invalid("Unknown decision %q.", d)
	}
	if d == workflow.Reject && comment == "" {
		return nil, &Error{Kind: ErrValidation, Msg: "A reason is required to reject an application.", Fields: map[string]string{"comment": "comment is a required field"}}
	}

	var (
		app  models.Application
		from workflow.Status
	)
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		var err error
		app, err = loadApplication(ctx, tx, kind, id)
		if err != nil {
			return err
		}
		if !actor.canSee(app) {
			return forbidden("This application belongs to another faculty.")
		}

		from = app.CurrentStatus()
		next, err := workflow.Decide(kind, from, actor.Role, d)
		if err != nil {
			return decisionError(err)
		}

		now := s.now()
		if review := app.Review(from); review != nil {
			review.Approved = d == workflow.Approve
			review.Date = &now
			review.Comment = comment
			review.ReviewedBy = actor.Name
		}
		app.SetStatus(next)
		if d == workflow.Reject {
			app.MarkRejected(comment)
		}
		if next == workflow.StatusApproved {
			app.MarkApproved(now)
			if err := s.finalize(ctx, tx, app); err != nil {
				return err
			}
		}
		if err := saveApplication(ctx, tx, app); err != nil {
			return err
		}

		verb := "APPROVE"
		if d == workflow.Reject {
			verb = "REJECT"
		}
		action := fmt.Sprintf("%s_%s_%s", verb, strings.ToUpper(string(kind)), workflow.StageKey(from))
		target := fmt.Sprintf("%s #%d (%s)", workflow.KindLabel(kind), id, app.Society())
		return s.logActivity(ctx, tx, actor.Name, string(actor.Role), action, target)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Application decision recorded",
		zap.String("kind", string(kind)),
		zap.Uint("id", id),
		zap.String("decision", string(d)),
		zap.String("from", string(from)),
		zap.String("to", string(app.CurrentStatus())),
		zap.String("actor", actor.Email),
	)
	s.invalidateStats(ctx)
	s.notifyApplicant(app, comment, "")
	if workflow.IsPending(app.CurrentStatus()) {
		s.notifyReviewers(ctx, s.repo, app)
	}
	return app, nil
}

// finalize applies the effects of a final approval. Registrations create
// or refresh the society for their year; renewals do the same for the
// renewal year, keeping previous office bearers the renewal leaves blank.
func (s *Service) finalize(ctx context.Context, tx Repository, app models.Application) error {
	var (
		next models.Society
		year int
	)
	switch a := app.(type) {
	case *models.SocietyRegistration:
		next, year = societyFromRegistration(a), a.Year
	case *models.SocietyRenewal:
		next, year = societyFromRenewal(a), a.RenewalYear
	default:
		return nil
	}

	soc, err := tx.FindSociety(ctx, next.SocietyName, year)
	switch {
	case err == nil:
	case isNotFound(err):
		soc = &models.Society{}
		if prev, err := tx.LatestSociety(ctx, next.SocietyName); err == nil {
			*soc = *prev
			soc.ID = 0
			soc.CreatedAt = time.Time{}
			soc.UpdatedAt = time.Time{}
			soc.RegisteredDate = models.Date{}
		} else if !isNotFound(err) {
			return err
		}
	default:
		return err
	}

	overlay(soc, next)
	if err := tx.SaveSociety(ctx, soc); err != nil {
		return fmt.Errorf("save society %s/%d: %w", next.SocietyName, year, err)
	}
	return nil
}
