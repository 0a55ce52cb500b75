package service

import (
	"context"
	"fmt"

	"sms-portal/internal/models"
	"sms-portal/internal/workflow"
	"sms-portal/pkg/email"
	"sms-portal/pkg/utils"

	"go.uber.org/zap"
)

func (s *Service) enqueue(msg email.Message) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Enqueue(msg); err != nil {
		logger.Warn("Failed to queue email", zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
	}
}

func eventName(app models.Application) string {
	if ev, ok := app.(*models.EventPermission); ok {
		return ev.EventName
	}
	return ""
}

// notifyApplicant tells the applicant where their application now stands.
func (s *Service) notifyApplicant(app models.Application, comment, message string) {
	applicant := app.ApplicantInfo()
	status := app.CurrentStatus()
	details := email.StatusEmailDetails{
		RecipientName: utils.TitleCase(applicant.FullName),
		KindLabel:     workflow.KindLabel(app.Kind()),
		ReferenceID:   app.GetID(),
		SocietyName:   app.Society(),
		EventName:     eventName(app),
		StatusLabel:   workflow.StatusLabel(status),
		Comment:       comment,
		Message:       message,
	}
	if status != workflow.StatusRejected {
		link, err := s.DownloadURL(app.Kind(), app.GetID())
		if err != nil {
			logger.Warn("Failed to sign download link", zap.Uint("id", app.GetID()), zap.Error(err))
		}
		details.DownloadURL = link
	}
	s.enqueue(email.Message{
		To:      applicant.Email,
		Subject: fmt.Sprintf("%s #%d: %s", details.KindLabel, app.GetID(), details.StatusLabel),
		Body:    email.BuildStatusEmail(details),
	})
}

// reviewers returns the active admins that own a pending stage. Deans are
// narrowed to the application's faculty.
func (s *Service) reviewers(ctx context.Context, repo Repository, stage workflow.Status, faculty string) ([]models.AdminUser, error) {
	role, ok := workflow.StageOwner(stage)
	if !ok {
		return nil, nil
	}
	users, err := repo.ListAdminUsers(ctx, AdminUserFilter{Role: role, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	if role != workflow.RoleDean {
		return users, nil
	}
	out := users[:0]
	for _, u := range users {
		if utils.FacultyMatches(u.Faculty, faculty) {
			out = append(out, u)
		}
	}
	return out, nil
}

// notifyReviewers asks the owners of the application's current stage to act.
func (s *Service) notifyReviewers(ctx context.Context, repo Repository, app models.Application) {
	stage := app.CurrentStatus()
	users, err := s.reviewers(ctx, repo, stage, app.FacultyName())
	if err != nil {
		logger.Error("Failed to look up reviewers", zap.String("stage", string(stage)), zap.Error(err))
		return
	}
	if len(users) == 0 {
		if workflow.IsPending(stage) {
			logger.Warn("No active reviewer for stage",
				zap.String("stage", string(stage)),
				zap.String("faculty", app.FacultyName()),
				zap.Uint("id", app.GetID()),
			)
		}
		return
	}
	kindLabel := workflow.KindLabel(app.Kind())
	for _, u := range users {
		s.enqueue(email.Message{
			To:      u.Email,
			Subject: fmt.Sprintf("Approval required: %s #%d", kindLabel, app.GetID()),
			Body: email.BuildReviewRequestEmail(email.ReviewEmailDetails{
				ReviewerRole:  workflow.RoleLabel(u.Role),
				KindLabel:     kindLabel,
				ReferenceID:   app.GetID(),
				SocietyName:   app.Society(),
				EventName:     eventName(app),
				ApplicantName: app.ApplicantInfo().FullName,
				Faculty:       app.FacultyName(),
			}),
		})
	}
}
