package service

import (
	"context"
	"fmt"
	"strings"

	"sms-portal/internal/models"
	"sms-portal/internal/workflow"
	"sms-portal/pkg/email"
	"sms-portal/pkg/utils"
	"sms-portal/pkg/validation"

	"go.uber.org/zap"
)

type Dashboard struct {
	TotalSocieties   int64         `json:"totalSocieties"`
	ActiveSocieties  int64         `json:"activeSocieties"`
	PendingApprovals int           `json:"pendingApprovals"`
	UserRole         workflow.Role `json:"userRole"`
}

// NewAdminUser is the payload for creating a staff account.
type NewAdminUser struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"required,email"`
	Role    string `json:"role" validate:"required"`
	Faculty string `json:"faculty"`
}

type BulkEmail struct {
	Subject    string   `json:"subject" validate:"notblank"`
	Body       string   `json:"body" validate:"notblank"`
	Recipients []string `json:"recipients" validate:"required,min=1,dive,email"`
}

func (s *Service) Dashboard(ctx context.Context, actor Actor) (Dashboard, error) {
	stats, err := s.SocietyStatistics(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	pending, err := s.PendingItems(ctx, actor)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		TotalSocieties:   stats.TotalSocieties,
		ActiveSocieties:  stats.ActiveSocieties,
		PendingApprovals: len(pending),
		UserRole:         actor.Role,
	}, nil
}

func (s *Service) AdminSocieties(ctx context.Context, year int, status string, page models.PageRequest) (models.Page[models.Society], error) {
	f := SocietyFilter{Year: year}
	if st, ok := models.ParseSocietyStatus(strings.ToUpper(strings.TrimSpace(status))); ok {
		f.Status = st
	}
	return s.ListSocieties(ctx, f, page)
}

// ActivityLogs filters the audit trail by user and action, newest first.
func (s *Service) ActivityLogs(ctx context.Context, user, action string, page models.PageRequest) (models.Page[models.ActivityLog], error) {
	page = page.Normalize()
	f := ActivityLogFilter{User: strings.TrimSpace(user), Action: strings.TrimSpace(action)}
	rows, total, err := s.repo.ListActivityLogs(ctx, f, page)
	if err != nil {
		return models.Page[models.ActivityLog]{}, err
	}
	return models.NewPage(rows, page, total), nil
}

// SendBulkEmail queues one message per recipient and returns how many were
// queued.
func (s *Service) SendBulkEmail(ctx context.Context, actor Actor, msg BulkEmail) (int, error) {
	for i, r := range msg.Recipients {
		msg.Recipients[i] = utils.NormalizeEmail(r)
	}
	if err := validation.Struct(&msg); err != nil {
		return 0, invalidFields(err)
	}

	seen := make(map[string]bool, len(msg.Recipients))
	body := email.BuildBulkEmail(msg.Subject, msg.Body)
	for _, to := range msg.Recipients {
		if seen[to] {
			continue
		}
		seen[to] = true
		s.enqueue(email.Message{To: to, Subject: msg.Subject, Body: body})
	}

	target := fmt.Sprintf("%s (%d recipients)", msg.Subject, len(seen))
	if err := s.logActivity(ctx, s.repo, actor.Name, string(actor.Role), "BULK_EMAIL_SENT", target); err != nil {
		return len(seen), err
	}
	return len(seen), nil
}

func (s *Service) CreateAdminUser(ctx context.Context, actor Actor, in NewAdminUser) (*models.AdminUser, error) {
	in.Email = utils.NormalizeEmail(in.Email)
	in.Faculty = strings.TrimSpace(in.Faculty)
	if err := validation.Struct(&in); err != nil {
		return nil, invalidFields(err)
	}
	role, err := workflow.ParseRole(in.Role)
	if err != nil {
		return nil, &Error{Kind: ErrValidation, Msg: fmt.Sprintf("Unknown role %q.", in.Role), Fields: map[string]string{"role": "unknown role"}}
	}
	if role == workflow.RoleDean && in.Faculty == "" {
		return nil, &Error{Kind: ErrValidation, Msg: "A faculty is required for deans.", Fields: map[string]string{"faculty": "faculty is a required field"}}
	}

	user := &models.AdminUser{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Role:     role,
		Faculty:  in.Faculty,
		IsActive: true,
	}
	err = s.repo.WithTx(ctx, func(tx Repository) error {
		if _, err := tx.FindAdminUserByEmail(ctx, in.Email); err == nil {
			return conflict("An admin with email %s already exists.", in.Email)
		} else if !isNotFound(err) {
			return err
		}
		if err := tx.CreateAdminUser(ctx, user); err != nil {
			return err
		}
		return s.logActivity(ctx, tx, actor.Name, string(actor.Role), "CREATE_ADMIN", fmt.Sprintf("%s (%s)", user.Email, user.Role))
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Admin user created", zap.String("email", user.Email), zap.String("role", string(user.Role)), zap.String("by", actor.Email))
	return user, nil
}

func (s *Service) AdminUsers(ctx context.Context) ([]models.AdminUser, error) {
	return s.repo.ListAdminUsers(ctx, AdminUserFilter{})
}

// ToggleAdminActive flips an account between active and inactive.
func (s *Service) ToggleAdminActive(ctx context.Context, actor Actor, id uint) (*models.AdminUser, error) {
	if id == actor.ID {
		return nil, forbidden("You cannot deactivate your own account.")
	}
	var user *models.AdminUser
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		var err error
		user, err = tx.GetAdminUser(ctx, id)
		if err != nil {
			return orNotFound(err, "Admin user %d not found", id)
		}
		user.IsActive = !user.IsActive
		if err := tx.UpdateAdminUser(ctx, user); err != nil {
			return err
		}
		action := "DEACTIVATE_ADMIN"
		if user.IsActive {
			action = "ACTIVATE_ADMIN"
		}
		return s.logActivity(ctx, tx, actor.Name, string(actor.Role), action, user.Email)
	})
	return user, err
}

func (s *Service) RemoveAdminUser(ctx context.Context, actor Actor, addr string) error {
	addr = utils.NormalizeEmail(addr)
	if addr == "" {
		return invalid("Email is required.")
	}
	if utils.EmailsMatch(addr, actor.Email) {
		return forbidden("You cannot remove your own account.")
	}
	return s.repo.WithTx(ctx, func(tx Repository) error {
		user, err := tx.FindAdminUserByEmail(ctx, addr)
		if err != nil {
			return orNotFound(err, "Admin user %s not found", addr)
		}
		if err := tx.DeleteAdminUser(ctx, user.ID); err != nil {
			return err
		}
		return s.logActivity(ctx, tx, actor.Name, string(actor.Role), "REMOVE_ADMIN", user.Email)
	})
}

// findAdmin looks an address up exactly, then falls back to alias-aware
// matching across every account.
func findAdmin(ctx context.Context, repo Repository, addr string) (*models.AdminUser, error) {
	user, err := repo.FindAdminUserByEmail(ctx, utils.NormalizeEmail(addr))
	if err == nil || !isNotFound(err) {
		return user, err
	}
	users, err := repo.ListAdminUsers(ctx, AdminUserFilter{})
	if err != nil {
		return nil, err
	}
	for i := range users {
		if utils.EmailsMatch(users[i].Email, addr) {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

// Authenticate resolves a sign-in attempt to an Actor. The account must be
// active and hold the requested role. Deans must also name their faculty.
func (s *Service) Authenticate(ctx context.Context, addr, role, faculty string) (Actor, error) {
	const denied = "No active admin account matches these credentials."
	if strings.TrimSpace(addr) == "" || strings.TrimSpace(role) == "" {
		return Actor{}, invalid("Email and role are required.")
	}
	user, err := findAdmin(ctx, s.repo, addr)
	if err != nil {
		if isNotFound(err) {
			return Actor{}, forbidden(denied)
		}
		return Actor{}, err
	}
	wanted, err := workflow.ParseRole(role)
	if err != nil || !user.IsActive || user.Role != wanted {
		return Actor{}, forbidden(denied)
	}
	if user.Role == workflow.RoleDean && !utils.FacultyMatches(user.Faculty, faculty) {
		return Actor{}, forbidden(denied)
	}
	return ActorFromUser(*user), nil
}

// SendPendingReminders emails each active admin a digest of the
// applications waiting on them. It returns the number of digests queued.
func (s *Service) SendPendingReminders(ctx context.Context) (int, error) {
	users, err := s.repo.ListAdminUsers(ctx, AdminUserFilter{ActiveOnly: true})
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, u := range users {
		items, err := s.PendingItems(ctx, ActorFromUser(u))
		if err != nil {
			return sent, err
		}
		if len(items) == 0 {
			continue
		}
		digest := make([]email.DigestItem, 0, len(items))
		for _, it := range items {
			digest = append(digest, email.DigestItem{
				KindLabel:   workflow.KindLabel(it.Type),
				ReferenceID: it.ID,
				SocietyName: it.SocietyName,
				EventName:   it.EventName,
				Submitted:   it.SubmittedDate.Format("2006-01-02"),
			})
		}
		s.enqueue(email.Message{
			To:      u.Email,
			Subject: fmt.Sprintf("%d application(s) waiting for your review", len(items)),
			Body:    email.BuildDigestEmail(u.Name, digest),
		})
		sent++
	}
	logger.Info("Pending approval reminders queued", zap.Int("count", sent))
	return sent, nil
}
