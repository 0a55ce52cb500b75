// Package service implements the portal's business operations on top of a
// Repository. Handlers, cron jobs and CLI commands all go through it.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sms-portal/internal/models"
	"sms-portal/internal/workflow"
	"sms-portal/pkg/cache"
	"sms-portal/pkg/notify"
	"sms-portal/pkg/validation"

	"go.uber.org/zap"
)

var (
	logger = zap.NewNop()
)

// InitLogger sets the zap logger for this package
func InitLogger(l *zap.Logger) {
	logger = l
}

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
)

// Error is a sentinel error with a message meant for the API caller.
type Error struct {
	Kind   error
	Msg    string
	Fields map[string]string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func notFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

func forbidden(format string, args ...any) error {
	return &Error{Kind: ErrForbidden, Msg: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// invalidFields converts a validation.Error; other errors pass through.
func invalidFields(err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return &Error{Kind: ErrValidation, Msg: "Validation failed: " + verr.Error(), Fields: verr.Fields}
	}
	return err
}

// orNotFound replaces a bare repository ErrNotFound with a readable message.
func orNotFound(err error, format string, args ...any) error {
	if errors.Is(err, ErrNotFound) {
		var e *Error
		if errors.As(err, &e) {
			return err
		}
		return notFound(format, args...)
	}
	return err
}

// Actor is the signed-in admin performing an operation.
type Actor struct {
	ID      uint          `json:"id"`
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Role    workflow.Role `json:"role"`
	Faculty string        `json:"faculty,omitempty"`
}

func ActorFromUser(u models.AdminUser) Actor {
	return Actor{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Faculty: u.Faculty}
}

type SocietyFilter struct {
	Search string
	Status models.SocietyStatus
	Year   int
}

type ApplicationFilter struct {
	Status      workflow.Status
	Year        int
	SocietyName string
}

type AdminUserFilter struct {
	Role       workflow.Role
	ActiveOnly bool
}

type ActivityLogFilter struct {
	User   string
	Action string
}

// Repository is the persistence boundary. Implementations return a bare
// ErrNotFound for missing rows. A PageRequest with Size 0 means no limit.
// Name lookups are case-insensitive.
type Repository interface {
	// WithTx runs fn against a repository bound to one transaction.
	WithTx(ctx context.Context, fn func(tx Repository) error) error

	SaveSociety(ctx context.Context, s *models.Society) error
	GetSociety(ctx context.Context, id uint) (*models.Society, error)
	FindSociety(ctx context.Context, name string, year int) (*models.Society, error)
	LatestSociety(ctx context.Context, name string) (*models.Society, error)
	ListSocieties(ctx context.Context, f SocietyFilter, page models.PageRequest) ([]models.Society, int64, error)
	ActiveSocieties(ctx context.Context) ([]models.Society, error)
	CountSocieties(ctx context.Context, f SocietyFilter) (int64, error)
	DeactivateSocieties(ctx context.Context, beforeYear int) (int64, error)

	CreateRegistration(ctx context.Context, r *models.SocietyRegistration) error
	UpdateRegistration(ctx context.Context, r *models.SocietyRegistration) error
	GetRegistration(ctx context.Context, id uint) (*models.SocietyRegistration, error)
	ListRegistrations(ctx context.Context, f ApplicationFilter, page models.PageRequest) ([]models.SocietyRegistration, int64, error)
	LatestApprovedRegistration(ctx context.Context, name string) (*models.SocietyRegistration, error)

	CreateRenewal(ctx context.Context, r *models.SocietyRenewal) error
	UpdateRenewal(ctx context.Context, r *models.SocietyRenewal) error
	GetRenewal(ctx context.Context, id uint) (*models.SocietyRenewal, error)
	ListRenewals(ctx context.Context, f ApplicationFilter, page models.PageRequest) ([]models.SocietyRenewal, int64, error)
	LatestApprovedRenewal(ctx context.Context, name string) (*models.SocietyRenewal, error)

	CreateEvent(ctx context.Context, e *models.EventPermission) error
	UpdateEvent(ctx context.Context, e *models.EventPermission) error
	GetEvent(ctx context.Context, id uint) (*models.EventPermission, error)
	ListEvents(ctx context.Context, f ApplicationFilter, page models.PageRequest) ([]models.EventPermission, int64, error)
	UpcomingEvents(ctx context.Context, from models.Date, limit int) ([]models.EventPermission, error)

	CreateAdminUser(ctx context.Context, u *models.AdminUser) error
	UpdateAdminUser(ctx context.Context, u *models.AdminUser) error
	DeleteAdminUser(ctx context.Context, id uint) error
	GetAdminUser(ctx context.Context, id uint) (*models.AdminUser, error)
	FindAdminUserByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	ListAdminUsers(ctx context.Context, f AdminUserFilter) ([]models.AdminUser, error)

	CreateActivityLog(ctx context.Context, l *models.ActivityLog) error
	ListActivityLogs(ctx context.Context, f ActivityLogFilter, page models.PageRequest) ([]models.ActivityLog, int64, error)
}

type Options struct {
	PublicBaseURL   string
	DownloadLinkTTL time.Duration
	StatsTTL        time.Duration
	UniversityName  string
}

type Service struct {
	repo     Repository
	notifier notify.Notifier
	cache    cache.Cache
	opts     Options
	now      func() time.Time
}

func New(repo Repository, notifier notify.Notifier, c cache.Cache, opts Options) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	if opts.DownloadLinkTTL == 0 {
		opts.DownloadLinkTTL = 7 * 24 * time.Hour
	}
	if opts.StatsTTL == 0 {
		opts.StatsTTL = 5 * time.Minute
	}
	return &Service{repo: repo, notifier: notifier, cache: c, opts: opts, now: time.Now}
}

// WithClock replaces the time source. Tests use it to pin "today".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) currentYear() int {
	return s.now().Year()
}

func (s *Service) today() models.Date {
	return models.NewDate(s.now())
}

func (s *Service) logActivity(ctx context.Context, repo Repository, user, role, action, target string) error {
	entry := &models.ActivityLog{
		UserName:  user,
		UserRole:  role,
		Action:    action,
		Target:    target,
		Timestamp: s.now(),
	}
	if err := repo.CreateActivityLog(ctx, entry); err != nil {
		return fmt.Errorf("write activity log %s: %w", action, err)
	}
	return nil
}
