package db

import (
	"context"
	"errors"
	"strings"

	"sms-portal/internal/models"
	"sms-portal/internal/service"
	"sms-portal/internal/workflow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the Postgres backed service.Repository.
type Store struct {
	db *gorm.DB
	// inTx makes application reads lock their row until the transaction ends
	inTx bool
}

var _ service.Repository = (*Store)(nil)

func NewStore(gormDB *gorm.DB) *Store {
	return &Store{db: gormDB}
}

// translate maps gorm errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return service.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return service.ErrConflict
	}
	return err
}

func (s *Store) WithTx(ctx context.Context, fn func(tx service.Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, inTx: true})
	})
}

// forUpdate locks the selected rows when running inside a transaction, so
// concurrent decisions on one application are applied one after another.
func (s *Store) forUpdate() *gorm.DB {
	if !s.inTx {
		return s.db
	}
	return s.db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func get[T any](ctx context.Context, q *gorm.DB, id uint) (*T, error) {
	var v T
	if err := q.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func first[T any](ctx context.Context, q *gorm.DB) (*T, error) {
	var v T
	if err := q.WithContext(ctx).Limit(1).Take(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// update writes every column of v except the immutable ones.
func update[T any](ctx context.Context, q *gorm.DB, v *T) error {
	res := q.WithContext(ctx).Model(v).Select("*").Omit("id", "created_at").Updates(v)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return service.ErrNotFound
	}
	return nil
}

// list counts the filtered rows and returns one page of them. A zero page
// size returns every row.
func list[T any](ctx context.Context, q *gorm.DB, order string, page models.PageRequest) ([]T, int64, error) {
	q = q.Session(&gorm.Session{})
	var total int64
	var model T
	if err := q.WithContext(ctx).Model(&model).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []T{}
	q = q.WithContext(ctx).Order(order)
	if page.Size > 0 {
		q = q.Offset(page.Offset()).Limit(page.Size)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func byName(q *gorm.DB, column, name string) *gorm.DB {
	return q.Where("LOWER("+column+") = ?", strings.ToLower(strings.TrimSpace(name)))
}

// SaveSociety inserts a new society or overwrites an existing row.
func (s *Store) SaveSociety(ctx context.Context, soc *models.Society) error {
	if soc.ID == 0 {
		return translate(s.db.WithContext(ctx).Create(soc).Error)
	}
	return update(ctx, s.db, soc)
}

func (s *Store) GetSociety(ctx context.Context, id uint) (*models.Society, error) {
	return get[models.Society](ctx, s.db, id)
}

func (s *Store) FindSociety(ctx context.Context, name string, year int) (*models.Society, error) {
	return first[models.Society](ctx, byName(s.db, "society_name", name).Where("year = ?", year))
}

func (s *Store) LatestSociety(ctx context.Context, name string) (*models.Society, error) {
	return first[models.Society](ctx, byName(s.db, "society_name", name).Order("year DESC"))
}

func (s *Store) societyScope(f service.SocietyFilter) *gorm.DB {
	q := s.db.Model(&models.Society{})
	if f.Search != "" {
		q = q.Where("society_name ILIKE ?", "%"+escapeLike(f.Search)+"%")
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Year != 0 {
		q = q.Where("year = ?", f.Year)
	}
	return q
}

func (s *Store) ListSocieties(ctx context.Context, f service.SocietyFilter, page models.PageRequest) ([]models.Society, int64, error) {
	return list[models.Society](ctx, s.societyScope(f), "year DESC, society_name ASC", page)
}

func (s *Store) ActiveSocieties(ctx context.Context) ([]models.Society, error) {
	rows, _, err := list[models.Society](ctx, s.societyScope(service.SocietyFilter{Status: models.SocietyActive}), "society_name ASC", models.PageRequest{})
	return rows, err
}

func (s *Store) CountSocieties(ctx context.Context, f service.SocietyFilter) (int64, error) {
	var n int64
	err := s.societyScope(f).WithContext(ctx).Count(&n).Error
	return n, err
}

func (s *Store) DeactivateSocieties(ctx context.Context, beforeYear int) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Society{}).
		Where("status = ? AND year < ?", models.SocietyActive, beforeYear).
		Update("status", models.SocietyInactive)
	return res.RowsAffected, res.Error
}

// applicationScope filters an application table. yearExpr differs between
// tables: registrations and renewals carry a year column, events use the
// event date.
func applicationScope(q *gorm.DB, f service.ApplicationFilter, yearExpr string) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Year != 0 {
		q = q.Where(yearExpr+" = ?", f.Year)
	}
	if f.SocietyName != "" {
		q = byName(q, "society_name", f.SocietyName)
	}
	return q
}

const newestFirst = "submitted_date DESC, id DESC"

func (s *Store) CreateRegistration(ctx context.Context, r *models.SocietyRegistration) error {
	return translate(s.db.WithContext(ctx).Create(r).Error)
}

func (s *Store) UpdateRegistration(ctx context.Context, r *models.SocietyRegistration) error {
	return update(ctx, s.db, r)
}

func (s *Store) GetRegistration(ctx context.Context, id uint) (*models.SocietyRegistration, error) {
	return get[models.SocietyRegistration](ctx, s.forUpdate(), id)
}

func (s *Store) ListRegistrations(ctx context.Context, f service.ApplicationFilter, page models.PageRequest) ([]models.SocietyRegistration, int64, error) {
	q := applicationScope(s.db.Model(&models.SocietyRegistration{}), f, "year")
	return list[models.SocietyRegistration](ctx, q, newestFirst, page)
}

func (s *Store) LatestApprovedRegistration(ctx context.Context, name string) (*models.SocietyRegistration, error) {
	q := byName(s.db, "society_name", name).
		Where("status = ? AND approved_date IS NOT NULL", workflow.StatusApproved).
		Order("approved_date DESC")
	return first[models.SocietyRegistration](ctx, q)
}

func (s *Store) CreateRenewal(ctx context.Context, r *models.SocietyRenewal) error {
	return translate(s.db.WithContext(ctx).Create(r).Error)
}

func (s *Store) UpdateRenewal(ctx context.Context, r *models.SocietyRenewal) error {
	return update(ctx, s.db, r)
}

func (s *Store) GetRenewal(ctx context.Context, id uint) (*models.SocietyRenewal, error) {
	return get[models.SocietyRenewal](ctx, s.forUpdate(), id)
}

func (s *Store) ListRenewals(ctx context.Context, f service.ApplicationFilter, page models.PageRequest) ([]models.SocietyRenewal, int64, error) {
	q := applicationScope(s.db.Model(&models.SocietyRenewal{}), f, "year")
	return list[models.SocietyRenewal](ctx, q, newestFirst, page)
}

func (s *Store) LatestApprovedRenewal(ctx context.Context, name string) (*models.SocietyRenewal, error) {
	q := byName(s.db, "society_name", name).
		Where("status = ? AND approved_date IS NOT NULL", workflow.StatusApproved).
		Order("approved_date DESC")
	return first[models.SocietyRenewal](ctx, q)
}

func (s *Store) CreateEvent(ctx context.Context, e *models.EventPermission) error {
	return translate(s.db.WithContext(ctx).Create(e).Error)
}

func (s *Store) UpdateEvent(ctx context.Context, e *models.EventPermission) error {
	return update(ctx, s.db, e)
}

func (s *Store) GetEvent(ctx context.Context, id uint) (*models.EventPermission, error) {
	return get[models.EventPermission](ctx, s.forUpdate(), id)
}

func (s *Store) ListEvents(ctx context.Context, f service.ApplicationFilter, page models.PageRequest) ([]models.EventPermission, int64, error) {
	q := applicationScope(s.db.Model(&models.EventPermission{}), f, "EXTRACT(YEAR FROM event_date)")
	return list[models.EventPermission](ctx, q, newestFirst, page)
}

// UpcomingEvents returns approved events on or after from, soonest first.
func (s *Store) UpcomingEvents(ctx context.Context, from models.Date, limit int) ([]models.EventPermission, error) {
	rows := []models.EventPermission{}
	q := s.db.WithContext(ctx).
		Where("status = ? AND event_date >= ?", workflow.StatusApproved, from).
		Order("event_date ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) CreateAdminUser(ctx context.Context, u *models.AdminUser) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *Store) UpdateAdminUser(ctx context.Context, u *models.AdminUser) error {
	return update(ctx, s.db, u)
}

func (s *Store) DeleteAdminUser(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.AdminUser{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *Store) GetAdminUser(ctx context.Context, id uint) (*models.AdminUser, error) {
	return get[models.AdminUser](ctx, s.db, id)
}

func (s *Store) FindAdminUserByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	return first[models.AdminUser](ctx, byName(s.db, "email", email))
}

func (s *Store) ListAdminUsers(ctx context.Context, f service.AdminUserFilter) ([]models.AdminUser, error) {
	q := s.db.Model(&models.AdminUser{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	rows, _, err := list[models.AdminUser](ctx, q, "id ASC", models.PageRequest{})
	return rows, err
}

func (s *Store) CreateActivityLog(ctx context.Context, l *models.ActivityLog) error {
	return s.db.WithContext(ctx).Create(l).Error
}

func (s *Store) ListActivityLogs(ctx context.Context, f service.ActivityLogFilter, page models.PageRequest) ([]models.ActivityLog, int64, error) {
	q := s.db.Model(&models.ActivityLog{})
	if f.User != "" {
		q = q.Where("user_name ILIKE ?", "%"+escapeLike(f.User)+"%")
	}
	if f.Action != "" {
		q = q.Where("action ILIKE ?", "%"+escapeLike(f.Action)+"%")
	}
	return list[models.ActivityLog](ctx, q, "timestamp DESC, id DESC", page)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(strings.TrimSpace(s))
}
