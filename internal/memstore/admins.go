package memstore

import (
	"context"
	"sort"

	"sms-portal/internal/models"
	"sms-portal/internal/service"
)

func (s *Store) CreateAdminUser(_ context.Context, u *models.AdminUser) error {
	defer s.lock()()
	for _, other := range s.db.admins {
		if sameName(other.Email, u.Email) {
			return service.ErrConflict
		}
	}
	u.ID = s.nextID()
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt
	s.db.admins[u.ID] = *u
	return nil
}

func (s *Store) UpdateAdminUser(_ context.Context, u *models.AdminUser) error {
	defer s.lock()()
	if _, ok := s.db.admins[u.ID]; !ok {
		return service.ErrNotFound
	}
	u.UpdatedAt = s.now()
	s.db.admins[u.ID] = *u
	return nil
}

func (s *Store) DeleteAdminUser(_ context.Context, id uint) error {
	defer s.lock()()
	if _, ok := s.db.admins[id]; !ok {
		return service.ErrNotFound
	}
	delete(s.db.admins, id)
	return nil
}

func (s *Store) GetAdminUser(_ context.Context, id uint) (*models.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.db.admins[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return &u, nil
}

func (s *Store) FindAdminUserByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.db.admins {
		if sameName(u.Email, email) {
			return &u, nil
		}
	}
	return nil, service.ErrNotFound
}

func (s *Store) ListAdminUsers(_ context.Context, f service.AdminUserFilter) ([]models.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := []models.AdminUser{}
	for _, u := range s.db.admins {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.ActiveOnly && !u.IsActive {
			continue
		}
		rows = append(rows, u)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (s *Store) CreateActivityLog(_ context.Context, l *models.ActivityLog) error {
	defer s.lock()()
	l.ID = s.nextID()
	if l.Timestamp.IsZero() {
		l.Timestamp = s.now()
	}
	s.db.logs[l.ID] = *l
	return nil
}

func (s *Store) ListActivityLogs(_ context.Context, f service.ActivityLogFilter, page models.PageRequest) ([]models.ActivityLog, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := []models.ActivityLog{}
	for _, l := range s.db.logs {
		if f.User != "" && !containsFold(l.UserName, f.User) {
			continue
		}
		if f.Action != "" && !containsFold(l.Action, f.Action) {
			continue
		}
		rows = append(rows, l)
	}
	sort.Slice(rows, func(i, j int) bool {
		return newestFirst(rows[i].Timestamp, rows[j].Timestamp, rows[i].ID, rows[j].ID)
	})
	out, total := paginate(rows, page)
	return out, total, nil
}
