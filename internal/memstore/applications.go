package memstore

import (
	"context"
	"sort"
	"time"

	"sms-portal/internal/models"
	"sms-portal/internal/service"
	"sms-portal/internal/workflow"
)

func newestFirst(a, b time.Time, aID, bID uint) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return aID > bID
}

func matches(f service.ApplicationFilter, status workflow.Status, year int, name string) bool {
	if f.Status != "" && status != f.Status {
		return false
	}
	if f.Year != 0 && year != f.Year {
		return false
	}
	if f.SocietyName != "" && !sameName(name, f.SocietyName) {
		return false
	}
	return true
}

func (s *Store) CreateRegistration(_ context.Context, r *models.SocietyRegistration) error {
	defer s.lock()()
	r.ID = s.nextID()
	r.CreatedAt = s.now()
	r.UpdatedAt = r.CreatedAt
	s.db.registrations[r.ID] = *r
	return nil
}

func (s *Store) UpdateRegistration(_ context.Context, r *models.SocietyRegistration) error {
	defer s.lock()()
	if _, ok := s.db.registrations[r.ID]; !ok {
		return service.ErrNotFound
	}
	r.UpdatedAt = s.now()
	s.db.registrations[r.ID] = *r
	return nil
}

func (s *Store) GetRegistration(_ context.Context, id uint) (*models.SocietyRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.db.registrations[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return &r, nil
}

func (s *Store) ListRegistrations(_ context.Context, f service.ApplicationFilter, page models.PageRequest) ([]models.SocietyRegistration, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := []models.SocietyRegistration{}
	for _, r := range s.db.registrations {
		if matches(f, r.Status, r.Year, r.SocietyName) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return newestFirst(rows[i].SubmittedDate, rows[j].SubmittedDate, rows[i].ID, rows[j].ID)
	})
	out, total := paginate(rows, page)
	return out, total, nil
}

func (s *Store) LatestApprovedRegistration(_ context.Context, name string) (*models.SocietyRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.SocietyRegistration
	for _, r := range s.db.registrations {
		if r.Status != workflow.StatusApproved || r.ApprovedDate == nil || !sameName(r.SocietyName, name) {
			continue
		}
		if latest == nil || r.ApprovedDate.After(*latest.ApprovedDate) {
			r := r
			latest = &r
		}
	}
	if latest == nil {
		return nil, service.ErrNotFound
	}
	return latest, nil
}

func (s *Store) CreateRenewal(_ context.Context, r *models.SocietyRenewal) error {
	defer s.lock()()
	r.ID = s.nextID()
	r.CreatedAt = s.now()
	r.UpdatedAt = r.CreatedAt
	s.db.renewals[r.ID] = *r
	return nil
}

func (s *Store) UpdateRenewal(_ context.Context, r *models.SocietyRenewal) error {
	defer s.lock()()
	if _, ok := s.db.renewals[r.ID]; !ok {
		return service.ErrNotFound
	}
	r.UpdatedAt = s.now()
	s.db.renewals[r.ID] = *r
	return nil
}

func (s *Store) GetRenewal(_ context.Context, id uint) (*models.SocietyRenewal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.db.renewals[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return &r, nil
}

func (s *Store) ListRenewals(_ context.Context, f service.ApplicationFilter, page models.PageRequest) ([]models.SocietyRenewal, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := []models.SocietyRenewal{}
	for _, r := range s.db.renewals {
		if matches(f, r.Status, r.Year, r.SocietyName) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return newestFirst(rows[i].SubmittedDate, rows[j].SubmittedDate, rows[i].ID, rows[j].ID)
	})
	out, total := paginate(rows, page)
	return out, total, nil
}

func (s *Store) LatestApprovedRenewal(_ context.Context, name string) (*models.SocietyRenewal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.SocietyRenewal
	for _, r := range s.db.renewals {
		if r.Status != workflow.StatusApproved || r.ApprovedDate == nil || !sameName(r.SocietyName, name) {
			continue
		}
		if latest == nil || r.ApprovedDate.After(*latest.ApprovedDate) {
			r := r
			latest = &r
		}
	}
	if latest == nil {
		return nil, service.ErrNotFound
	}
	return latest, nil
}

func (s *Store) CreateEvent(_ context.Context, e *models.EventPermission) error {
	defer s.lock()()
	e.ID = s.nextID()
	e.CreatedAt = s.now()
	e.UpdatedAt = e.CreatedAt
	s.db.events[e.ID] = *e
	return nil
}

func (s *Store) UpdateEvent(_ context.Context, e *models.EventPermission) error {
	defer s.lock()()
	if _, ok := s.db.events[e.ID]; !ok {
		return service.ErrNotFound
	}
	e.UpdatedAt = s.now()
	s.db.events[e.ID] = *e
	return nil
}

func (s *Store) GetEvent(_ context.Context, id uint) (*models.EventPermission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.db.events[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return &e, nil
}

func (s *Store) ListEvents(_ context.Context, f service.ApplicationFilter, page models.PageRequest) ([]models.EventPermission, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := []models.EventPermission{}
	for _, e := range s.db.events {
		if matches(f, e.Status, e.EventDate.Year(), e.SocietyName) {
			rows = append(rows, e)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return newestFirst(rows[i].SubmittedDate, rows[j].SubmittedDate, rows[i].ID, rows[j].ID)
	})
	out, total := paginate(rows, page)
	return out, total, nil
}

func (s *Store) UpcomingEvents(_ context.Context, from models.Date, limit int) ([]models.EventPermission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := []models.EventPermission{}
	for _, e := range s.db.events {
		if e.Status == workflow.StatusApproved && !e.EventDate.Before(from) {
			rows = append(rows, e)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].EventDate.Equal(rows[j].EventDate.Time) {
			return rows[i].EventDate.Before(rows[j].EventDate)
		}
		return rows[i].ID < rows[j].ID
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
