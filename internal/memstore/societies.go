package memstore

import (
	"context"
	"sort"

	"sms-portal/internal/models"
	"sms-portal/internal/service"
)

func (s *Store) SaveSociety(_ context.Context, soc *models.Society) error {
	defer s.lock()()

	for id, other := range s.db.societies {
		if id != soc.ID && other.Year == soc.Year && sameName(other.SocietyName, soc.SocietyName) {
			return service.ErrConflict
		}
	}
	now := s.now()
	if soc.ID == 0 {
		soc.ID = s.nextID()
		soc.CreatedAt = now
	} else if _, ok := s.db.societies[soc.ID]; !ok {
		return service.ErrNotFound
	}
	soc.UpdatedAt = now
	s.db.societies[soc.ID] = *soc
	return nil
}

func (s *Store) GetSociety(_ context.Context, id uint) (*models.Society, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	soc, ok := s.db.societies[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return &soc, nil
}

func (s *Store) FindSociety(_ context.Context, name string, year int) (*models.Society, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, soc := range s.db.societies {
		if soc.Year == year && sameName(soc.SocietyName, name) {
			return &soc, nil
		}
	}
	return nil, service.ErrNotFound
}

func (s *Store) LatestSociety(_ context.Context, name string) (*models.Society, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.Society
	for _, soc := range s.db.societies {
		if !sameName(soc.SocietyName, name) {
			continue
		}
		if latest == nil || soc.Year > latest.Year {
			soc := soc
			latest = &soc
		}
	}
	if latest == nil {
		return nil, service.ErrNotFound
	}
	return latest, nil
}

func (s *Store) filterSocieties(f service.SocietyFilter) []models.Society {
	var rows []models.Society
	for _, soc := range s.db.societies {
		if f.Search != "" && !containsFold(soc.SocietyName, f.Search) {
			continue
		}
		if f.Status != "" && soc.Status != f.Status {
			continue
		}
		if f.Year != 0 && soc.Year != f.Year {
			continue
		}
		rows = append(rows, soc)
	}
	return rows
}

func (s *Store) ListSocieties(_ context.Context, f service.SocietyFilter, page models.PageRequest) ([]models.Society, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.filterSocieties(f)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year > rows[j].Year
		}
		return rows[i].SocietyName < rows[j].SocietyName
	})
	out, total := paginate(rows, page)
	return out, total, nil
}

func (s *Store) ActiveSocieties(_ context.Context) ([]models.Society, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.filterSocieties(service.SocietyFilter{Status: models.SocietyActive})
	sort.Slice(rows, func(i, j int) bool { return rows[i].SocietyName < rows[j].SocietyName })
	if rows == nil {
		rows = []models.Society{}
	}
	return rows, nil
}

func (s *Store) CountSocieties(_ context.Context, f service.SocietyFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.filterSocieties(f))), nil
}

func (s *Store) DeactivateSocieties(_ context.Context, beforeYear int) (int64, error) {
	defer s.lock()()
	var n int64
	for id, soc := range s.db.societies {
		if soc.Status == models.SocietyActive && soc.Year < beforeYear {
			soc.Status = models.SocietyInactive
			soc.UpdatedAt = s.now()
			s.db.societies[id] = soc
			n++
		}
	}
	return n, nil
}
