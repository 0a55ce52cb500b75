// Package memstore is an in-memory service.Repository. It backs
// `serve --in-memory` and the service and handler tests.
package memstore

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"sms-portal/internal/models"
	"sms-portal/internal/service"
)

type tables struct {
	societies     map[uint]models.Society
	registrations map[uint]models.SocietyRegistration
	renewals      map[uint]models.SocietyRenewal
	events        map[uint]models.EventPermission
	admins        map[uint]models.AdminUser
	logs          map[uint]models.ActivityLog
	seq           uint
}

func newTables() tables {
	return tables{
		societies:     map[uint]models.Society{},
		registrations: map[uint]models.SocietyRegistration{},
		renewals:      map[uint]models.SocietyRenewal{},
		events:        map[uint]models.EventPermission{},
		admins:        map[uint]models.AdminUser{},
		logs:          map[uint]models.ActivityLog{},
	}
}

func (t tables) clone() tables {
	return tables{
		societies:     maps.Clone(t.societies),
		registrations: maps.Clone(t.registrations),
		renewals:      maps.Clone(t.renewals),
		events:        maps.Clone(t.events),
		admins:        maps.Clone(t.admins),
		logs:          maps.Clone(t.logs),
		seq:           t.seq,
	}
}

type state struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	db   tables
	now  func() time.Time
}

// Store keeps every table in maps guarded by one lock. Transactions are
// serialized and roll back by restoring a snapshot. Writes made outside a
// transaction wait for the running one, so a rollback never discards them.
type Store struct {
	*state
	// inTx marks the view handed to WithTx callbacks
	inTx bool
}

var _ service.Repository = (*Store)(nil)

func New() *Store {
	return &Store{state: &state{db: newTables(), now: time.Now}}
}

// WithTx runs fn as one transaction. Nested calls join the outer one.
func (s *Store) WithTx(_ context.Context, fn func(tx service.Repository) error) error {
	if s.inTx {
		return fn(s)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.db.clone()
	s.mu.RUnlock()

	if err := fn(&Store{state: s.state, inTx: true}); err != nil {
		s.mu.Lock()
		s.db = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// lock takes the write lock. Outside a transaction it first waits for any
// running transaction to finish.
func (s *Store) lock() (unlock func()) {
	if !s.inTx {
		s.txMu.Lock()
	}
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		if !s.inTx {
			s.txMu.Unlock()
		}
	}
}

func (s *Store) nextID() uint {
	s.db.seq++
	return s.db.seq
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func paginate[T any](rows []T, page models.PageRequest) ([]T, int64) {
	total := int64(len(rows))
	if page.Size <= 0 {
		return rows, total
	}
	start := page.Offset()
	if start >= len(rows) {
		return []T{}, total
	}
	end := start + page.Size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], total
}

func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}
