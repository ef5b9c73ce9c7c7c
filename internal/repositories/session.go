package repositories

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/ats-resume-expert/internal/models"
)

// SessionRepository keeps sessions in process memory. Returned sessions are
// snapshots; mutate through the repository methods.
type SessionRepository interface {
	Create() *models.Session
	FindByID(id uuid.UUID) (*models.Session, error)
	SetCurrent(id uuid.UUID, result *models.AnalysisResult) error
	ClearCurrent(id uuid.UUID) error
	AppendHistory(id uuid.UUID, entry models.HistoryEntry) error
	RecentHistory(id uuid.UUID, limit int) ([]models.HistoryEntry, error)
	ClearHistory(id uuid.UUID) error
	Delete(id uuid.UUID) error
	DeleteIdle(before time.Time) int
	Count() int
}

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*models.Session
	now      func() time.Time
}

func NewSessionRepository() SessionRepository {
	return &sessionRepository{
		sessions: make(map[uuid.UUID]*models.Session),
		now:      time.Now,
	}
}

// Create implements SessionRepository.
func (r *sessionRepository) Create() *models.Session {
	now := r.now()
	session := &models.Session{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		History:   []models.HistoryEntry{},
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()

	return snapshot(session)
}

// FindByID implements SessionRepository.
func (r *sessionRepository) FindByID(id uuid.UUID) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, &SessionNotFoundError{ID: id}
	}

	return snapshot(session), nil
}

// SetCurrent implements SessionRepository.
func (r *sessionRepository) SetCurrent(id uuid.UUID, result *models.AnalysisResult) error {
	return r.update(id, func(s *models.Session) {
		s.Current = result
	})
}

// ClearCurrent implements SessionRepository.
func (r *sessionRepository) ClearCurrent(id uuid.UUID) error {
	return r.update(id, func(s *models.Session) {
		s.Current = nil
	})
}

// AppendHistory implements SessionRepository.
func (r *sessionRepository) AppendHistory(id uuid.UUID, entry models.HistoryEntry) error {
	return r.update(id, func(s *models.Session) {
		s.History = append(s.History, entry)
	})
}

// RecentHistory returns up to limit entries, newest first.
func (r *sessionRepository) RecentHistory(id uuid.UUID, limit int) ([]models.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, &SessionNotFoundError{ID: id}
	}

	n := len(session.History)
	if limit > 0 && limit < n {
		n = limit
	}

	recent := make([]models.HistoryEntry, 0, n)
	for i := len(session.History) - 1; i >= len(session.History)-n; i-- {
		recent = append(recent, session.History[i])
	}

	return recent, nil
}

// ClearHistory implements SessionRepository.
func (r *sessionRepository) ClearHistory(id uuid.UUID) error {
	return r.update(id, func(s *models.Session) {
		s.History = []models.HistoryEntry{}
	})
}

// Delete implements SessionRepository.
func (r *sessionRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return &SessionNotFoundError{ID: id}
	}
	delete(r.sessions, id)

	return nil
}

// DeleteIdle removes sessions not touched since before and returns how many
// were removed.
func (r *sessionRepository) DeleteIdle(before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, session := range r.sessions {
		if session.UpdatedAt.Before(before) {
			delete(r.sessions, id)
			removed++
		}
	}

	return removed
}

// Count implements SessionRepository.
func (r *sessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *sessionRepository) update(id uuid.UUID, fn func(s *models.Session)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return &SessionNotFoundError{ID: id}
	}

	fn(session)
	session.UpdatedAt = r.now()

	return nil
}

func snapshot(s *models.Session) *models.Session {
	cp := *s
	cp.History = slices.Clone(s.History)
	if cp.History == nil {
		cp.History = []models.HistoryEntry{}
	}
	return &cp
}
