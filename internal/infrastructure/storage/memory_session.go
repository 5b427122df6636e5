package storage

import (
	"context"
	"sync"
	"time"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/repository"
)

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*entity.Session
	now      func() time.Time
}

// NewMemorySessionRepository in-memory session repository yaratish
func NewMemorySessionRepository() repository.SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[int64]*entity.Session),
		now:      time.Now,
	}
}

// Get sessiya nusxasini qaytaradi
func (m *memorySessionRepository) Get(ctx context.Context, userID int64) (*entity.Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[userID]
	if !ok {
		return nil, false, nil
	}
	return s.Clone(), true, nil
}

// Update fn ni nusxa ustida bajaradi; xato bo'lmasa saqlanadi
func (m *memorySessionRepository) Update(ctx context.Context, userID int64, fn func(s *entity.Session) error) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.sessions[userID]
	if !ok {
		current = entity.NewSession(userID)
		current.StartedAt = m.now()
	}

	work := current.Clone()
	if fn != nil {
		if err := fn(work); err != nil {
			return current.Clone(), err
		}
	}
	work.UserID = userID
	work.LastUpdated = m.now()
	m.sessions[userID] = work
	return work.Clone(), nil
}

// PurgeIdle ttl dan uzoq faol bo'lmagan sessiyalarni tozalaydi
func (m *memorySessionRepository) PurgeIdle(ctx context.Context, ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, nil
	}
	cutoff := m.now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.LastUpdated.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}
