package repository

import (
	"context"
	"sync"
	"time"

	"staybook/internal/models"
)

// MemorySessionRepository is the in-process fallback store. Entries carry an
// expiry stamp because sync.Map has no TTL of its own.
type MemorySessionRepository struct {
	sessions sync.Map
	ttl      time.Duration
}

type sessionEntry struct {
	session   *models.VerificationSession
	expiresAt time.Time
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		ttl: ttl,
	}
}

func (r *MemorySessionRepository) GetSession(ctx context.Context, id string) (*models.VerificationSession, error) {
	val, ok := r.sessions.Load(id)
	if !ok {
		return nil, nil
	}
	entry := val.(*sessionEntry)
	if r.ttl > 0 && time.Now().After(entry.expiresAt) {
		r.sessions.Delete(id)
		return nil, nil
	}
	return entry.session, nil
}

func (r *MemorySessionRepository) SaveSession(ctx context.Context, session *models.VerificationSession) error {
	r.sessions.Store(session.ID, &sessionEntry{
		session:   session,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemorySessionRepository) DeleteSession(ctx context.Context, id string) error {
	r.sessions.Delete(id)
	return nil
}
