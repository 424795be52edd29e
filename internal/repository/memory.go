package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

type memoryEntry struct {
	session   entity.Session
	expiresAt time.Time
}

type memorySession struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionRepository keeps sessions in process. Expired sessions are
// dropped when they are next touched.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySession{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (that *memorySession) Create(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.lookup(session.ID); ok {
		return fmt.Errorf("%w: %s", ErrSessionAlreadyExists, session.ID)
	}

	that.store(*session)

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.lookup(id)
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return &session, nil
}

func (that *memorySession) Update(_ context.Context, id string, fn UpdateFunc) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.lookup(id)
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	if err := fn(&session); err != nil {
		if errors.Is(err, ErrNotModified) {
			return &session, nil
		}
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	that.store(session)

	return &session, nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.lookup(id); !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

// lookup must be called with mu held.
func (that *memorySession) lookup(id string) (entity.Session, bool) {
	entry, ok := that.sessions[id]
	if !ok {
		return entity.Session{}, false
	}

	if !entry.expiresAt.IsZero() && !that.now().Before(entry.expiresAt) {
		delete(that.sessions, id)
		return entity.Session{}, false
	}

	return entry.session, true
}

func (that *memorySession) store(session entity.Session) {
	entry := memoryEntry{session: session}
	if that.ttl > 0 {
		entry.expiresAt = that.now().Add(that.ttl)
	}

	that.sessions[session.ID] = entry
}
