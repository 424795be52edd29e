package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/audio"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/repository"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/tictactoe"
)

type sessionRepo interface {
	Create(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	Update(ctx context.Context, id string, fn repository.UpdateFunc) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type SessionManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo

	// audio receives every effect on the server side. May be nil.
	audio audio.Player
	now   func() time.Time
}

func NewSessionManager(logger *slog.Logger, sessionRepo sessionRepo, player audio.Player) *SessionManager {
	return &SessionManager{
		logger:      logger.With("component", "session_manager"),
		sessionRepo: sessionRepo,
		audio:       player,
		now:         time.Now,
	}
}

// GetOrCreateSession - an empty id starts a new session, anything else must exist.
func (that *SessionManager) GetOrCreateSession(ctx context.Context, id string) (*entity.Session, error) {
	if id == "" {
		session, err := that.createSession(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create new session: %w", err)
		}

		return session, nil
	}

	if !pkg.IsSessionID(id) {
		return nil, apperror.ErrSessionNotFound
	}

	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	return session, nil
}

func (that *SessionManager) createSession(ctx context.Context) (*entity.Session, error) {
	session := entity.NewSession(pkg.GenerateSessionID())
	session.UpdatedAt = that.now()

	if err := that.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("session created", "sessionID", session.ID)

	return session, nil
}

// Apply - runs intent through the engine and stores the result. Ignored
// intents leave the stored session untouched and produce no effects.
func (that *SessionManager) Apply(ctx context.Context, id string, intent entity.Intent) (*entity.Session, []entity.Effect, error) {
	log := that.logger.With("method", "Apply", "sessionID", id, "intent", intent.Kind)

	if err := intent.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
	}

	var (
		effects []entity.Effect
		ignored bool
	)

	session, err := that.sessionRepo.Update(ctx, id, func(session *entity.Session) error {
		next, fx := tictactoe.Apply(*session, intent)
		if next == *session {
			effects, ignored = nil, true
			return repository.ErrNotModified
		}

		next.UpdatedAt = that.now()
		*session = next
		effects, ignored = fx, false

		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to apply intent: %w", err)
	}

	if ignored {
		log.Debug("intent ignored")
	}

	audio.Dispatch(ctx, log, that.audio, effects)

	return session, effects, nil
}

func (that *SessionManager) DeleteSession(ctx context.Context, id string) error {
	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrSessionNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session deleted", "sessionID", id)

	return nil
}
