package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/audio"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/repository"
)

var (
	errRedisDown     = errors.New("redis down")
	errStorageIsFull = errors.New("storage is full")
)

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockSessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	args := m.Called(ctx, id)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (m *mockSessionRepo) Update(ctx context.Context, id string, fn repository.UpdateFunc) (*entity.Session, error) {
	args := m.Called(ctx, id, fn)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newManager(player audio.Player) (*SessionManager, repository.SessionRepository) {
	repo := repository.NewMemorySessionRepository(0)
	manager := NewSessionManager(discardLogger(), repo, player)
	manager.now = func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }

	return manager, repo
}

func intent(kind entity.IntentKind) entity.Intent {
	return entity.Intent{Kind: kind}
}

func click(cell int) entity.Intent {
	return entity.Intent{Kind: entity.IntentCellClicked, Cell: cell}
}

func TestSessionManager_GetOrCreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a new session when id is empty", func(t *testing.T) {
		// Given: an empty store
		manager, repo := newManager(nil)

		// When: calling GetOrCreateSession with an empty id
		session, err := manager.GetOrCreateSession(ctx, "")

		// Then: a stored, not started session is returned
		require.NoError(t, err)
		assert.NotEmpty(t, session.ID)
		assert.Equal(t, entity.LifecycleNotStarted, session.Lifecycle)

		stored, err := repo.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, session, stored)
	})

	t.Run("Returns existing session", func(t *testing.T) {
		manager, _ := newManager(nil)
		created, err := manager.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		session, err := manager.GetOrCreateSession(ctx, created.ID)

		require.NoError(t, err)
		assert.Equal(t, created, session)
	})

	t.Run("Unknown id is not found", func(t *testing.T) {
		manager, _ := newManager(nil)

		session, err := manager.GetOrCreateSession(ctx, "nope")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Nil(t, session)
	})

	t.Run("Returns error if repository Create fails", func(t *testing.T) {
		// Given: a repository that cannot store anything
		repo := &mockSessionRepo{}
		repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Session")).Return(errStorageIsFull).Once()
		manager := NewSessionManager(discardLogger(), repo, nil)

		// When: creating a session
		session, err := manager.GetOrCreateSession(ctx, "")

		// Then: the storage error surfaces
		require.ErrorIs(t, err, errStorageIsFull)
		assert.Nil(t, session)
		repo.AssertExpectations(t)
	})
}

func TestSessionManager_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays a full round and records the score once", func(t *testing.T) {
		// Given: a started session with a recording audio player
		rec := &recorder{}
		manager, _ := newManager(rec)
		session, err := manager.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		_, effects, err := manager.Apply(ctx, session.ID, intent(entity.IntentStart))
		require.NoError(t, err)
		assert.Equal(t, []entity.Effect{entity.StartAmbient()}, effects)

		// When: X wins on the top row
		for _, cell := range []int{0, 3, 1, 4} {
			_, _, err = manager.Apply(ctx, session.ID, click(cell))
			require.NoError(t, err)
		}
		session, effects, err = manager.Apply(ctx, session.ID, click(2))
		require.NoError(t, err)

		// Then: the win is scored and the cues went to the player
		assert.Equal(t, []entity.Effect{entity.PlayCue(entity.CueMove), entity.PlayCue(entity.CueWin)}, effects)
		assert.Equal(t, entity.Scores{X: 1}, session.Scores)

		// And: clicking on after the win changes nothing
		after, effects, err := manager.Apply(ctx, session.ID, click(8))
		require.NoError(t, err)
		assert.Empty(t, effects)
		assert.Equal(t, session, after)

		assert.Len(t, rec.effects, 1+4+2)
	})

	t.Run("Ignored intent is not written", func(t *testing.T) {
		// Given: a session that was never started
		manager, repo := newManager(nil)
		session, err := manager.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		// When: a cell is clicked
		next, effects, err := manager.Apply(ctx, session.ID, click(4))

		// Then: nothing changed, not even the timestamp
		require.NoError(t, err)
		assert.Empty(t, effects)
		assert.Equal(t, session, next)

		stored, err := repo.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, session, stored)
	})

	t.Run("Unknown intent is rejected", func(t *testing.T) {
		manager, _ := newManager(nil)

		_, _, err := manager.Apply(ctx, "any", intent("dance"))

		require.ErrorIs(t, err, apperror.ErrInvalidPayload)
		require.ErrorIs(t, err, entity.ErrUnknownIntent)
	})

	t.Run("Unknown session is not found", func(t *testing.T) {
		manager, _ := newManager(nil)

		_, _, err := manager.Apply(ctx, "missing", intent(entity.IntentStart))

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Storage failure is returned", func(t *testing.T) {
		repo := &mockSessionRepo{}
		repo.On("Update", mock.Anything, "s1", mock.Anything).Return(nil, errRedisDown).Once()
		manager := NewSessionManager(discardLogger(), repo, nil)

		session, effects, err := manager.Apply(ctx, "s1", intent(entity.IntentStart))

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, session)
		assert.Nil(t, effects)
		repo.AssertExpectations(t)
	})

	t.Run("Audio failures do not affect the session", func(t *testing.T) {
		// Given: a player that always fails
		player := &brokenPlayer{}
		manager, _ := newManager(player)
		session, err := manager.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		// When: the game starts
		next, effects, err := manager.Apply(ctx, session.ID, intent(entity.IntentStart))

		// Then: the transition still happened
		require.NoError(t, err)
		assert.Equal(t, entity.LifecycleInRound, next.Lifecycle)
		assert.Equal(t, []entity.Effect{entity.StartAmbient()}, effects)
		assert.Equal(t, 1, player.calls)
	})

	t.Run("Reset clears scores and stops ambient", func(t *testing.T) {
		manager, _ := newManager(nil)
		session, err := manager.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		for _, in := range []entity.Intent{intent(entity.IntentStart), click(0), click(3), click(1), click(4), click(2)} {
			_, _, err = manager.Apply(ctx, session.ID, in)
			require.NoError(t, err)
		}

		session, effects, err := manager.Apply(ctx, session.ID, intent(entity.IntentResetAll))

		require.NoError(t, err)
		assert.Equal(t, entity.Scores{}, session.Scores)
		assert.Equal(t, []entity.Effect{entity.StopAmbient()}, effects)
	})
}

func TestSessionManager_DeleteSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes an existing session", func(t *testing.T) {
		manager, repo := newManager(nil)
		session, err := manager.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		require.NoError(t, manager.DeleteSession(ctx, session.ID))

		_, err = repo.GetByID(ctx, session.ID)
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Missing session", func(t *testing.T) {
		manager, _ := newManager(nil)

		err := manager.DeleteSession(ctx, "missing")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Storage failure is wrapped", func(t *testing.T) {
		repo := &mockSessionRepo{}
		repo.On("DeleteByID", mock.Anything, "s1").Return(errRedisDown).Once()
		manager := NewSessionManager(discardLogger(), repo, nil)

		err := manager.DeleteSession(ctx, "s1")

		require.ErrorIs(t, err, errRedisDown)
		assert.Contains(t, err.Error(), "failed to delete session")
	})
}

// brokenPlayer fails every call, as if no audio device were present.
type brokenPlayer struct {
	calls int
}

var errNoDevice = errors.New("no audio device")

func (that *brokenPlayer) PlayCue(context.Context, entity.Cue) error {
	that.calls++
	return errNoDevice
}

func (that *brokenPlayer) StartAmbient(context.Context) error {
	that.calls++
	return errNoDevice
}

func (that *brokenPlayer) StopAmbient(context.Context) error {
	that.calls++
	return errNoDevice
}

func (that *brokenPlayer) SetVolume(context.Context, float64) error {
	that.calls++
	return errNoDevice
}

// recorder keeps the effects it is asked to play.
type recorder struct {
	effects []entity.Effect
}

func (that *recorder) PlayCue(_ context.Context, cue entity.Cue) error {
	that.effects = append(that.effects, entity.PlayCue(cue))
	return nil
}

func (that *recorder) StartAmbient(_ context.Context) error {
	that.effects = append(that.effects, entity.StartAmbient())
	return nil
}

func (that *recorder) StopAmbient(_ context.Context) error {
	that.effects = append(that.effects, entity.StopAmbient())
	return nil
}

func (that *recorder) SetVolume(_ context.Context, level float64) error {
	that.effects = append(that.effects, entity.SetVolume(level))
	return nil
}
