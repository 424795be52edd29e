package audio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

var errNoDevice = errors.New("no audio device")

type mockPlayer struct {
	mock.Mock
}

func (m *mockPlayer) PlayCue(ctx context.Context, cue entity.Cue) error {
	return m.Called(ctx, cue).Error(0)
}

func (m *mockPlayer) StartAmbient(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockPlayer) StopAmbient(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockPlayer) SetVolume(ctx context.Context, level float64) error {
	return m.Called(ctx, level).Error(0)
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

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays every effect in order", func(t *testing.T) {
		// Given: a recorder and a winning move's effects
		rec := &recorder{}
		effects := []entity.Effect{
			entity.PlayCue(entity.CueMove),
			entity.PlayCue(entity.CueWin),
			entity.SetVolume(0.3),
			entity.StartAmbient(),
			entity.StopAmbient(),
		}

		// When: dispatching them
		Dispatch(ctx, discardLogger(), rec, effects)

		// Then: the recorder saw them in the same order
		assert.Equal(t, effects, rec.effects)
	})

	t.Run("Keeps going after a failure", func(t *testing.T) {
		// Given: a player whose cues fail
		player := &mockPlayer{}
		player.On("PlayCue", ctx, entity.CueMove).Return(errNoDevice).Once()
		player.On("PlayCue", ctx, entity.CueDraw).Return(errNoDevice).Once()
		player.On("StopAmbient", ctx).Return(nil).Once()

		// When: dispatching several effects
		Dispatch(ctx, discardLogger(), player, []entity.Effect{
			entity.PlayCue(entity.CueMove),
			entity.PlayCue(entity.CueDraw),
			entity.StopAmbient(),
		})

		// Then: every effect was still attempted
		player.AssertExpectations(t)
	})

	t.Run("Nil player is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Dispatch(ctx, discardLogger(), nil, []entity.Effect{entity.StartAmbient()})
		})
	})
}

func TestPlay_UnknownEffect(t *testing.T) {
	err := play(context.Background(), &recorder{}, entity.Effect{Kind: "explode"})

	assert.ErrorIs(t, err, ErrUnknownEffect)
}

func TestLogPlayer(t *testing.T) {
	ctx := context.Background()
	player := NewLogPlayer(discardLogger())

	assert.NoError(t, player.PlayCue(ctx, entity.CueWin))
	assert.NoError(t, player.StartAmbient(ctx))
	assert.NoError(t, player.StopAmbient(ctx))
	assert.NoError(t, player.SetVolume(ctx, 0.1))
}
