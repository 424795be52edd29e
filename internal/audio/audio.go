// Package audio is the boundary to whatever plays sounds for a session.
package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

var ErrUnknownEffect = errors.New("unknown audio effect")

type Player interface {
	PlayCue(ctx context.Context, cue entity.Cue) error
	StartAmbient(ctx context.Context) error
	StopAmbient(ctx context.Context) error
	SetVolume(ctx context.Context, level float64) error
}

// Dispatch plays effects in order. Failures are logged and swallowed: audio
// never feeds back into game state.
func Dispatch(ctx context.Context, logger *slog.Logger, player Player, effects []entity.Effect) {
	if player == nil {
		return
	}

	log := logger.With("method", "Dispatch")

	for _, effect := range effects {
		if err := play(ctx, player, effect); err != nil {
			log.Warn("audio effect failed", "kind", effect.Kind, "error", err)
		}
	}
}

func play(ctx context.Context, player Player, effect entity.Effect) error {
	switch effect.Kind {
	case entity.EffectPlayCue:
		return player.PlayCue(ctx, effect.Cue)
	case entity.EffectStartAmbient:
		return player.StartAmbient(ctx)
	case entity.EffectStopAmbient:
		return player.StopAmbient(ctx)
	case entity.EffectSetVolume:
		return player.SetVolume(ctx, effect.Volume)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEffect, effect.Kind)
	}
}

// LogPlayer writes every effect to the log.
type LogPlayer struct {
	logger *slog.Logger
}

func NewLogPlayer(logger *slog.Logger) *LogPlayer {
	return &LogPlayer{logger: logger.With("component", "audio")}
}

func (that *LogPlayer) PlayCue(ctx context.Context, cue entity.Cue) error {
	that.logger.DebugContext(ctx, "play cue", "cue", cue)
	return nil
}

func (that *LogPlayer) StartAmbient(ctx context.Context) error {
	that.logger.DebugContext(ctx, "start ambient")
	return nil
}

func (that *LogPlayer) StopAmbient(ctx context.Context) error {
	that.logger.DebugContext(ctx, "stop ambient")
	return nil
}

func (that *LogPlayer) SetVolume(ctx context.Context, level float64) error {
	that.logger.DebugContext(ctx, "set volume", "level", level)
	return nil
}
