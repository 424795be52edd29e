package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/net/websocket"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

// connection is one client socket. It also plays audio for that client by
// forwarding every effect as an "audio" frame.
type connection struct {
	ws     *websocket.Conn
	logger *slog.Logger

	sessionID string
}

func newConnection(ws *websocket.Conn, logger *slog.Logger) *connection {
	return &connection{ws: ws, logger: logger}
}

func (that *connection) sendMessage(action string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = websocket.JSON.Send(that.ws, Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (that *connection) sendError(action, reason string) error {
	return that.sendMessage(action, Payload{SessionID: that.sessionID, Error: reason})
}

func (that *connection) sendEffect(effect entity.Effect) error {
	return that.sendMessage(actionAudio, Payload{SessionID: that.sessionID, Effect: &effect})
}

func (that *connection) PlayCue(_ context.Context, cue entity.Cue) error {
	return that.sendEffect(entity.PlayCue(cue))
}

func (that *connection) StartAmbient(_ context.Context) error {
	return that.sendEffect(entity.StartAmbient())
}

func (that *connection) StopAmbient(_ context.Context) error {
	return that.sendEffect(entity.StopAmbient())
}

func (that *connection) SetVolume(_ context.Context, level float64) error {
	return that.sendEffect(entity.SetVolume(level))
}
