package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/audio"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/view"
)

const (
	reasonNotConnected    = "connect to a session first"
	reasonBadPayload      = "invalid payload"
	reasonCellRequired    = "cell is required"
	reasonVolumeRequired  = "volume is required"
	reasonSessionNotFound = "session not found"
	reasonInternal        = "internal error"
)

func (that *Server) handleConnect(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload
	if err := decodePayload(msg, &payloadReq); err != nil {
		return conn.sendError(msg.Action, reasonBadPayload)
	}

	session, err := that.sessions.GetOrCreateSession(ctx, payloadReq.SessionID)
	if err != nil {
		log.Warn("failed to get or create session", "sessionID", payloadReq.SessionID, "error", err)
		return conn.sendError(msg.Action, replyReason(err))
	}

	conn.sessionID = session.ID

	log.Info("successfully connected to session", "sessionID", session.ID)

	return that.sendView(conn, msg.Action, session)
}

func (that *Server) handleCellClick(ctx context.Context, conn *connection, msg *Message) error {
	var payloadReq Payload
	if err := decodePayload(msg, &payloadReq); err != nil {
		return conn.sendError(msg.Action, reasonBadPayload)
	}

	if payloadReq.Cell == nil {
		return conn.sendError(msg.Action, reasonCellRequired)
	}

	return that.apply(ctx, conn, msg.Action, entity.Intent{Kind: entity.IntentCellClicked, Cell: *payloadReq.Cell})
}

func (that *Server) handleVolumeChange(ctx context.Context, conn *connection, msg *Message) error {
	var payloadReq Payload
	if err := decodePayload(msg, &payloadReq); err != nil {
		return conn.sendError(msg.Action, reasonBadPayload)
	}

	if payloadReq.Volume == nil {
		return conn.sendError(msg.Action, reasonVolumeRequired)
	}

	return that.apply(ctx, conn, msg.Action, entity.Intent{Kind: entity.IntentVolumeChanged, Volume: *payloadReq.Volume})
}

// intentHandler - handler for actions that carry no payload.
func (that *Server) intentHandler(kind entity.IntentKind) handlerFunc {
	return func(ctx context.Context, conn *connection, msg *Message) error {
		return that.apply(ctx, conn, msg.Action, entity.Intent{Kind: kind})
	}
}

// apply - forwards intent to the session, replies with the new view, then
// plays the resulting effects on the client.
func (that *Server) apply(ctx context.Context, conn *connection, action string, intent entity.Intent) error {
	log := that.logger.With("method", "apply", "action", action, "sessionID", conn.sessionID)

	if conn.sessionID == "" {
		return conn.sendError(action, reasonNotConnected)
	}

	session, effects, err := that.sessions.Apply(ctx, conn.sessionID, intent)
	if err != nil {
		log.Warn("failed to apply intent", "error", err)
		return conn.sendError(action, replyReason(err))
	}

	if err = that.sendView(conn, action, session); err != nil {
		return err
	}

	audio.Dispatch(ctx, log, conn, effects)

	return nil
}

func (that *Server) sendView(conn *connection, action string, session *entity.Session) error {
	rendered := view.Render(session)

	if err := conn.sendMessage(action, Payload{SessionID: session.ID, View: &rendered}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func decodePayload(msg *Message, payload *Payload) error {
	if len(msg.Payload) == 0 {
		return nil
	}

	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return nil
}

func replyReason(err error) string {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		return reasonSessionNotFound
	case errors.Is(err, apperror.ErrInvalidPayload):
		return reasonBadPayload
	default:
		return reasonInternal
	}
}
