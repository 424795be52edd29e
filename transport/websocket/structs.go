package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/view"
)

const (
	actionConnect      = "connect"
	actionCellClick    = "cell:click"
	actionGameStart    = "game:start"
	actionRoundNew     = "round:new"
	actionGameReset    = "game:reset"
	actionVolumeChange = "volume:change"
	actionAudio        = "audio"
	actionError        = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is shared by requests and replies. Clients fill SessionID, Cell or
// Volume; the server answers with View or Effect.
type Payload struct {
	SessionID string         `json:"session_id,omitempty"`
	Cell      *int           `json:"cell,omitempty"`
	Volume    *float64       `json:"volume,omitempty"`
	View      *view.View     `json:"view,omitempty"`
	Effect    *entity.Effect `json:"effect,omitempty"`
	Error     string         `json:"error,omitempty"`
}
