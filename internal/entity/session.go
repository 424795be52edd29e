package entity

import (
	"errors"
	"fmt"
	"time"
)

// Lifecycle values. LifecycleRoundOver is never stored, see Session.Phase.
type Lifecycle string

const (
	LifecycleNotStarted Lifecycle = "not_started"
	LifecycleInRound    Lifecycle = "in_round"
	LifecycleRoundOver  Lifecycle = "round_over"
)

const DefaultVolume = 0.5

var (
	ErrUnknownLifecycle = errors.New("unknown lifecycle")
	ErrInvalidMark      = errors.New("invalid mark")
	ErrCorruptBoard     = errors.New("board does not match session state")
)

// Scores - running tally for one game, kept across rounds.
type Scores struct {
	X     int `json:"x"`
	O     int `json:"o"`
	Draws int `json:"draws"`
}

// Session is the whole state of one game as seen by one browser.
type Session struct {
	ID             string    `json:"id"`
	Board          Board     `json:"board"`
	Turn           Mark      `json:"turn"`
	Lifecycle      Lifecycle `json:"lifecycle"`
	Scores         Scores    `json:"scores"`
	ResultRecorded bool      `json:"result_recorded"`
	Volume         float64   `json:"volume"`
	Rounds         int       `json:"rounds"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Board:     Board{},
		Turn:      PlayerX,
		Lifecycle: LifecycleNotStarted,
		Volume:    DefaultVolume,
	}
}

func (that *Session) IsStarted() bool {
	return that.Lifecycle != LifecycleNotStarted
}

// Phase folds the board outcome into the stored lifecycle.
func (that *Session) Phase(outcome Outcome) Lifecycle {
	if that.Lifecycle == LifecycleInRound && outcome.IsOver() {
		return LifecycleRoundOver
	}

	return that.Lifecycle
}

// Validate checks the invariants a decoded session must hold.
func (that *Session) Validate() error {
	switch that.Lifecycle {
	case LifecycleNotStarted, LifecycleInRound:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownLifecycle, that.Lifecycle)
	}

	if !that.Turn.IsPlayer() {
		return fmt.Errorf("%w: turn %q", ErrInvalidMark, that.Turn)
	}

	for i, cell := range that.Board {
		if cell != EmptyCell && !cell.IsPlayer() {
			return fmt.Errorf("%w: cell %d holds %q", ErrInvalidMark, i, cell)
		}
	}

	if that.Lifecycle == LifecycleNotStarted && !that.Board.IsEmpty() {
		return fmt.Errorf("%w: marks on a board that was never started", ErrCorruptBoard)
	}

	// X moves first and the turn flips on every placement
	expected := PlayerX
	if that.Board.Filled()%2 == 1 {
		expected = PlayerO
	}

	if that.Turn != expected {
		return fmt.Errorf("%w: %d marks placed but turn is %s", ErrCorruptBoard, that.Board.Filled(), that.Turn)
	}

	return nil
}
