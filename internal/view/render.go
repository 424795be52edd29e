// Package view turns session state into what the browser draws.
package view

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/tictactoe"
)

// Controls tells the client which inputs are live.
type Controls struct {
	Start    bool `json:"start"`
	NewRound bool `json:"new_round"`
	ResetAll bool `json:"reset_all"`
	Board    bool `json:"board"`
}

type View struct {
	Cells       [entity.BoardSize]string `json:"cells"`
	Turn        string                   `json:"turn"`
	Phase       entity.Lifecycle         `json:"phase"`
	Status      string                   `json:"status"`
	Winner      string                   `json:"winner,omitempty"`
	WinningLine []int                    `json:"winning_line,omitempty"`
	Scores      entity.Scores            `json:"scores"`
	Volume      float64                  `json:"volume"`
	Round       int                      `json:"round"`
	Controls    Controls                 `json:"controls"`
}

func Render(session *entity.Session) View {
	outcome := tictactoe.Evaluate(session.Board)
	phase := session.Phase(outcome)

	out := View{
		Turn:   string(session.Turn),
		Phase:  phase,
		Status: statusLine(phase, session.Turn, outcome),
		Scores: session.Scores,
		Volume: session.Volume,
		Round:  session.Rounds,
		Controls: Controls{
			Start:    true,
			NewRound: session.IsStarted(),
			ResetAll: true,
			Board:    phase == entity.LifecycleInRound,
		},
	}

	for i, cell := range session.Board {
		out.Cells[i] = string(cell)
	}

	if outcome.IsWon() {
		out.Winner = string(outcome.Winner)
		out.WinningLine = outcome.Line[:]
	}

	return out
}

func statusLine(phase entity.Lifecycle, turn entity.Mark, outcome entity.Outcome) string {
	switch {
	case phase == entity.LifecycleNotStarted:
		return "Press start to play"
	case outcome.IsWon():
		return fmt.Sprintf("Player %s wins!", outcome.Winner)
	case outcome.IsDraw():
		return "It's a draw!"
	default:
		return fmt.Sprintf("Player %s's turn", turn)
	}
}
