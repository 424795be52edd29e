// Package tictactoe holds the game state engine. Every transition takes a
// session value and returns the next value with the audio effects it asks
// for. Invalid actions return the input unchanged and no effects.
package tictactoe

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

// Evaluate - checks the winning lines in order and returns the first match.
func Evaluate(board entity.Board) entity.Outcome {
	for _, combo := range entity.WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return entity.Won(a, combo)
		}
	}

	// the round continues until all the squares are full
	if !board.IsFull() {
		return entity.InProgress()
	}

	return entity.Draw()
}

// PlaceMark - writes the current player's mark into cell and flips the turn.
func PlaceMark(session entity.Session, cell int) (entity.Session, []entity.Effect) {
	if !canPlace(&session, cell) {
		return session, nil
	}

	session.Board[cell] = session.Turn
	session.Turn = session.Turn.Opponent()

	effects := []entity.Effect{entity.PlayCue(entity.CueMove)}

	outcome := Evaluate(session.Board)
	switch {
	case outcome.IsWon():
		effects = append(effects, entity.PlayCue(entity.CueWin))
	case outcome.IsDraw():
		effects = append(effects, entity.PlayCue(entity.CueDraw))
	}

	return RecordResult(session), effects
}

// canPlace - checks if the move is valid.
func canPlace(session *entity.Session, cell int) bool {
	if session.Lifecycle != entity.LifecycleInRound {
		return false
	}

	if !entity.IsValidCell(cell) || session.Board[cell] != entity.EmptyCell {
		return false
	}

	return !Evaluate(session.Board).IsOver()
}

// RecordResult counts a finished round once. The ResultRecorded flag is only
// cleared when the next round begins.
func RecordResult(session entity.Session) entity.Session {
	if session.ResultRecorded {
		return session
	}

	outcome := Evaluate(session.Board)
	switch {
	case outcome.IsWon() && outcome.Winner == entity.PlayerX:
		session.Scores.X++
	case outcome.IsWon() && outcome.Winner == entity.PlayerO:
		session.Scores.O++
	case outcome.IsDraw():
		session.Scores.Draws++
	default:
		return session
	}

	session.ResultRecorded = true

	return session
}

// StartGame - begins a round from any lifecycle. Scores are kept.
func StartGame(session entity.Session) (entity.Session, []entity.Effect) {
	return beginRound(session), []entity.Effect{entity.StartAmbient()}
}

// NewRound - like StartGame, but only once a game has been started.
func NewRound(session entity.Session) (entity.Session, []entity.Effect) {
	if !session.IsStarted() {
		return session, nil
	}

	return beginRound(session), nil
}

func beginRound(session entity.Session) entity.Session {
	session.Board = entity.Board{}
	session.Turn = entity.PlayerX
	session.Lifecycle = entity.LifecycleInRound
	session.ResultRecorded = false
	session.Rounds++

	return session
}

// ResetAll - clears the board and the scores and stops the game.
func ResetAll(session entity.Session) (entity.Session, []entity.Effect) {
	session.Board = entity.Board{}
	session.Turn = entity.PlayerX
	session.Lifecycle = entity.LifecycleNotStarted
	session.Scores = entity.Scores{}
	session.ResultRecorded = false
	session.Rounds = 0

	return session, []entity.Effect{entity.StopAmbient()}
}

// SetVolume stores level clamped to [0, 1]. NaN is ignored.
func SetVolume(session entity.Session, level float64) (entity.Session, []entity.Effect) {
	if math.IsNaN(level) {
		return session, nil
	}

	level = min(max(level, 0), 1)
	if level == session.Volume {
		return session, nil
	}

	session.Volume = level

	return session, []entity.Effect{entity.SetVolume(level)}
}

// Apply routes an intent to its transition. Unknown kinds are ignored.
func Apply(session entity.Session, intent entity.Intent) (entity.Session, []entity.Effect) {
	switch intent.Kind {
	case entity.IntentCellClicked:
		return PlaceMark(session, intent.Cell)
	case entity.IntentStart:
		return StartGame(session)
	case entity.IntentNewRound:
		return NewRound(session)
	case entity.IntentResetAll:
		return ResetAll(session)
	case entity.IntentVolumeChanged:
		return SetVolume(session, intent.Volume)
	default:
		return session, nil
	}
}
