package entity

type OutcomeStatus string

const (
	OutcomeInProgress OutcomeStatus = "in_progress"
	OutcomeWon        OutcomeStatus = "won"
	OutcomeDraw       OutcomeStatus = "draw"
)

// Outcome is derived from a Board. Winner and Line are only set when Status is OutcomeWon.
type Outcome struct {
	Status OutcomeStatus `json:"status"`
	Winner Mark          `json:"winner,omitempty"`
	Line   [3]int        `json:"line"`
}

func InProgress() Outcome {
	return Outcome{Status: OutcomeInProgress}
}

func Draw() Outcome {
	return Outcome{Status: OutcomeDraw}
}

func Won(winner Mark, line [3]int) Outcome {
	return Outcome{Status: OutcomeWon, Winner: winner, Line: line}
}

func (that Outcome) IsOver() bool {
	return that.Status != OutcomeInProgress
}

func (that Outcome) IsWon() bool {
	return that.Status == OutcomeWon
}

func (that Outcome) IsDraw() bool {
	return that.Status == OutcomeDraw
}
