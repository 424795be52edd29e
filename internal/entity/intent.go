package entity

import (
	"errors"
	"fmt"
)

type IntentKind string

const (
	IntentCellClicked   IntentKind = "cell_clicked"
	IntentStart         IntentKind = "start"
	IntentNewRound      IntentKind = "new_round"
	IntentResetAll      IntentKind = "reset_all"
	IntentVolumeChanged IntentKind = "volume_changed"
)

var ErrUnknownIntent = errors.New("unknown intent")

// Intent is a user action forwarded by the presentation layer.
type Intent struct {
	Kind   IntentKind `json:"kind"`
	Cell   int        `json:"cell,omitempty"`
	Volume float64    `json:"volume,omitempty"`
}

func (that Intent) Validate() error {
	switch that.Kind {
	case IntentCellClicked, IntentStart, IntentNewRound, IntentResetAll, IntentVolumeChanged:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownIntent, that.Kind)
	}
}
