package entity

import "encoding/json"

// Cue - short sound played after a state transition.
type Cue string

const (
	CueMove Cue = "move"
	CueWin  Cue = "win"
	CueDraw Cue = "draw"
)

type EffectKind string

const (
	EffectPlayCue      EffectKind = "play_cue"
	EffectStartAmbient EffectKind = "start_ambient"
	EffectStopAmbient  EffectKind = "stop_ambient"
	EffectSetVolume    EffectKind = "set_volume"
)

// Effect is an audio side effect requested by a transition. Cue is set for
// EffectPlayCue and Volume for EffectSetVolume.
type Effect struct {
	Kind   EffectKind `json:"kind"`
	Cue    Cue        `json:"cue,omitempty"`
	Volume float64    `json:"volume,omitempty"`
}

// MarshalJSON always writes the level of a set_volume effect, mute included.
func (that Effect) MarshalJSON() ([]byte, error) {
	type plain Effect

	if that.Kind != EffectSetVolume {
		return json.Marshal(plain(that))
	}

	return json.Marshal(struct {
		plain
		Volume float64 `json:"volume"`
	}{plain: plain(that), Volume: that.Volume})
}

func PlayCue(cue Cue) Effect {
	return Effect{Kind: EffectPlayCue, Cue: cue}
}

func StartAmbient() Effect {
	return Effect{Kind: EffectStartAmbient}
}

func StopAmbient() Effect {
	return Effect{Kind: EffectStopAmbient}
}

func SetVolume(level float64) Effect {
	return Effect{Kind: EffectSetVolume, Volume: level}
}
