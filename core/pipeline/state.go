package pipeline

import (
	"fmt"
	"time"
)

// State is the phase a pipeline run is in.
type State int

const (
	Idle State = iota
	Fetching
	Parsing
	Decoding
	Projecting
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Parsing:
		return "parsing"
	case Decoding:
		return "decoding"
	case Projecting:
		return "projecting"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var transitions = map[State][]State{
	Idle:       {Fetching},
	Fetching:   {Parsing, Failed},
	Parsing:    {Decoding, Failed},
	Decoding:   {Projecting, Failed},
	Projecting: {Done, Failed},
}

// CanTransition reports whether a run may move from s to next.
func (s State) CanTransition(next State) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool { return s == Done || s == Failed }

// Transition is published on the pipeline's bus on every state change.
// Err is set when To is Failed.
type Transition struct {
	RunID string
	From  State
	To    State
	Err   error
	Time  time.Time
}
