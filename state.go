package c2module

import (
	"fmt"
)

// State is the lifecycle state of a Session.
type State uint32

const (
	StateCreated State = iota
	StateIdle
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return fmt.Sprintf("<unexpected_%d>", uint32(s))
	}
}
