package types

import (
	"fmt"
)

// EventType is the kind of an asynchronous event delivered to a notifier.
type EventType uint32

const (
	// EventTypeError carries the component's numeric error code (uint32) as payload.
	EventTypeError EventType = iota
	// EventTypeEndOfStream carries no payload.
	EventTypeEndOfStream
	// EventTypeDrop carries the dropped frame index (uint64) as payload.
	EventTypeDrop
)

func (t EventType) String() string {
	switch t {
	case EventTypeError:
		return "error"
	case EventTypeEndOfStream:
		return "eos"
	case EventTypeDrop:
		return "drop"
	default:
		return fmt.Sprintf("<unexpected_%d>", uint32(t))
	}
}
