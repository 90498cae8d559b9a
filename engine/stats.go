package engine

import (
	"fmt"
)

type Stats struct {
	Queued      uint64
	Frames      uint64
	Drops       uint64
	EndOfStream uint64
	Pending     int64
}

func (s Stats) String() string {
	return fmt.Sprintf("queued:%d frames:%d drops:%d eos:%d pending:%d", s.Queued, s.Frames, s.Drops, s.EndOfStream, s.Pending)
}
