package fakecomponent

import (
	"context"

	"github.com/xaionaro-go/c2module/types"
	"github.com/xaionaro-go/xsync"
)

type Event struct {
	Type    types.EventType
	Payload any
}

type Frame struct {
	Buffer     types.Buffer
	FrameIndex uint64
	Timestamp  uint64
	Flags      types.FrameFlags
}

// Notifier records everything it is told.
type Notifier struct {
	locker xsync.Mutex
	events []Event
	frames []Frame
}

func (n *Notifier) EventHandler(ctx context.Context, event types.EventType, payload any) {
	n.locker.Do(ctx, func() {
		n.events = append(n.events, Event{Type: event, Payload: payload})
	})
}

func (n *Notifier) FrameAvailable(
	ctx context.Context,
	buffer types.Buffer,
	frameIndex, timestamp uint64,
	flags types.FrameFlags,
) {
	n.locker.Do(ctx, func() {
		n.frames = append(n.frames, Frame{
			Buffer:     buffer,
			FrameIndex: frameIndex,
			Timestamp:  timestamp,
			Flags:      flags,
		})
	})
}

func (n *Notifier) Events() []Event {
	return xsync.DoR1(context.Background(), &n.locker, func() []Event {
		return append([]Event(nil), n.events...)
	})
}

func (n *Notifier) Frames() []Frame {
	return xsync.DoR1(context.Background(), &n.locker, func() []Frame {
		return append([]Frame(nil), n.frames...)
	})
}
