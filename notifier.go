package c2module

import (
	"context"

	"github.com/xaionaro-go/c2module/types"
)

// Notifier is the sink a Session reports asynchronous results to.
//
// Both methods are called from hardware-driven goroutines, or from the
// goroutine calling Session.Flush. They are never called concurrently for
// the same Session.
//
// A notifier may call back into the Session, e.g. to fetch its memory or to
// Close it. Close must then be given the context the notifier received.
// A notifier called synchronously from within a component call (such as
// Queue or Flush) must not call lifecycle or submission methods, since the
// calling goroutine still holds the operation lock.
type Notifier interface {
	// EventHandler receives an event. The payload is the uint32 error code
	// for types.EventTypeError, the uint64 frame index for types.EventTypeDrop
	// and nil for types.EventTypeEndOfStream.
	EventHandler(ctx context.Context, event types.EventType, payload any)

	// FrameAvailable is called once per completed worklet that carries output.
	FrameAvailable(
		ctx context.Context,
		buffer types.Buffer,
		frameIndex uint64,
		timestamp uint64,
		flags types.FrameFlags,
	)
}
