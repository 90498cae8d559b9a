package c2module

import (
	"context"

	"github.com/xaionaro-go/c2module/logger"
	"github.com/xaionaro-go/c2module/types"
	"github.com/xaionaro-go/xsync"
)

// TrippedHandler may optionally be implemented by a Notifier to observe
// component-initiated configuration changes. The session itself takes no
// action on them.
type TrippedHandler interface {
	OnTripped(ctx context.Context, results []types.SettingResult)
}

type dispatchingKey struct{}

// isDispatching reports whether ctx is the context of a notifier call made
// by this session.
func (s *Session) isDispatching(ctx context.Context) bool {
	v, _ := ctx.Value(dispatchingKey{}).(*Session)
	return v == s
}

// withNotifier runs fn with the notifier under dispatchLocker, unless the
// session is closed or was never initialized. It reports whether fn ran.
func (s *Session) withNotifier(
	ctx context.Context,
	what string,
	fn func(ctx context.Context, notifier Notifier),
) bool {
	if s.isDispatching(ctx) {
		// re-entered from a notifier call, dispatchLocker is already ours
		return s.withNotifierLocked(ctx, what, fn)
	}
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &s.dispatchLocker, func() bool {
		return s.withNotifierLocked(ctx, what, fn)
	})
}

func (s *Session) withNotifierLocked(
	ctx context.Context,
	what string,
	fn func(ctx context.Context, notifier Notifier),
) bool {
	var notifier Notifier
	s.locker.Do(xsync.WithNoLogging(ctx, true), func() {
		notifier = s.notifier
		if s.callbackCtx != nil {
			ctx = s.callbackCtx
		} else {
			ctx = s.withFields(ctx)
		}
	})
	if s.closed.IsClosed() {
		logger.Debugf(ctx, "the session is closed, ignoring %s", what)
		return false
	}
	if notifier == nil {
		logger.Warnf(ctx, "no notifier is set, ignoring %s", what)
		return false
	}
	fn(context.WithValue(ctx, dispatchingKey{}, s), notifier)
	return true
}

func (s *Session) handleWorkDone(ctx context.Context, items []*types.Work) {
	handled := s.withNotifier(ctx, "completed work", func(ctx context.Context, notifier Notifier) {
		for _, work := range items {
			dispatchWork(ctx, notifier, work)
			workPool.Put(work)
		}
	})
	if !handled {
		workPool.Put(items...)
	}
}

func dispatchWork(
	ctx context.Context,
	notifier Notifier,
	work *types.Work,
) {
	if work == nil || len(work.Worklets) == 0 || work.Worklets[0] == nil {
		logger.Tracef(ctx, "skipping a work item without worklets")
		return
	}

	worklet := work.Worklets[0]
	output := &worklet.Output
	flags := output.Flags
	frameIndex := output.Ordinal.FrameIndex

	switch {
	case flags.Has(types.FrameFlagEndOfStream):
		notifier.EventHandler(ctx, types.EventTypeEndOfStream, nil)
	case flags.Has(types.FrameFlagDropFrame),
		flags.Has(types.FrameFlagDiscardFrame),
		len(output.Buffers) == 0 && flags == 0:
		notifier.EventHandler(ctx, types.EventTypeDrop, frameIndex)
	case work.WorkletsProcessed > 0 && len(output.Buffers) > 0:
		notifier.FrameAvailable(
			ctx,
			output.Buffers[0],
			frameIndex,
			output.Ordinal.Timestamp,
			flags,
		)
	default:
		// unprocessed or empty placeholders produce no notification
		logger.Tracef(ctx, "dropping worklet %d silently: processed:%d buffers:%d flags:%s", frameIndex, work.WorkletsProcessed, len(output.Buffers), flags)
	}
}

func (s *Session) handleTripped(ctx context.Context, results []types.SettingResult) {
	s.withNotifier(ctx, "a trip", func(ctx context.Context, notifier Notifier) {
		logger.Debugf(ctx, "tripped: %v", results)
		if h, ok := notifier.(TrippedHandler); ok {
			h.OnTripped(ctx, results)
		}
	})
}

func (s *Session) handleError(ctx context.Context, errorCode uint32) {
	s.withNotifier(ctx, "an error", func(ctx context.Context, notifier Notifier) {
		logger.Errorf(ctx, "the component reported error %d", errorCode)
		notifier.EventHandler(ctx, types.EventTypeError, errorCode)
	})
}
