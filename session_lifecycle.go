package c2module

import (
	"context"

	"github.com/xaionaro-go/c2module/logger"
	"github.com/xaionaro-go/c2module/pool"
	"github.com/xaionaro-go/c2module/types"
	"github.com/xaionaro-go/xsync"
)

var workPool = pool.NewPool(
	func() *types.Work {
		return &types.Work{}
	},
	(*types.Work).Reset,
)

// checkInitialized returns the current state or an error if it is Created.
func (s *Session) checkInitialized(op string) (State, error) {
	if err := s.checkClosed(); err != nil {
		return 0, err
	}
	state := s.State()
	if state == StateCreated {
		return state, ErrNotInitialized{Component: s.name, Op: op}
	}
	return state, nil
}

// Start is a no-op when already running.
func (s *Session) Start(ctx context.Context) (_err error) {
	ctx = s.withFields(ctx)
	logger.Debugf(ctx, "Start")
	defer func() { logger.Debugf(ctx, "/Start: %v", _err) }()
	return xsync.DoA1R1(ctx, &s.opLocker, s.start, ctx)
}

func (s *Session) start(ctx context.Context) error {
	state, err := s.checkInitialized("start")
	if err != nil {
		return err
	}
	if state == StateRunning {
		return nil
	}
	if err := s.component.Start(ctx); err != nil {
		return s.componentError("start", err)
	}
	s.setState(ctx, StateRunning)
	return nil
}

// Stop is a no-op when already idle. Draining in-flight work before
// stopping is up to the caller.
func (s *Session) Stop(ctx context.Context) (_err error) {
	ctx = s.withFields(ctx)
	logger.Debugf(ctx, "Stop")
	defer func() { logger.Debugf(ctx, "/Stop: %v", _err) }()
	return xsync.DoA1R1(ctx, &s.opLocker, s.stop, ctx)
}

func (s *Session) stop(ctx context.Context) error {
	state, err := s.checkInitialized("stop")
	if err != nil {
		return err
	}
	if state == StateIdle {
		return nil
	}
	if err := s.component.Stop(ctx); err != nil {
		return s.componentError("stop", err)
	}
	s.setState(ctx, StateIdle)
	return nil
}

// Flush takes the pending work back from the component and runs it through
// the completion handling before returning, so the notifier has already
// been told about every flushed item.
func (s *Session) Flush(
	ctx context.Context,
	mode types.FlushMode,
) (_err error) {
	ctx = s.withFields(ctx)
	logger.Debugf(ctx, "Flush(ctx, %s)", mode)
	defer func() { logger.Debugf(ctx, "/Flush(ctx, %s): %v", mode, _err) }()
	items, err := xsync.DoA2R2(ctx, &s.opLocker, s.flush, ctx, mode)
	if err != nil {
		return err
	}
	if len(items) > 0 {
		s.handleWorkDone(ctx, items)
	}
	return nil
}

func (s *Session) flush(
	ctx context.Context,
	mode types.FlushMode,
) ([]*types.Work, error) {
	state, err := s.checkInitialized("flush")
	if err != nil {
		return nil, err
	}
	if state == StateIdle {
		return nil, nil
	}

	// locker is not held here: the component may call the listener from
	// within Flush.
	items, err := s.component.Flush(ctx, mode)
	if err != nil {
		return nil, s.componentError("flush", err)
	}
	logger.Debugf(ctx, "got %d pending work items back", len(items))
	return items, nil
}

// Drain does not wait: the completions, including the end-of-stream,
// arrive later through the notifier.
func (s *Session) Drain(
	ctx context.Context,
	mode types.DrainMode,
) (_err error) {
	ctx = s.withFields(ctx)
	logger.Debugf(ctx, "Drain(ctx, %s)", mode)
	defer func() { logger.Debugf(ctx, "/Drain(ctx, %s): %v", mode, _err) }()
	return xsync.DoA2R1(ctx, &s.opLocker, s.drain, ctx, mode)
}

func (s *Session) drain(
	ctx context.Context,
	mode types.DrainMode,
) error {
	state, err := s.checkInitialized("drain")
	if err != nil {
		return err
	}
	if state == StateIdle {
		return nil
	}
	if err := s.component.Drain(ctx, mode); err != nil {
		return s.componentError("drain", err)
	}
	return nil
}

// Queue submits one work item carrying the buffer.
//
// The settings are moved into the work item as per-work tunings: the
// session takes ownership of them and clears the caller's slice entries.
// A nil buffer submits a work item without input buffers (e.g. a bare
// end-of-stream marker).
func (s *Session) Queue(
	ctx context.Context,
	buffer types.Buffer,
	settings []types.Param,
	frameIndex uint64,
	timestamp uint64,
	flags types.FrameFlags,
) (_err error) {
	ctx = s.withFields(ctx)
	logger.Tracef(ctx, "Queue(ctx, %v, %d settings, %d, %d, %s)", buffer, len(settings), frameIndex, timestamp, flags)
	defer func() {
		logger.Tracef(ctx, "/Queue(ctx, %v, %d settings, %d, %d, %s): %v", buffer, len(settings), frameIndex, timestamp, flags, _err)
	}()
	s.opLocker.Do(xsync.WithNoLogging(ctx, true), func() {
		_err = s.queue(ctx, buffer, settings, frameIndex, timestamp, flags)
	})
	return
}

func (s *Session) queue(
	ctx context.Context,
	buffer types.Buffer,
	settings []types.Param,
	frameIndex uint64,
	timestamp uint64,
	flags types.FrameFlags,
) error {
	state, err := s.checkInitialized("queue")
	if err != nil {
		return err
	}
	if state != StateRunning {
		return ErrNotRunning{Component: s.name, Op: "queue", State: state}
	}

	work := workPool.Get()
	work.Input.Ordinal.FrameIndex = frameIndex
	work.Input.Ordinal.Timestamp = timestamp
	work.Input.Flags = flags
	if buffer != nil {
		work.Input.Buffers = append(work.Input.Buffers, buffer)
	}

	worklet := &types.Worklet{}
	if len(settings) > 0 {
		worklet.Tunings = make([]types.Param, 0, len(settings))
	}
	for idx, param := range settings {
		settings[idx] = nil
		if param == nil {
			continue
		}
		worklet.Tunings = append(worklet.Tunings, param)
	}
	work.Worklets = append(work.Worklets, worklet)

	if err := s.component.Queue(ctx, []*types.Work{work}); err != nil {
		workPool.Put(work)
		return s.componentError("queue work items", err)
	}
	return nil
}
