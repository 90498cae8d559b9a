package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/c2module"
	"github.com/xaionaro-go/c2module/component"
	"github.com/xaionaro-go/c2module/config"
	"github.com/xaionaro-go/c2module/internal/fakecomponent"
	"github.com/xaionaro-go/c2module/loader"
	"github.com/xaionaro-go/c2module/types"
	"github.com/xaionaro-go/xsync"
)

func newTestEngine(t *testing.T, params Params) (*Engine, *fakecomponent.Component) {
	t.Helper()
	ctx := context.Background()
	comp := fakecomponent.New("c2.test.avc.encoder")
	s := c2module.NewSession(ctx, comp, types.ModeVideoEncode)
	e, err := NewFromSession(ctx, s, params)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, e.Close(context.Background()))
	})
	require.NoError(t, e.Start(ctx))
	return e, comp
}

func testCtx(t *testing.T) context.Context {
	ctx, cancelFn := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancelFn)
	return ctx
}

func TestEngineQueueAndWaitIdle(t *testing.T) {
	ctx := testCtx(t)

	var locker xsync.Mutex
	var frames []Frame
	e, comp := newTestEngine(t, Params{
		OnFrame: func(ctx context.Context, frame Frame) {
			locker.Do(ctx, func() {
				frames = append(frames, frame)
			})
		},
	})

	for i := 0; i < 3; i++ {
		idx, err := e.Queue(ctx, &types.LinearBuffer{}, uint64(i)*1000, 0)
		require.NoError(t, err)
		require.EqualValues(t, i, idx)
	}
	require.EqualValues(t, 3, e.Pending())

	out := &types.LinearBuffer{Size: 42}
	<-comp.Complete(ctx,
		fakecomponent.OutputWork(0, 0, types.FrameFlagCodecConfig, 1, out),
		fakecomponent.OutputWork(0, 0, 0, 1, out),
		fakecomponent.OutputWork(1, 1000, types.FrameFlagDropFrame, 1),
	)
	require.EqualValues(t, 1, e.Pending())
	comp.Complete(ctx, fakecomponent.OutputWork(2, 2000, 0, 1, out))

	require.NoError(t, e.WaitIdle(ctx))
	require.Zero(t, e.Pending())

	stats := e.Stats()
	require.EqualValues(t, 3, stats.Queued)
	require.EqualValues(t, 3, stats.Frames)
	require.EqualValues(t, 1, stats.Drops)

	locker.Do(ctx, func() {
		require.Len(t, frames, 3)
		require.Equal(t, types.FrameFlagCodecConfig, frames[0].Flags)
		require.EqualValues(t, 2, frames[2].FrameIndex)
		require.EqualValues(t, 2000, frames[2].Timestamp)
	})
}

func TestEngineQueueRejected(t *testing.T) {
	ctx := testCtx(t)
	e, comp := newTestEngine(t, Params{})
	comp.QueueFn = func(ctx context.Context, items []*types.Work) error {
		return types.StatusBlocking
	}

	_, err := e.Queue(ctx, nil, 0, 0)
	require.ErrorIs(t, err, types.StatusBlocking)
	require.Zero(t, e.Pending())
	require.NoError(t, e.WaitIdle(ctx))
}

func TestEngineDrainAndWait(t *testing.T) {
	ctx := testCtx(t)

	var events []types.EventType
	var locker xsync.Mutex
	e, comp := newTestEngine(t, Params{
		OnEvent: func(ctx context.Context, event types.EventType, payload any) {
			locker.Do(ctx, func() {
				events = append(events, event)
			})
		},
	})
	comp.DrainFn = func(ctx context.Context, mode types.DrainMode) error {
		require.Equal(t, types.DrainModeComponentWithEOS, mode)
		comp.Complete(ctx, fakecomponent.OutputWork(0, 0, types.FrameFlagEndOfStream, 1))
		return nil
	}

	require.NoError(t, e.DrainAndWait(ctx))
	require.EqualValues(t, 1, e.Stats().EndOfStream)
	locker.Do(ctx, func() {
		require.Equal(t, []types.EventType{types.EventTypeEndOfStream}, events)
	})

	// every end-of-stream wakes up a new round of waiters
	ch := e.EOSChan()
	require.NoError(t, e.DrainAndWait(ctx))
	<-ch
	require.EqualValues(t, 2, e.Stats().EndOfStream)
}

func TestEngineComponentFailure(t *testing.T) {
	ctx := testCtx(t)
	e, comp := newTestEngine(t, Params{})

	_, err := e.Queue(ctx, nil, 0, 0)
	require.NoError(t, err)

	<-comp.Fail(ctx, uint32(types.StatusCorrupted))

	var errFailure ErrComponentFailure
	require.ErrorAs(t, e.WaitIdle(ctx), &errFailure)
	require.EqualValues(t, types.StatusCorrupted, errFailure.Code)

	_, err = e.Queue(ctx, nil, 1, 0)
	require.ErrorAs(t, err, &ErrComponentFailure{})
}

func TestEngineWaitIdleHonorsContext(t *testing.T) {
	e, _ := newTestEngine(t, Params{})
	_, err := e.Queue(context.Background(), nil, 0, 0)
	require.NoError(t, err)

	ctx, cancelFn := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancelFn()
	require.ErrorIs(t, e.WaitIdle(ctx), context.DeadlineExceeded)
}

type countingNotifier struct {
	c2module.Notifier
	events int
}

func (n *countingNotifier) EventHandler(ctx context.Context, event types.EventType, payload any) {
	n.events++
	n.Notifier.EventHandler(ctx, event, payload)
}

func TestEngineNewFromFactory(t *testing.T) {
	ctx := testCtx(t)
	cfg := config.Default()
	lib, err := cfg.Library(types.DeviceClassVideo)
	require.NoError(t, err)

	sf := fakecomponent.NewStoreFactory()
	var comp *fakecomponent.Component
	sf.Store.CreateComponentFn = func(ctx context.Context, name string) (component.Component, error) {
		comp = fakecomponent.New(name)
		return comp, nil
	}
	l := loader.NewStatic()
	l.Register(lib.Path, lib.Symbol, func(ctx context.Context, major, minor int) (component.StoreFactory, error) {
		return sf, nil
	})
	factory := c2module.NewFactory(c2module.FactoryParams{Loader: l, Config: cfg})
	defer factory.Close(ctx)

	bitrate := &types.Uint32Param{ParamIndex: cfg.EncoderParams.Bitrate, Value: 1000000}
	var wrapper *countingNotifier
	e, err := New(ctx, factory, types.CodecTypeHEICVideoEncode, Params{
		Settings: []types.Param{bitrate},
		WrapNotifier: func(n c2module.Notifier) c2module.Notifier {
			wrapper = &countingNotifier{Notifier: n}
			return wrapper
		},
	})
	require.NoError(t, err)
	require.Equal(t, "c2.qti.heic.encoder", e.Session.Name())
	require.NotNil(t, wrapper)
	got, err := e.Session.QueryParam(ctx, cfg.EncoderParams.Bitrate)
	require.NoError(t, err)
	require.Equal(t, types.Param(bitrate), got)

	require.NoError(t, e.Start(ctx))
	<-comp.Complete(ctx, fakecomponent.OutputWork(0, 0, types.FrameFlagEndOfStream, 1))
	require.Equal(t, 1, wrapper.events)
	require.EqualValues(t, 1, e.Stats().EndOfStream)

	require.NoError(t, e.Close(ctx))
	require.EqualValues(t, 1, comp.StopCount.Load())
	require.EqualValues(t, 1, comp.ReleaseCount.Load())
	require.EqualValues(t, 0, sf.ReleaseCount.Load())
}

func TestEngineSettingsRejected(t *testing.T) {
	ctx := context.Background()
	comp := fakecomponent.New("c2.test.avc.encoder")
	comp.Intf.ConfigFn = func(ctx context.Context, params []types.Param) ([]types.SettingResult, error) {
		return []types.SettingResult{{Index: params[0].Index(), Failure: types.SettingFailureBadValue}}, nil
	}
	s := c2module.NewSession(ctx, comp, types.ModeVideoEncode)

	_, err := NewFromSession(ctx, s, Params{
		Settings: []types.Param{&types.Uint32Param{ParamIndex: 0x1000, Value: 1}},
	})
	require.ErrorAs(t, err, &c2module.ErrSettingFailures{})
}

func TestEngineEndOfStreamInputIsNotPending(t *testing.T) {
	ctx := testCtx(t)
	e, comp := newTestEngine(t, Params{})

	_, err := e.Queue(ctx, &types.LinearBuffer{}, 0, 0)
	require.NoError(t, err)
	_, err = e.Queue(ctx, &types.LinearBuffer{}, 1000, types.FrameFlagEndOfStream)
	require.NoError(t, err)
	require.EqualValues(t, 1, e.Pending())
	require.EqualValues(t, 2, e.Stats().Queued)

	eos := e.EOSChan()
	<-comp.Complete(ctx,
		fakecomponent.OutputWork(0, 0, 0, 1, &types.LinearBuffer{}),
		fakecomponent.OutputWork(1, 1000, types.FrameFlagEndOfStream, 1),
	)
	<-eos
	require.NoError(t, e.WaitIdle(ctx))
	require.Zero(t, e.Pending())
}

func TestEngineCloseFromErrorEvent(t *testing.T) {
	ctx := testCtx(t)

	var e *Engine
	closed := make(chan error, 1)
	e, comp := newTestEngine(t, Params{
		OnEvent: func(ctx context.Context, event types.EventType, payload any) {
			if event == types.EventTypeError {
				closed <- e.Close(ctx)
			}
		},
	})

	<-comp.Fail(ctx, uint32(types.StatusCorrupted))
	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("Close from the error event did not return")
	}
	require.EqualValues(t, 1, comp.ReleaseCount.Load())
	require.EqualValues(t, 1, comp.StopCount.Load())
}
