package c2module

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/c2module/component"
	"github.com/xaionaro-go/c2module/internal/fakecomponent"
	"github.com/xaionaro-go/c2module/memory"
	"github.com/xaionaro-go/c2module/types"
)

func newTestSession(
	t *testing.T,
	mode types.Mode,
	opts ...SessionOption,
) (*Session, *fakecomponent.Component, *fakecomponent.Notifier) {
	t.Helper()
	ctx := context.Background()
	comp := fakecomponent.New("c2.test.component")
	s := NewSession(ctx, comp, mode, opts...)
	n := &fakecomponent.Notifier{}
	require.NoError(t, s.Initialize(ctx, n))
	return s, comp, n
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	comp := fakecomponent.New("c2.test.avc.encoder")
	s := NewSession(ctx, comp, types.ModeVideoEncode)
	require.Equal(t, "c2.test.avc.encoder", s.Name())
	require.Equal(t, StateCreated, s.State())

	require.ErrorAs(t, s.Start(ctx), &ErrNotInitialized{})
	require.ErrorAs(t, s.Stop(ctx), &ErrNotInitialized{})
	require.ErrorAs(t, s.Flush(ctx, types.FlushModeComponent), &ErrNotInitialized{})
	require.ErrorAs(t, s.Drain(ctx, types.DrainModeComponentWithEOS), &ErrNotInitialized{})
	require.ErrorAs(t, s.Queue(ctx, nil, nil, 0, 0, 0), &ErrNotInitialized{})
	require.Zero(t, comp.StartCount.Load())

	require.ErrorAs(t, s.Initialize(ctx, nil), &ErrInvalidNotifier{})
	require.Equal(t, StateCreated, s.State())

	n := &fakecomponent.Notifier{}
	require.NoError(t, s.Initialize(ctx, n))
	require.Equal(t, StateIdle, s.State())
	require.EqualValues(t, 1, comp.SetListenerCount.Load())
	require.ErrorAs(t, s.Initialize(ctx, n), &ErrAlreadyInitialized{})

	err := s.Queue(ctx, nil, nil, 0, 0, 0)
	var errNotRunning ErrNotRunning
	require.ErrorAs(t, err, &errNotRunning)
	require.Equal(t, StateIdle, errNotRunning.State)

	// flush and drain are no-ops while idle
	require.NoError(t, s.Flush(ctx, types.FlushModeComponent))
	require.NoError(t, s.Drain(ctx, types.DrainModeComponentWithEOS))
	require.Zero(t, comp.FlushCount.Load())
	require.Zero(t, comp.DrainCount.Load())

	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Start(ctx))
	require.Equal(t, StateRunning, s.State())
	require.EqualValues(t, 1, comp.StartCount.Load())

	require.NoError(t, s.Drain(ctx, types.DrainModeComponentWithEOS))
	require.EqualValues(t, 1, comp.DrainCount.Load())

	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
	require.Equal(t, StateIdle, s.State())
	require.EqualValues(t, 1, comp.StopCount.Load())

	require.NoError(t, s.Start(ctx))
	require.Equal(t, StateRunning, s.State())
	require.EqualValues(t, 2, comp.StartCount.Load())
}

func TestSessionStartRejected(t *testing.T) {
	ctx := context.Background()
	s, comp, _ := newTestSession(t, types.ModeAudioEncode)
	comp.StartFn = func(ctx context.Context) error {
		return types.StatusBadState
	}

	err := s.Start(ctx)
	var errComponent ErrComponent
	require.ErrorAs(t, err, &errComponent)
	status, ok := errComponent.Status()
	require.True(t, ok)
	require.Equal(t, types.StatusBadState, status)
	require.Equal(t, StateIdle, s.State())
}

func TestSessionQueue(t *testing.T) {
	ctx := context.Background()
	s, comp, _ := newTestSession(t, types.ModeVideoEncode)
	require.NoError(t, s.Start(ctx))

	buf := types.NewLinearBuffer(&fakecomponent.LinearBlock{Data: make([]byte, 16)}, 0, 16)
	bitrate := &types.RawParam{ParamIndex: 0x1234, Value: []byte{1}}
	keyFrame := &types.RawParam{ParamIndex: 0x5678}
	settings := []types.Param{bitrate, nil, keyFrame}

	require.NoError(t, s.Queue(ctx, buf, settings, 7, 1000, types.FrameFlagCodecConfig))
	require.Equal(t, []types.Param{nil, nil, nil}, settings)

	require.NoError(t, s.Queue(ctx, nil, nil, 8, 2000, types.FrameFlagEndOfStream))

	queued := comp.Queued()
	require.Len(t, queued, 2)

	require.EqualValues(t, 7, queued[0].FrameIndex)
	require.EqualValues(t, 1000, queued[0].Timestamp)
	require.Equal(t, types.FrameFlagCodecConfig, queued[0].Flags)
	require.Equal(t, []types.Buffer{buf}, queued[0].Buffers)
	require.Equal(t, []types.Param{bitrate, keyFrame}, queued[0].Tunings)

	require.EqualValues(t, 8, queued[1].FrameIndex)
	require.Empty(t, queued[1].Buffers)
	require.Empty(t, queued[1].Tunings)
}

func TestSessionQueueRejected(t *testing.T) {
	ctx := context.Background()
	s, comp, _ := newTestSession(t, types.ModeVideoEncode)
	require.NoError(t, s.Start(ctx))
	comp.QueueFn = func(ctx context.Context, items []*types.Work) error {
		return types.StatusBlocking
	}

	err := s.Queue(ctx, nil, nil, 1, 1, 0)
	require.ErrorIs(t, err, types.StatusBlocking)
	require.Empty(t, comp.Queued())
	require.Equal(t, StateRunning, s.State())
}

func TestSessionInitializeVideoDecode(t *testing.T) {
	ctx := context.Background()
	s, comp, _ := newTestSession(t, types.ModeVideoDecode)
	require.EqualValues(t, 1, comp.CreateBlockPoolCount.Load())

	params, err := comp.Intf.Query(ctx, []types.ParamIndex{types.ParamIndexPortBlockPoolsOutput})
	require.NoError(t, err)
	require.Len(t, params, 1)
	tuning, ok := params[0].(*types.PortBlockPoolsTuning)
	require.True(t, ok)
	require.Len(t, tuning.PoolIDs, 1)

	mem, err := s.GetGraphicMemory(ctx)
	require.NoError(t, err)
	require.Equal(t, tuning.PoolIDs[0], mem.LocalID())
	require.Zero(t, comp.GetBlockPoolCount.Load())
}

func TestSessionInitializeEncoderHasNoOutputPool(t *testing.T) {
	_, comp, _ := newTestSession(t, types.ModeVideoEncode)
	require.Zero(t, comp.CreateBlockPoolCount.Load())
	require.Zero(t, comp.Intf.ConfigCount.Load())
}

func TestSessionInitializeFailure(t *testing.T) {
	ctx := context.Background()
	comp := fakecomponent.New("c2.test.avc.decoder")
	comp.Intf.ConfigFn = func(ctx context.Context, params []types.Param) ([]types.SettingResult, error) {
		return []types.SettingResult{{
			Index:   types.ParamIndexPortBlockPoolsOutput,
			Failure: types.SettingFailureBadValue,
		}}, nil
	}
	s := NewSession(ctx, comp, types.ModeVideoDecode)

	err := s.Initialize(ctx, &fakecomponent.Notifier{})
	require.ErrorAs(t, err, &ErrSettingFailures{})
	require.Equal(t, StateCreated, s.State())
	require.ErrorAs(t, s.Start(ctx), &ErrNotInitialized{})

	comp.Intf.ConfigFn = nil
	require.NoError(t, s.Initialize(ctx, &fakecomponent.Notifier{}))
	require.Equal(t, StateIdle, s.State())
}

func TestSessionGetMemoryConcurrent(t *testing.T) {
	ctx := context.Background()
	s, comp, _ := newTestSession(t, types.ModeVideoEncode)

	const workers = 16
	graphic := make([]*memory.GraphicMemory, workers)
	linear := make([]*memory.LinearMemory, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			graphic[i], err = s.GetGraphicMemory(ctx)
			if err != nil {
				errs[i] = err
				return
			}
			linear[i], errs[i] = s.GetLinearMemory(ctx)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	for i := 1; i < workers; i++ {
		require.Same(t, graphic[0], graphic[i])
		require.Same(t, linear[0], linear[i])
	}
	require.EqualValues(t, 2, comp.GetBlockPoolCount.Load())
}

func TestSessionGetMemoryFailure(t *testing.T) {
	ctx := context.Background()
	s, comp, _ := newTestSession(t, types.ModeVideoEncode)
	comp.GetBlockPoolFn = func(ctx context.Context, id types.AllocatorID) (component.BlockPool, error) {
		return nil, types.StatusNoMemory
	}

	_, err := s.GetLinearMemory(ctx)
	require.ErrorIs(t, err, types.StatusNoMemory)

	// a failed attempt is not cached
	comp.GetBlockPoolFn = nil
	mem, err := s.GetLinearMemory(ctx)
	require.NoError(t, err)
	require.NotNil(t, mem)
}

func TestSessionParams(t *testing.T) {
	ctx := context.Background()
	s, comp, _ := newTestSession(t, types.ModeVideoEncode)

	bitrate := &types.RawParam{ParamIndex: 0x1234, Value: []byte{0x10}}
	require.NoError(t, s.SetParam(ctx, bitrate))

	got, err := s.QueryParam(ctx, 0x1234)
	require.NoError(t, err)
	require.Equal(t, types.Param(bitrate), got)

	_, err = s.QueryParam(ctx, 0x4321)
	require.ErrorAs(t, err, &ErrParamNotFound{})

	comp.Intf.ConfigFn = func(ctx context.Context, params []types.Param) ([]types.SettingResult, error) {
		return []types.SettingResult{{Index: params[0].Index(), Failure: types.SettingFailureReadOnly}}, nil
	}
	err = s.SetParam(ctx, bitrate)
	var failures ErrSettingFailures
	require.ErrorAs(t, err, &failures)
	require.Len(t, failures.Failures, 1)
}

func TestSessionClose(t *testing.T) {
	ctx := context.Background()
	var onCloseCount int
	s, comp, n := newTestSession(t, types.ModeVideoEncode, SessionOptionOnClose{
		Func: func(ctx context.Context) error {
			onCloseCount++
			return nil
		},
	})
	require.NoError(t, s.Start(ctx))

	require.NoError(t, s.Close(ctx))
	require.NoError(t, s.Close(ctx))
	require.EqualValues(t, 1, comp.ReleaseCount.Load())
	require.Equal(t, 1, onCloseCount)

	require.ErrorAs(t, s.Start(ctx), &ErrClosed{})
	require.ErrorAs(t, s.Queue(ctx, nil, nil, 0, 0, 0), &ErrClosed{})
	_, err := s.GetGraphicMemory(ctx)
	require.ErrorAs(t, err, &ErrClosed{})

	// late completions are dropped
	<-comp.Complete(ctx, fakecomponent.OutputWork(1, 1, 0, 1, &types.LinearBuffer{}))
	<-comp.Fail(ctx, 1)
	require.Empty(t, n.Frames())
	require.Empty(t, n.Events())
}
