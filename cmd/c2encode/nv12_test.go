package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/c2module/engine"
	"github.com/xaionaro-go/c2module/internal/fakecomponent"
	"github.com/xaionaro-go/c2module/types"
)

func TestCopyNV12(t *testing.T) {
	ctx := context.Background()
	const w, h = 4, 2
	frame := make([]byte, nv12FrameSize(w, h))
	for i := range frame {
		frame[i] = byte(i + 1)
	}

	block := &fakecomponent.GraphicBlock{
		W: w, H: h,
		Planes:  [][]byte{make([]byte, 16), make([]byte, 8)},
		Strides: []uint32{8, 8},
	}
	require.NoError(t, copyNV12(ctx, block, frame, w, h))
	require.Equal(t, []byte{1, 2, 3, 4, 0, 0, 0, 0, 5, 6, 7, 8, 0, 0, 0, 0}, block.Planes[0])
	require.Equal(t, []byte{9, 10, 11, 12, 0, 0, 0, 0}, block.Planes[1])

	small := &fakecomponent.GraphicBlock{
		W: w, H: h,
		Planes:  [][]byte{make([]byte, 4), make([]byte, 4)},
		Strides: []uint32{4, 4},
	}
	require.Error(t, copyNV12(ctx, small, frame, w, h))
}

func TestOutputWriter(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	w := &outputWriter{Writer: &out}

	block := &fakecomponent.LinearBlock{Data: []byte("xxhelloxx")}
	w.onFrame(ctx, engine.Frame{Buffer: types.NewLinearBuffer(block, 2, 5)})
	require.NoError(t, w.err)
	require.Equal(t, "hello", out.String())
	require.EqualValues(t, 5, w.written.Load())

	w.onFrame(ctx, engine.Frame{Buffer: types.NewLinearBuffer(block, 8, 5)})
	require.Error(t, w.err)
}

func TestRunParamsValidate(t *testing.T) {
	valid := runParams{Width: 64, Height: 32, FPS: 30}
	require.NoError(t, valid.validate())

	zeroFPS := valid
	zeroFPS.FPS = 0
	require.Error(t, zeroFPS.validate())
	require.Error(t, run(context.Background(), zeroFPS))

	zeroWidth := valid
	zeroWidth.Width = 0
	require.Error(t, zeroWidth.validate())
}
