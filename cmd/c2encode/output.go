package main

import (
	"context"
	"fmt"
	"io"

	"github.com/xaionaro-go/c2module/engine"
	"github.com/xaionaro-go/c2module/logger"
	"github.com/xaionaro-go/c2module/types"
	"go.uber.org/atomic"
)

// outputWriter writes the encoded linear buffers. The notifier is never
// called concurrently for a session, so no locking is needed.
type outputWriter struct {
	Writer  io.Writer
	written atomic.Uint64
	err     error
}

func (w *outputWriter) onFrame(ctx context.Context, frame engine.Frame) {
	if w.err != nil {
		return
	}
	if err := w.write(ctx, frame); err != nil {
		logger.Errorf(ctx, "unable to write frame %d: %v", frame.FrameIndex, err)
		w.err = err
	}
}

func (w *outputWriter) write(ctx context.Context, frame engine.Frame) error {
	buf, ok := frame.Buffer.(*types.LinearBuffer)
	if !ok {
		return fmt.Errorf("expected a linear buffer, got %T", frame.Buffer)
	}
	data, err := buf.Block.Map(ctx)
	if err != nil {
		return fmt.Errorf("unable to map the output block: %w", err)
	}
	end := uint64(buf.Offset) + uint64(buf.Size)
	if end > uint64(len(data)) {
		return fmt.Errorf("the buffer range %d+%d exceeds the block size %d", buf.Offset, buf.Size, len(data))
	}
	n, err := w.Writer.Write(data[buf.Offset:end])
	w.written.Add(uint64(n))
	return err
}
