package main

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/c2module/types"
)

func nv12FrameSize(width, height uint32) int {
	return int(width) * int(height) * 3 / 2
}

// copyNV12 copies a tightly packed NV12 frame into the block honoring its strides.
func copyNV12(
	ctx context.Context,
	block types.GraphicBlock,
	frame []byte,
	width, height uint32,
) error {
	view, err := block.Map(ctx)
	if err != nil {
		return fmt.Errorf("unable to map the graphic block: %w", err)
	}
	if len(view.Planes) < 2 || len(view.Strides) < 2 {
		return fmt.Errorf("expected 2 planes, got %d", len(view.Planes))
	}

	w := int(width)
	lumaSize := w * int(height)
	planes := []struct {
		src  []byte
		rows int
	}{
		{src: frame[:lumaSize], rows: int(height)},
		{src: frame[lumaSize:], rows: int(height) / 2},
	}
	for idx, plane := range planes {
		dst := view.Planes[idx]
		stride := int(view.Strides[idx])
		if stride < w || len(dst) < (plane.rows-1)*stride+w {
			return fmt.Errorf("plane %d is too small: stride %d, size %d", idx, stride, len(dst))
		}
		for row := 0; row < plane.rows; row++ {
			copy(dst[row*stride:row*stride+w], plane.src[row*w:(row+1)*w])
		}
	}
	return nil
}
