package memory

import (
	"fmt"

	"github.com/xaionaro-go/c2module/types"
)

type ErrInvalidDimensions struct {
	Width  uint32
	Height uint32
}

func (e ErrInvalidDimensions) Error() string {
	return fmt.Sprintf("one or more dimensions are 0: %dx%d", e.Width, e.Height)
}

type ErrInvalidSize struct{}

func (ErrInvalidSize) Error() string {
	return "size is 0"
}

type ErrUnsupportedFormat struct {
	Format types.PixelFormat
	Reason string
}

func (e ErrUnsupportedFormat) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported pixel format %s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("unsupported pixel format %s", e.Format)
}

// ErrFetch is returned when the backing pool refuses to hand out a block.
type ErrFetch struct {
	Kind types.BufferType
	Err  error
}

func (e ErrFetch) Error() string {
	return fmt.Sprintf("unable to create %s block: %v", e.Kind, e.Err)
}

func (e ErrFetch) Unwrap() error {
	return e.Err
}
