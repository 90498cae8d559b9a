package c2module

import (
	"context"

	"github.com/xaionaro-go/c2module/memory"
)

type SessionOptionCommons struct{}

func (SessionOptionCommons) sessionOption() {}

type SessionOption interface {
	sessionOption()
}

type SessionOptions []SessionOption

func SessionOptionLatest[T SessionOption](s SessionOptions) (ret T, ok bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if v, ok := s[i].(T); ok {
			return v, true
		}
	}
	return
}

// SessionOptionFormatMapper overrides the pixel format mapping used by the
// session's graphic memory.
type SessionOptionFormatMapper struct {
	SessionOptionCommons
	FormatMapper memory.FormatMapper
}

// SessionOptionOnClose adds a callback run after the component is released.
// Every instance of this option is honored, not only the latest.
type SessionOptionOnClose struct {
	SessionOptionCommons
	Func func(ctx context.Context) error
}
