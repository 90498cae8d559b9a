// Package closuresignaler signals the closure of a resource exactly once.
package closuresignaler

import (
	"context"
	"sync"

	"github.com/xaionaro-go/c2module/logger"
)

type ClosureSignaler struct {
	closeOnce sync.Once
	c         chan struct{}
}

func New() *ClosureSignaler {
	return &ClosureSignaler{
		c: make(chan struct{}),
	}
}

func (c *ClosureSignaler) CloseChan() <-chan struct{} {
	return c.c
}

// Close reports true only to the call that actually closed the signaler.
func (c *ClosureSignaler) Close(ctx context.Context) (closedNow bool) {
	c.closeOnce.Do(func() {
		logger.Debugf(ctx, "closing")
		close(c.c)
		closedNow = true
	})
	return
}

func (c *ClosureSignaler) IsClosed() bool {
	select {
	case <-c.c:
		return true
	default:
		return false
	}
}
