package c2module

import (
	"context"

	"github.com/xaionaro-go/c2module/component"
	"github.com/xaionaro-go/c2module/types"
	"github.com/xaionaro-go/xcontext"
)

// listener forwards component callbacks into the Session.
type listener struct {
	session *Session
}

var _ component.Listener = (*listener)(nil)

func (l *listener) OnWorkDone(ctx context.Context, items []*types.Work) {
	l.session.handleWorkDone(ctx, items)
}

func (l *listener) OnTripped(ctx context.Context, results []types.SettingResult) {
	l.session.handleTripped(ctx, results)
}

func (l *listener) OnError(ctx context.Context, errorCode uint32) {
	l.session.handleError(ctx, errorCode)
}

// detachedContext keeps the values (logger, fields) of ctx but not its
// cancellation: callbacks keep arriving after the Initialize call returned.
func detachedContext(ctx context.Context) context.Context {
	return xcontext.DetachDone(ctx)
}
