package loader

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/c2module/component"
	"github.com/xaionaro-go/xsync"
)

// Static serves store factories registered in-process, keyed by
// "path:symbol". It is meant for statically linked bindings and tests.
type Static struct {
	locker    xsync.Mutex
	factories map[string]func(ctx context.Context, major, minor int) (component.StoreFactory, error)
	loads     map[string]int
	unloads   map[string]int
}

var _ Loader = (*Static)(nil)

func NewStatic() *Static {
	return &Static{
		factories: map[string]func(ctx context.Context, major, minor int) (component.StoreFactory, error){},
		loads:     map[string]int{},
		unloads:   map[string]int{},
	}
}

func staticKey(path, symbol string) string {
	return path + ":" + symbol
}

func (s *Static) Register(
	path, symbol string,
	getter func(ctx context.Context, major, minor int) (component.StoreFactory, error),
) {
	s.locker.Do(context.Background(), func() {
		s.factories[staticKey(path, symbol)] = getter
	})
}

func (s *Static) Load(
	ctx context.Context,
	path, symbol string,
) (*Module, error) {
	return xsync.DoR2(ctx, &s.locker, func() (*Module, error) {
		key := staticKey(path, symbol)
		getter, ok := s.factories[key]
		if !ok {
			return nil, ErrOpen{Path: path, Err: fmt.Errorf("'%s' is not registered", key)}
		}
		s.loads[key]++
		return &Module{
			Path:            path,
			Symbol:          symbol,
			GetStoreFactory: getter,
			CloseFunc: func() error {
				s.locker.Do(context.Background(), func() {
					s.unloads[key]++
				})
				return nil
			},
		}, nil
	})
}

// LoadCount returns how many times the library was loaded.
func (s *Static) LoadCount(path, symbol string) int {
	return xsync.DoR1(context.Background(), &s.locker, func() int {
		return s.loads[staticKey(path, symbol)]
	})
}

// UnloadCount returns how many times the library was unloaded.
func (s *Static) UnloadCount(path, symbol string) int {
	return xsync.DoR1(context.Background(), &s.locker, func() int {
		return s.unloads[staticKey(path, symbol)]
	})
}
