// Package loader resolves vendor component-store factories from dynamically
// loaded libraries. It is the only place dealing with dynamic loading.
package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/xaionaro-go/c2module/component"
	"go.uber.org/atomic"
)

// StoreFactoryGetter asks the loaded library for the given version of its
// store factory. A nil factory with a nil error means the library returned
// a null pointer.
type StoreFactoryGetter func(ctx context.Context, major, minor int) (component.StoreFactory, error)

// Module is a loaded library together with its resolved entry point.
type Module struct {
	Path            string
	Symbol          string
	GetStoreFactory StoreFactoryGetter
	CloseFunc       func() error

	closeOnce sync.Once
	closeErr  error
}

// Close unloads the library. Nothing obtained from it may be used after.
func (m *Module) Close() error {
	m.closeOnce.Do(func() {
		if m.CloseFunc != nil {
			m.closeErr = m.CloseFunc()
		}
	})
	return m.closeErr
}

func (m *Module) String() string {
	return fmt.Sprintf("%s:%s", m.Path, m.Symbol)
}

type Loader interface {
	Load(ctx context.Context, path, symbol string) (*Module, error)
}

type ErrOpen struct {
	Path string
	Err  error
}

func (e ErrOpen) Error() string {
	return fmt.Sprintf("unable to open '%s': %v", e.Path, e.Err)
}

func (e ErrOpen) Unwrap() error {
	return e.Err
}

type ErrSymbol struct {
	Path   string
	Symbol string
	Err    error
}

func (e ErrSymbol) Error() string {
	return fmt.Sprintf("unable to resolve '%s' in '%s': %v", e.Symbol, e.Path, e.Err)
}

func (e ErrSymbol) Unwrap() error {
	return e.Err
}

type ErrUnsupportedPlatform struct{}

func (ErrUnsupportedPlatform) Error() string {
	return "dynamic loading is not supported on this platform"
}

type ErrNoBinder struct{}

func (ErrNoBinder) Error() string {
	return "no binder is configured to wrap the native store factory"
}

// Binder turns the native store factory pointer returned by the entry point
// into a component.StoreFactory.
type Binder func(ctx context.Context, handle uintptr) (component.StoreFactory, error)

var defaultBinder atomic.Pointer[Binder]

// RegisterDefaultBinder sets the binder used by loaders created without one.
// Native binding packages are expected to call it from their init().
func RegisterDefaultBinder(binder Binder) {
	defaultBinder.Store(&binder)
}

// DefaultBinder returns the registered default binder, or nil.
func DefaultBinder() Binder {
	b := defaultBinder.Load()
	if b == nil {
		return nil
	}
	return *b
}
