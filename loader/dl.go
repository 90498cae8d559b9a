//go:build darwin || linux
// +build darwin linux

package loader

import (
	"context"

	"github.com/ebitengine/purego"
	"github.com/xaionaro-go/c2module/component"
	"github.com/xaionaro-go/c2module/logger"
)

// DLLoader loads libraries with dlopen(3). Load fails with ErrNoBinder
// unless Binder is set or a default binder is registered.
type DLLoader struct {
	Binder Binder
}

var _ Loader = (*DLLoader)(nil)

func NewDLLoader(binder Binder) *DLLoader {
	return &DLLoader{Binder: binder}
}

func (l *DLLoader) Load(
	ctx context.Context,
	path, symbol string,
) (_ret *Module, _err error) {
	logger.Debugf(ctx, "Load(ctx, '%s', '%s')", path, symbol)
	defer func() { logger.Debugf(ctx, "/Load(ctx, '%s', '%s'): %v", path, symbol, _err) }()

	binder := l.Binder
	if binder == nil {
		binder = DefaultBinder()
	}
	if binder == nil {
		return nil, ErrNoBinder{}
	}

	handle, err := purego.Dlopen(path, purego.RTLD_NOW)
	if err != nil {
		return nil, ErrOpen{Path: path, Err: err}
	}

	sym, err := purego.Dlsym(handle, symbol)
	if err != nil {
		if closeErr := purego.Dlclose(handle); closeErr != nil {
			logger.Errorf(ctx, "unable to close '%s': %v", path, closeErr)
		}
		return nil, ErrSymbol{Path: path, Symbol: symbol, Err: err}
	}

	var getter func(major, minor int32) uintptr
	purego.RegisterFunc(&getter, sym)

	return &Module{
		Path:   path,
		Symbol: symbol,
		GetStoreFactory: func(ctx context.Context, major, minor int) (component.StoreFactory, error) {
			ptr := getter(int32(major), int32(minor))
			if ptr == 0 {
				return nil, nil
			}
			return binder(ctx, ptr)
		},
		CloseFunc: func() error {
			return purego.Dlclose(handle)
		},
	}, nil
}
