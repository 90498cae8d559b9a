// factory.go implements Factory, the process-wide cache of vendor component stores.

package c2module

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/asticode/go-astikit"
	"github.com/facebookincubator/go-belt"
	"github.com/xaionaro-go/c2module/component"
	"github.com/xaionaro-go/c2module/config"
	"github.com/xaionaro-go/c2module/internal"
	"github.com/xaionaro-go/c2module/loader"
	"github.com/xaionaro-go/c2module/logger"
	"github.com/xaionaro-go/c2module/memory"
	"github.com/xaionaro-go/c2module/types"
	"github.com/xaionaro-go/xsync"
	"go.uber.org/atomic"
)

// storeFactoryRef is a reference-counted store factory. The loaded library
// is unloaded together with the factory when the last reference is gone.
type storeFactoryRef struct {
	deviceClass types.DeviceClass
	factory     component.StoreFactory
	refs        atomic.Int64
	closer      *astikit.Closer
}

func newStoreFactoryRef(
	ctx context.Context,
	deviceClass types.DeviceClass,
	factory component.StoreFactory,
	module *loader.Module,
) *storeFactoryRef {
	r := &storeFactoryRef{
		deviceClass: deviceClass,
		factory:     factory,
		closer:      astikit.NewCloser(),
	}
	r.refs.Store(1)
	// reverse order: the factory is destroyed before the library goes away
	r.closer.AddWithError(module.Close)
	r.closer.AddWithError(func() error {
		return factory.Release(ctx)
	})
	return r
}

func (r *storeFactoryRef) acquire() {
	r.refs.Inc()
}

func (r *storeFactoryRef) release(ctx context.Context) error {
	refs := r.refs.Dec()
	internal.Assert(ctx, refs >= 0, "negative reference count", r.deviceClass, refs)
	if refs > 0 {
		return nil
	}
	logger.Debugf(ctx, "the last reference to the %s store factory is released, unloading", r.deviceClass)
	return r.closer.Close()
}

type FactoryParams struct {
	// Loader loads the vendor libraries; the default is a DLLoader without a binder.
	Loader loader.Loader

	// Config is the default configuration if nil.
	Config *config.Config
}

// Factory creates Sessions for named components. It loads each device
// class's vendor library at most once and keeps it loaded for as long as the
// cache or any Session created through it holds a reference.
type Factory struct {
	FactoryParams

	locker xsync.Mutex
	stores map[types.DeviceClass]*storeFactoryRef
}

var _ types.Closer = (*Factory)(nil)

func NewFactory(params FactoryParams) *Factory {
	if params.Loader == nil {
		params.Loader = loader.NewDLLoader(nil)
	}
	if params.Config == nil {
		params.Config = config.Default()
	}
	return &Factory{
		FactoryParams: params,
		stores:        map[types.DeviceClass]*storeFactoryRef{},
	}
}

var (
	defaultFactoryOnce sync.Once
	defaultFactory     *Factory
)

// DefaultFactory is the process-wide factory. It loads the libraries with
// dlopen(3), so a binding package must call loader.RegisterDefaultBinder
// before the first module is requested.
func DefaultFactory() *Factory {
	defaultFactoryOnce.Do(func() {
		defaultFactory = NewFactory(FactoryParams{})
	})
	return defaultFactory
}

// GetModule is a shorthand for DefaultFactory().GetModule.
func GetModule(
	ctx context.Context,
	name string,
	mode types.Mode,
) (*Session, error) {
	return DefaultFactory().GetModule(ctx, name, mode)
}

func (f *Factory) String() string {
	return "Factory"
}

// GetModule creates the named component in the store of the mode's device
// class and wraps it into a new Session.
func (f *Factory) GetModule(
	ctx context.Context,
	name string,
	mode types.Mode,
) (_ret *Session, _err error) {
	ctx = belt.WithField(ctx, "component", name)
	ctx = belt.WithField(ctx, "device_class", mode.DeviceClass().String())
	logger.Debugf(ctx, "GetModule(ctx, '%s', %s)", name, mode)
	defer func() { logger.Debugf(ctx, "/GetModule(ctx, '%s', %s): %v %v", name, mode, _ret, _err) }()
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid mode %s", mode)
	}
	return xsync.DoA3R2(ctx, &f.locker, f.getModuleLocked, ctx, name, mode)
}

// GetModuleByCodecType resolves the component name from the configuration.
func (f *Factory) GetModuleByCodecType(
	ctx context.Context,
	codecType types.CodecType,
) (*Session, error) {
	name, err := f.Config.ComponentName(codecType)
	if err != nil {
		return nil, err
	}
	return f.GetModule(ctx, name, codecType.Mode())
}

func (f *Factory) getModuleLocked(
	ctx context.Context,
	name string,
	mode types.Mode,
) (*Session, error) {
	deviceClass := mode.DeviceClass()

	ref, err := f.getStoreFactoryLocked(ctx, deviceClass)
	if err != nil {
		return nil, err
	}

	store, err := ref.factory.GetInstance(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to get the %s component store: %w", deviceClass, err)
	}
	if store == nil {
		return nil, fmt.Errorf("unable to get the %s component store: %w", deviceClass, types.StatusNotFound)
	}

	comp, err := store.CreateComponent(ctx, name)
	if err != nil {
		return nil, ErrCreateComponent{Name: name, Err: err}
	}
	if comp == nil {
		return nil, ErrCreateComponent{Name: name, Err: types.StatusNotFound}
	}

	ref.acquire()
	return NewSession(
		ctx, comp, mode,
		SessionOptionFormatMapper{FormatMapper: f.formatMapper()},
		SessionOptionOnClose{Func: ref.release},
	), nil
}

func (f *Factory) formatMapper() memory.FormatMapper {
	mapper := memory.DefaultFormatMapper()
	if gbm, ok := mapper.(memory.GBMFormatMapper); ok {
		gbm.HEIFSupported = f.Config.HEIFSupported
		return gbm
	}
	return mapper
}

func (f *Factory) getStoreFactoryLocked(
	ctx context.Context,
	deviceClass types.DeviceClass,
) (_ *storeFactoryRef, _err error) {
	if ref, ok := f.stores[deviceClass]; ok {
		return ref, nil
	}

	defer func() {
		if _err != nil {
			_err = ErrLoad{DeviceClass: deviceClass, Err: _err}
		}
	}()

	lib, err := f.Config.Library(deviceClass)
	if err != nil {
		return nil, err
	}

	module, err := f.Loader.Load(ctx, lib.Path, lib.Symbol)
	if err != nil {
		return nil, err
	}

	version := f.Config.StoreFactoryVersion
	storeFactory, err := module.GetStoreFactory(ctx, version.Major, version.Minor)
	if err == nil && storeFactory == nil {
		err = fmt.Errorf("unable to fetch the store factory v%s: got null", version)
	}
	if err != nil {
		if closeErr := module.Close(); closeErr != nil {
			logger.Errorf(ctx, "unable to close '%s': %v", module, closeErr)
		}
		return nil, err
	}

	logger.Debugf(ctx, "loaded the %s store factory v%s from %s", deviceClass, version, module)
	ref := newStoreFactoryRef(detachedContext(ctx), deviceClass, storeFactory, module)
	f.stores[deviceClass] = ref
	return ref, nil
}

// Close drops the cache's references. Libraries still used by live
// sessions stay loaded until those sessions are closed.
func (f *Factory) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()
	return xsync.DoR1(ctx, &f.locker, func() error {
		var mErr []error
		for deviceClass, ref := range f.stores {
			if err := ref.release(ctx); err != nil {
				mErr = append(mErr, fmt.Errorf("unable to release the %s store factory: %w", deviceClass, err))
			}
			delete(f.stores, deviceClass)
		}
		return errors.Join(mErr...)
	})
}
