package fakecomponent

import (
	"context"

	"github.com/xaionaro-go/c2module/component"
	"github.com/xaionaro-go/c2module/types"
	"go.uber.org/atomic"
)

type Store struct {
	CreateComponentFn    func(ctx context.Context, name string) (component.Component, error)
	CreateComponentCount atomic.Int64
}

var _ component.Store = (*Store)(nil)

func (s *Store) CreateComponent(ctx context.Context, name string) (component.Component, error) {
	s.CreateComponentCount.Inc()
	if s.CreateComponentFn != nil {
		return s.CreateComponentFn(ctx, name)
	}
	return New(name), nil
}

type StoreFactory struct {
	Store *Store

	GetInstanceFn    func(ctx context.Context) (component.Store, error)
	GetInstanceCount atomic.Int64

	ReleaseCount atomic.Int64
}

var _ component.StoreFactory = (*StoreFactory)(nil)

func NewStoreFactory() *StoreFactory {
	return &StoreFactory{Store: &Store{}}
}

func (f *StoreFactory) GetInstance(ctx context.Context) (component.Store, error) {
	f.GetInstanceCount.Inc()
	if f.GetInstanceFn != nil {
		return f.GetInstanceFn(ctx)
	}
	if f.Store == nil {
		return nil, types.StatusNotFound
	}
	return f.Store, nil
}

func (f *StoreFactory) Release(ctx context.Context) error {
	f.ReleaseCount.Inc()
	return nil
}
