package component

import (
	"context"
)

// Store creates components by name.
type Store interface {
	CreateComponent(ctx context.Context, name string) (Component, error)
}

// StoreFactory is the versioned entry object exported by a vendor library.
type StoreFactory interface {
	GetInstance(ctx context.Context) (Store, error)

	// Release destroys the factory; the library it came from may be
	// unloaded right after.
	Release(ctx context.Context) error
}
