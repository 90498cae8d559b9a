//go:build !darwin && !linux
// +build !darwin,!linux

package loader

import (
	"context"
)

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
) (*Module, error) {
	return nil, ErrOpen{Path: path, Err: ErrUnsupportedPlatform{}}
}
