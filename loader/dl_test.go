//go:build darwin || linux
// +build darwin linux

package loader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDLLoaderWithoutBinder(t *testing.T) {
	require.Nil(t, DefaultBinder())

	// the binder is checked before the library is opened
	_, err := NewDLLoader(nil).Load(context.Background(), "/nonexistent/libcodec2.so", "Getter")
	require.ErrorIs(t, err, ErrNoBinder{})
}
