package engine

import (
	"fmt"

	"github.com/xaionaro-go/c2module/types"
)

// ErrComponentFailure is returned once the component reported an error.
// The engine does not recover from it.
type ErrComponentFailure struct {
	Code uint32
}

func (e ErrComponentFailure) Error() string {
	return fmt.Sprintf("the component failed: %s", types.Status(e.Code))
}
