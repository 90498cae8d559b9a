// Package internal holds helpers shared by the c2module packages.
package internal

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/c2module/logger"
)

// Assert panics (through the logger, so the failure is logged first) if
// mustBeTrue is false.
func Assert(
	ctx context.Context,
	mustBeTrue bool,
	what string,
	extraArgs ...any,
) {
	if mustBeTrue {
		return
	}

	logger.Panic(ctx, fmt.Sprintf("assertion failed: %s", what), extraArgs)
}
