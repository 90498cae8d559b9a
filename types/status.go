// status.go defines the Status codes reported by codec components and allocators.

// Package types contains the data carriers and enumerants shared between the
// codec session manager and its collaborators.
package types

import (
	"fmt"
)

// Status is a collaborator status code. The values match Codec2's c2_status_t.
//
// Any non-OK Status is an error.
type Status int32

const (
	StatusOK        Status = 0
	StatusBadState  Status = 1   // EPERM
	StatusNotFound  Status = 2   // ENOENT
	StatusCanceled  Status = 4   // EINTR
	StatusBadIndex  Status = 6   // ENXIO
	StatusBlocking  Status = 11  // EWOULDBLOCK
	StatusNoMemory  Status = 12  // ENOMEM
	StatusRefused   Status = 13  // EACCES
	StatusCorrupted Status = 14  // EFAULT
	StatusDuplicate Status = 17  // EEXIST
	StatusNoInit    Status = 19  // ENODEV
	StatusBadValue  Status = 22  // EINVAL
	StatusOmitted   Status = 38  // ENOSYS
	StatusCannotDo  Status = 95  // ENOTSUP
	StatusTimedOut  Status = 110 // ETIMEDOUT
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusBadState:
		return "BAD_STATE"
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusCanceled:
		return "CANCELED"
	case StatusBadIndex:
		return "BAD_INDEX"
	case StatusBlocking:
		return "BLOCKING"
	case StatusNoMemory:
		return "NO_MEMORY"
	case StatusRefused:
		return "REFUSED"
	case StatusCorrupted:
		return "CORRUPTED"
	case StatusDuplicate:
		return "DUPLICATE"
	case StatusNoInit:
		return "NO_INIT"
	case StatusBadValue:
		return "BAD_VALUE"
	case StatusOmitted:
		return "OMITTED"
	case StatusCannotDo:
		return "CANNOT_DO"
	case StatusTimedOut:
		return "TIMED_OUT"
	default:
		return fmt.Sprintf("<unexpected_%d>", int32(s))
	}
}

func (s Status) Error() string {
	return fmt.Sprintf("status %s (%d)", s.String(), int32(s))
}

// Err returns nil for StatusOK and the status itself otherwise.
func (s Status) Err() error {
	if s == StatusOK {
		return nil
	}
	return s
}
