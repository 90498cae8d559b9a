package c2module

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xaionaro-go/c2module/types"
)

// ErrNotInitialized is returned by any operation but Initialize on a session
// that was never initialized.
type ErrNotInitialized struct {
	Component string
	Op        string
}

func (e ErrNotInitialized) Error() string {
	return fmt.Sprintf("component '%s': %s failed: not initialized", e.Component, e.Op)
}

type ErrNotRunning struct {
	Component string
	Op        string
	State     State
}

func (e ErrNotRunning) Error() string {
	return fmt.Sprintf("component '%s': %s failed: not in running state (current: %s)", e.Component, e.Op, e.State)
}

type ErrAlreadyInitialized struct {
	Component string
}

func (e ErrAlreadyInitialized) Error() string {
	return fmt.Sprintf("component '%s': already initialized", e.Component)
}

type ErrInvalidNotifier struct {
	Component string
}

func (e ErrInvalidNotifier) Error() string {
	return fmt.Sprintf("component '%s': invalid notifier argument", e.Component)
}

type ErrClosed struct {
	Component string
}

func (e ErrClosed) Error() string {
	return fmt.Sprintf("component '%s': the session is closed", e.Component)
}

// ErrComponent is a rejection by the component (or its allocator).
type ErrComponent struct {
	Component string
	Op        string
	Err       error
}

func (e ErrComponent) Error() string {
	return fmt.Sprintf("component '%s': %s failed: %v", e.Component, e.Op, e.Err)
}

func (e ErrComponent) Unwrap() error {
	return e.Err
}

// Status returns the collaborator status code carried by the error, if any.
func (e ErrComponent) Status() (types.Status, bool) {
	var status types.Status
	if errors.As(e.Err, &status) {
		return status, true
	}
	return types.StatusOK, false
}

// ErrSettingFailures is returned when a configuration call reported
// per-parameter failures.
type ErrSettingFailures struct {
	Failures []types.SettingResult
}

func (e ErrSettingFailures) Error() string {
	s := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		s = append(s, f.String())
	}
	return fmt.Sprintf("%d parameter(s) failed: %s", len(e.Failures), strings.Join(s, ", "))
}

type ErrParamNotFound struct {
	Index types.ParamIndex
}

func (e ErrParamNotFound) Error() string {
	return fmt.Sprintf("parameter %s was not returned", e.Index)
}

// ErrLoad is a failure to load the vendor component store for a device class.
type ErrLoad struct {
	DeviceClass types.DeviceClass
	Err         error
}

func (e ErrLoad) Error() string {
	return fmt.Sprintf("unable to load the %s component store: %v", e.DeviceClass, e.Err)
}

func (e ErrLoad) Unwrap() error {
	return e.Err
}

type ErrCreateComponent struct {
	Name string
	Err  error
}

func (e ErrCreateComponent) Error() string {
	return fmt.Sprintf("unable to create component '%s': %v", e.Name, e.Err)
}

func (e ErrCreateComponent) Unwrap() error {
	return e.Err
}
