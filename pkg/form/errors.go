package form

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration wraps every construction failure: missing descriptor,
	// missing or unresolvable schema source, missing transport.
	ErrConfiguration = errors.New("form: configuration error")
	// ErrBusy is returned by Submit while a submission is in flight.
	ErrBusy = errors.New("form: submit already in progress")
	// ErrUnknownField is returned by Change for paths the form does not declare.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrTransportPanic is wrapped by the SubmitError of a transport that panicked.
	ErrTransportPanic = errors.New("form: transport panicked")
	// ErrNoKit is returned by Render when no kit was configured.
	ErrNoKit = errors.New("form: no kit configured")
)

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfiguration}, args...)...)
}

// SubmitError reports a transport failure. The engine does not interpret the
// wrapped error; use errors.As to reach transport specific types.
type SubmitError struct {
	Operation string
	Err       error
}

func (e *SubmitError) Error() string {
	if e == nil {
		return "form: submit failed"
	}
	if e.Err == nil {
		return fmt.Sprintf("form: submit %s failed", e.Operation)
	}
	return fmt.Sprintf("form: submit %s: %v", e.Operation, e.Err)
}

func (e *SubmitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
