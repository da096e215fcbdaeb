package form

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-frontier/pkg/transport"
)

// Status is the outcome of a Submit call.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusInvalid   Status = "invalid"
	StatusFailed    Status = "failed"
	StatusBusy      Status = "busy"
)

// Result describes one Submit call.
type Result struct {
	Status Status
	// Data is the full response data on success.
	Data map[string]any
	// Payload is the value returned for the mutation root field.
	Payload any
	// Errors holds the validation messages that blocked an invalid submit.
	Errors map[string]string
}

// Submit validates the whole form and, when valid, executes the mutation
// through the transport exactly once.
//
// Validation failures are not Go errors: they come back as StatusInvalid
// with the messages in Result.Errors and State. A transport failure returns
// a *SubmitError. A call made while another submit is in flight returns
// ErrBusy and never reaches the transport.
func (f *Form) Submit(ctx context.Context) (Result, error) {
	operation := operationName(f.desc)
	started := time.Now()

	f.mu.Lock()
	if f.phase != PhaseIdle {
		f.mu.Unlock()
		f.metrics.SubmitObserved(operation, OutcomeBusy, time.Since(started))
		f.logger.Debug("submit rejected while busy")
		return Result{Status: StatusBusy}, ErrBusy
	}

	f.submitCount++
	f.phase = PhaseValidating
	issues := f.validator.Tree(f.model.Fields, f.values)
	if len(issues) > 0 {
		f.errors = issues
		f.phase = PhaseIdle
		f.succeeded = false
		payload, observers := f.payloadLocked(f.snapshotLocked())
		f.mu.Unlock()

		notify(observers, payload)
		f.metrics.SubmitObserved(operation, OutcomeInvalid, time.Since(started))
		f.logger.Info("submit blocked by validation", zap.Int("errors", len(issues)))
		return Result{Status: StatusInvalid, Errors: cloneErrors(issues)}, nil
	}

	f.errors = make(map[string]string)
	f.phase = PhaseSubmitting
	f.submitErr = nil
	req := transport.Request{Descriptor: f.desc, Variables: f.variablesLocked()}
	payload, observers := f.payloadLocked(f.snapshotLocked())
	f.mu.Unlock()

	notify(observers, payload)

	resp, err := f.execute(ctx, req)

	f.mu.Lock()
	f.phase = PhaseIdle
	var result Result
	if err != nil {
		err = &SubmitError{Operation: operation, Err: err}
		f.failed = true
		f.succeeded = false
		f.submitErr = err
		result = Result{Status: StatusFailed}
	} else {
		f.failed = false
		f.succeeded = true
		f.result = resp.Result(f.desc)
		if f.resetOnSave {
			f.values = cloneValues(f.initial)
			f.errors = make(map[string]string)
		}
		result = Result{Status: StatusSucceeded, Data: resp.Data, Payload: resp.Result(f.desc)}
	}
	payload, observers = f.payloadLocked(f.snapshotLocked())
	f.mu.Unlock()

	notify(observers, payload)
	elapsed := time.Since(started)
	if err != nil {
		f.metrics.SubmitObserved(operation, OutcomeFailed, elapsed)
		f.logger.Warn("submit failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return result, err
	}
	f.metrics.SubmitObserved(operation, OutcomeSucceeded, elapsed)
	f.logger.Info("submit succeeded", zap.Duration("elapsed", elapsed))
	return result, nil
}

// execute runs the transport. A panic is reported as a transport failure so
// the form returns to idle instead of staying busy.
func (f *Form) execute(ctx context.Context, req transport.Request) (resp transport.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("transport panicked", zap.Any("panic", r))
			resp, err = transport.Response{}, fmt.Errorf("%w: %v", ErrTransportPanic, r)
		}
	}()
	return f.transport.Execute(ctx, req)
}

// variablesLocked copies the values of declared variables. Keys seeded by
// initial values that match no variable are not sent.
func (f *Form) variablesLocked() map[string]any {
	out := make(map[string]any, len(f.desc.Variables))
	for _, variable := range f.desc.Variables {
		if value, ok := f.values[variable.Name]; ok {
			out[variable.Name] = deepCopy(value)
		}
	}
	return out
}
