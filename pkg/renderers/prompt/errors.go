package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrTooManyRounds is returned when submit validation keeps failing after
	// the configured number of correction rounds.
	ErrTooManyRounds = errors.New("prompt: too many correction rounds")
)
