package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrDone signals the user finished toggling an array field.
	ErrDone = errors.New("tui: done")
)
