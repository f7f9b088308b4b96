// Package screens holds the per-screen view state of the dashboard.
//
// Every screen is built fresh for one page request, loaded through its own
// narrow API interface, optionally mutated once, and then rendered. Screens never
// share state; the bookstore API is the only source of truth.
package screens

import (
	"context"
	"errors"
	"fmt"
)

// Status is the explicit lifecycle of a screen
type Status int

const (
	StatusLoading Status = iota
	StatusError
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// State is embedded by every screen
type State struct {
	Status       Status
	ErrorMessage string
}

// Failed reports whether the screen is in its error state
func (s *State) Failed() bool { return s.Status == StatusError }

// Ready reports whether the screen holds data that can be rendered
func (s *State) Ready() bool { return s.Status == StatusReady }

func (s *State) fail(message string) {
	s.Status = StatusError
	s.ErrorMessage = message
}

func (s *State) ready() {
	s.Status = StatusReady
	s.ErrorMessage = ""
}

// ValidationError is a client-side rejection raised before any request is sent
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ActionError is a failed mutation. The screen state is left as it was.
type ActionError struct {
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// AlertMessage returns the user-facing text for a validation or action error
func AlertMessage(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	var actionErr *ActionError
	if errors.As(err, &actionErr) {
		return actionErr.Message
	}
	return "Lỗi không xác định"
}

// alive reports whether results may still be committed for ctx.
// A cancelled page request must not update screen state.
func alive(ctx context.Context) bool {
	return ctx.Err() == nil
}
