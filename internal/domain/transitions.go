package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an appointment status change is not
// allowed by the lifecycle state machine.
var ErrInvalidTransition = errors.New("domain: invalid status transition")

// allowedTransitions defines the appointment lifecycle.
// Terminal statuses (cancelled, completed, no_show) have no outgoing edges.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted, StatusNoShow},
	StatusCancelled: {},
	StatusCompleted: {},
	StatusNoShow:    {},
}

// CanTransition reports whether the state machine allows moving from one
// status to another. Unknown statuses allow nothing.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a status change against the state machine and
// returns the new status. The from status is never mutated here; callers
// persist the result through the ledger.
func Transition(from, to AppointmentStatus) (AppointmentStatus, error) {
	if !ValidStatus(to) {
		return "", fmt.Errorf("%w: unknown target status %q", ErrInvalidTransition, to)
	}
	if !CanTransition(from, to) {
		return "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return to, nil
}

// ValidStatus reports whether s is one of the known appointment statuses.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	default:
		return false
	}
}
