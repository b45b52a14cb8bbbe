package status

import (
	"fmt"
	"slices"
)

// Status represents an order's position in the fulfillment pipeline.
type Status string

const (
	Draft          Status = "draft"
	Scheduled      Status = "scheduled"
	PickedUp       Status = "picked_up"
	Washing        Status = "washing"
	Drying         Status = "drying"
	Folding        Status = "folding"
	Ready          Status = "ready"
	OutForDelivery Status = "out_for_delivery"
	Delivered      Status = "delivered"
	Cancelled      Status = "cancelled"
)

// validTransitions defines allowed status transitions. Cancellation is
// allowed from any non-terminal status.
var validTransitions = map[Status][]Status{
	Draft:          {Scheduled, Cancelled},
	Scheduled:      {PickedUp, Cancelled},
	PickedUp:       {Washing, Cancelled},
	Washing:        {Drying, Cancelled},
	Drying:         {Folding, Cancelled},
	Folding:        {Ready, Cancelled},
	Ready:          {OutForDelivery, Cancelled},
	OutForDelivery: {Delivered, Cancelled},
	Delivered:      {},
	Cancelled:      {},
}

// All lists every status in pipeline order.
var All = []Status{
	Draft, Scheduled, PickedUp, Washing, Drying, Folding,
	Ready, OutForDelivery, Delivered, Cancelled,
}

// Valid reports whether s is a known status.
func Valid(s Status) bool {
	_, ok := validTransitions[s]
	return ok
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s Status) bool {
	return len(validTransitions[s]) == 0 && Valid(s)
}

// IsActive reports whether an order in status s still needs attention:
// anything past draft that has not reached a terminal status.
func IsActive(s Status) bool {
	return Valid(s) && s != Draft && !IsTerminal(s)
}

// Transition validates a move from one status to another.
func Transition(from, to Status) error {
	if !Valid(from) {
		return fmt.Errorf("unknown status %q", from)
	}
	if !Valid(to) {
		return fmt.Errorf("unknown status %q", to)
	}
	if !slices.Contains(validTransitions[from], to) {
		return fmt.Errorf("invalid transition from %s to %s", from, to)
	}
	return nil
}

// CanTransition reports whether the move from one status to another is allowed.
func CanTransition(from, to Status) bool {
	return Transition(from, to) == nil
}
