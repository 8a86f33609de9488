package booking

import (
	"context"
	"fmt"

	"github.com/codr1/mphcourts/internal/availability"
	"github.com/codr1/mphcourts/internal/conflicts"
	"github.com/codr1/mphcourts/internal/slots"
)

// State is the lifecycle position of one slot. Held exists only inside a
// single acquire transaction and is never stored.
type State string

const (
	StateFree      State = "free"
	StateHeld      State = "held"
	StateBooked    State = "booked"
	StateBlocked   State = "blocked"
	StateCancelled State = "cancelled"
	StateUnblocked State = "unblocked"
)

var transitions = map[State][]State{
	StateFree:    {StateHeld},
	StateHeld:    {StateBooked, StateBlocked, StateFree},
	StateBooked:  {StateCancelled},
	StateBlocked: {StateUnblocked},
}

// CanTransition reports whether to is reachable from s in one step.
// Cancelled and Unblocked are terminal.
func (s State) CanTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s State) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func transition(from, to State) error {
	if from.CanTransition(to) {
		return nil
	}
	if from == StateCancelled && to == StateCancelled {
		return ErrAlreadyCancelled
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// stateOf maps a stored occupancy onto the lifecycle.
func stateOf(occ availability.Occupancy) State {
	switch occ.State {
	case availability.Booked:
		return StateBooked
	case availability.Blocked:
		return StateBlocked
	default:
		return StateFree
	}
}

// holdSlots walks every key from its stored state through Held to the
// target. It must run inside the transaction that then writes the claims.
func holdSlots(ctx context.Context, store conflicts.Lookuper, keys []slots.Key, to State) error {
	for _, key := range keys {
		occ, err := store.Lookup(ctx, key)
		if err != nil {
			return err
		}
		if err := transition(stateOf(occ), StateHeld); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if err := transition(StateHeld, to); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}
