// Package conflicts expands a requested set of slots to every slot that
// shares floor space with it and decides whether the request can proceed.
package conflicts

import (
	"context"
	"fmt"
	"sort"

	"github.com/codr1/mphcourts/internal/availability"
	"github.com/codr1/mphcourts/internal/courts"
	"github.com/codr1/mphcourts/internal/slots"
)

// Lookuper is the read side of the availability store.
type Lookuper interface {
	Lookup(ctx context.Context, key slots.Key) (availability.Occupancy, error)
}

// DerivedLister finds the auto-blocked rows owned by a root block.
type DerivedLister interface {
	DerivedBlocks(ctx context.Context, rootID int64) ([]int64, error)
}

type Operation int

const (
	AcquireBooking Operation = iota
	AcquireBlock
)

func (o Operation) String() string {
	if o == AcquireBlock {
		return "block"
	}
	return "booking"
}

// Policy selects how an acquire treats occupied and free overlapping courts.
type Policy struct {
	Operation Operation
	// Propagate claims free overlapping courts as derived slots.
	Propagate bool
}

// BookingPolicy is used for member bookings. Propagation is opt-in.
func BookingPolicy(propagate bool) Policy {
	return Policy{Operation: AcquireBooking, Propagate: propagate}
}

// BlockPolicy is used for admin blocks, which always propagate.
func BlockPolicy() Policy {
	return Policy{Operation: AcquireBlock, Propagate: true}
}

// Derivation is a free overlapping slot that must be claimed alongside Parent.
type Derivation struct {
	Key    slots.Key
	Court  courts.Court
	Parent slots.Key
}

// Plan is the outcome of a successful acquire check. Primary is in ascending
// hour order and Derived is grouped by primary in the same order.
type Plan struct {
	Primary []slots.Key
	Derived []Derivation
	// Skipped lists overlapping slots that were already unavailable and so
	// need no claim of their own.
	Skipped []slots.Key
}

// DerivedFor returns the derivations owned by one primary slot.
func (p Plan) DerivedFor(primary slots.Key) []Derivation {
	var out []Derivation
	for _, d := range p.Derived {
		if d.Parent == primary {
			out = append(out, d)
		}
	}
	return out
}

// ReleaseSet is every block row removed together with a root.
type ReleaseSet struct {
	Root    int64
	Derived []int64
}

// Count includes the root.
func (r ReleaseSet) Count() int { return 1 + len(r.Derived) }

type Engine struct {
	topology *courts.Topology
}

func NewEngine(topology *courts.Topology) *Engine {
	return &Engine{topology: topology}
}

func (e *Engine) Topology() *courts.Topology { return e.topology }

// Affected returns key followed by the same date and hour on every
// overlapping court.
func (e *Engine) Affected(key slots.Key) []slots.Key {
	out := []slots.Key{key}
	for _, id := range e.topology.OverlapsOf(key.CourtID) {
		court, ok := e.topology.Court(id)
		if !ok {
			continue
		}
		out = append(out, key.At(court))
	}
	return out
}

// Acquire checks every primary slot and its overlapping slots against the
// store, hour by hour in ascending order, and stops at the first hour that
// cannot be taken. It never writes.
//
// Derived claims on overlapping courts are shadows of some other root and
// never conflict on their own; the root they shadow is itself checked
// through the overlap graph.
func (e *Engine) Acquire(ctx context.Context, store Lookuper, primaries []slots.Key, policy Policy) (Plan, error) {
	if len(primaries) == 0 {
		return Plan{}, fmt.Errorf("%w: nothing to acquire", slots.ErrInvalidRange)
	}
	ordered := make([]slots.Key, len(primaries))
	copy(ordered, primaries)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Hour < ordered[j].Hour })

	plan := Plan{Primary: ordered}
	seen := make(map[slots.Key]struct{}, len(ordered))
	for _, key := range ordered {
		if _, dup := seen[key]; dup {
			return Plan{}, fmt.Errorf("%w: %s requested twice", slots.ErrInvalidRange, key)
		}
		seen[key] = struct{}{}
	}

	for _, key := range ordered {
		occ, err := store.Lookup(ctx, key)
		if err != nil {
			return Plan{}, err
		}
		if err := primaryConflict(key, occ, policy); err != nil {
			return Plan{}, err
		}

		for _, other := range e.Affected(key)[1:] {
			if _, primary := seen[other]; primary {
				continue
			}
			occ, err := store.Lookup(ctx, other)
			if err != nil {
				return Plan{}, err
			}
			switch {
			case occ.IsFree():
				if !policy.Propagate {
					continue
				}
				court, _ := e.topology.Court(other.CourtID)
				plan.Derived = append(plan.Derived, Derivation{Key: other, Court: court, Parent: key})
			case occ.Derived:
				plan.Skipped = append(plan.Skipped, other)
			case occ.State == availability.Booked:
				return Plan{}, &SlotError{Err: ErrConflictingBooking, Slot: key, Conflict: keyPtr(other)}
			case policy.Operation == AcquireBlock:
				plan.Skipped = append(plan.Skipped, other)
			default:
				return Plan{}, &SlotError{Err: ErrConflictingBooking, Slot: key, Conflict: keyPtr(other)}
			}
		}
	}
	return plan, nil
}

func primaryConflict(key slots.Key, occ availability.Occupancy, policy Policy) error {
	if occ.IsFree() {
		return nil
	}
	if policy.Operation == AcquireBlock {
		if occ.State == availability.Blocked {
			return &SlotError{Err: ErrAlreadyBlocked, Slot: key}
		}
		return &SlotError{Err: ErrConflictingBooking, Slot: key}
	}
	return &SlotError{Err: ErrSlotUnavailable, Slot: key}
}

// Release computes the rows removed with a root block: the root and the
// auto-blocked rows it owns. Independently created blocks are untouched.
func (e *Engine) Release(ctx context.Context, lister DerivedLister, rootID int64) (ReleaseSet, error) {
	derived, err := lister.DerivedBlocks(ctx, rootID)
	if err != nil {
		return ReleaseSet{}, err
	}
	return ReleaseSet{Root: rootID, Derived: derived}, nil
}

func keyPtr(k slots.Key) *slots.Key { return &k }
