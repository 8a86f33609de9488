package conflicts

import (
	"errors"
	"fmt"

	"github.com/codr1/mphcourts/internal/slots"
)

var (
	ErrSlotUnavailable    = errors.New("slot unavailable")
	ErrConflictingBooking = errors.New("conflicting booking")
	ErrAlreadyBlocked     = errors.New("slot already blocked")
)

// SlotError names the slot an acquire failed on. Conflict is set when the
// failure came from an overlapping court rather than the slot itself.
type SlotError struct {
	Err      error
	Slot     slots.Key
	Conflict *slots.Key
}

func (e *SlotError) Error() string {
	if e.Conflict != nil {
		return fmt.Sprintf("%s: %s overlaps %s", e.Err, e.Slot, *e.Conflict)
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Slot)
}

func (e *SlotError) Unwrap() error { return e.Err }
