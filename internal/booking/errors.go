package booking

import (
	"errors"

	"github.com/codr1/mphcourts/internal/conflicts"
	"github.com/codr1/mphcourts/internal/slots"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyCancelled  = errors.New("booking already cancelled")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotOwner          = errors.New("booking belongs to another user")
	ErrInvalidTransition = errors.New("invalid state transition")

	ErrInvalidRange       = slots.ErrInvalidRange
	ErrSlotUnavailable    = conflicts.ErrSlotUnavailable
	ErrConflictingBooking = conflicts.ErrConflictingBooking
	ErrAlreadyBlocked     = conflicts.ErrAlreadyBlocked
)
