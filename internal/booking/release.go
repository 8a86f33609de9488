package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/codr1/mphcourts/internal/availability"
	"github.com/codr1/mphcourts/internal/db"
	dbgen "github.com/codr1/mphcourts/internal/db/generated"
)

// ReleaseBlock deletes a block together with the auto-blocked rows it owns
// and returns how many rows were removed, the block itself included.
func (s *Service) ReleaseBlock(ctx context.Context, blockID int64) (int64, error) {
	logger := s.logger(ctx).With().Int64("block_id", blockID).Logger()

	existing, err := s.db.Queries.GetBlockedSlotByID(ctx, blockID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: blocked slot %d", ErrNotFound, blockID)
	}
	if err != nil {
		return 0, fmt.Errorf("load blocked slot %d: %w", blockID, err)
	}

	unlock := s.locks.Lock(existing.SlotDate)
	defer unlock()

	var deleted int64
	err = s.db.RunInTx(ctx, func(txdb *db.DB) error {
		if _, err := txdb.Queries.GetBlockedSlotByID(ctx, blockID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: blocked slot %d", ErrNotFound, blockID)
			}
			return fmt.Errorf("load blocked slot %d: %w", blockID, err)
		}
		if err := transition(StateBlocked, StateUnblocked); err != nil {
			return err
		}

		set, err := s.engine.Release(ctx, availability.New(txdb.Queries), blockID)
		if err != nil {
			return err
		}
		n, err := txdb.Queries.DeleteDerivedBlockedSlots(ctx, sql.NullInt64{Int64: set.Root, Valid: true})
		if err != nil {
			return fmt.Errorf("delete derived blocks of %d: %w", set.Root, err)
		}
		if n != int64(len(set.Derived)) {
			return fmt.Errorf("block %d: deleted %d derived rows, expected %d", set.Root, n, len(set.Derived))
		}
		deleted += n
		n, err = txdb.Queries.DeleteBlockedSlot(ctx, set.Root)
		if err != nil {
			return fmt.Errorf("delete block %d: %w", set.Root, err)
		}
		deleted += n
		return nil
	})
	if err != nil {
		logFailure(logger, err, "release_block")
		return 0, err
	}

	logger.Info().Int64("deleted", deleted).Str("date", existing.SlotDate).Msg("Block released")
	return deleted, nil
}

// CancelBooking marks a booking cancelled and frees its slots. Members may
// cancel only their own bookings; admins must give a reason. A booking is
// cancelled at most once.
func (s *Service) CancelBooking(ctx context.Context, actor Actor, bookingID int64, reason string) (Booking, error) {
	logger := s.logger(ctx).With().Int64("booking_id", bookingID).Logger()
	reason = strings.TrimSpace(reason)
	if actor.Admin && reason == "" {
		return Booking{}, fmt.Errorf("%w: reason is required", ErrInvalidArgument)
	}

	existing, err := s.db.Queries.GetBookingByID(ctx, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return Booking{}, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
	}
	if err != nil {
		return Booking{}, fmt.Errorf("load booking %d: %w", bookingID, err)
	}

	unlock := s.locks.Lock(existing.SlotDate)
	defer unlock()

	var cancelled Booking
	err = s.db.RunInTx(ctx, func(txdb *db.DB) error {
		row, err := txdb.Queries.GetBookingByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
			}
			return fmt.Errorf("load booking %d: %w", bookingID, err)
		}
		current, err := bookingFromRow(row)
		if err != nil {
			return err
		}
		if !actor.Admin && current.UserID != actor.ID {
			return ErrNotOwner
		}
		if err := transition(current.State(), StateCancelled); err != nil {
			return fmt.Errorf("booking %d: %w", bookingID, err)
		}

		by := CancelledByUser
		if actor.Admin {
			by = CancelledByAdmin
		}
		n, err := txdb.Queries.CancelBooking(ctx, dbgen.CancelBookingParams{
			CancelledAt:        sql.NullTime{Time: s.now(), Valid: true},
			CancelledBy:        nullString(by),
			CancellationReason: nullString(reason),
			ID:                 bookingID,
		})
		if err != nil {
			return fmt.Errorf("cancel booking %d: %w", bookingID, err)
		}
		if n == 0 {
			return fmt.Errorf("booking %d: %w", bookingID, ErrAlreadyCancelled)
		}
		if _, err := txdb.Queries.DeleteSlotClaimsForBooking(ctx, sql.NullInt64{Int64: bookingID, Valid: true}); err != nil {
			return fmt.Errorf("release claims of booking %d: %w", bookingID, err)
		}

		row, err = txdb.Queries.GetBookingByID(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("reload booking %d: %w", bookingID, err)
		}
		cancelled, err = bookingFromRow(row)
		return err
	})
	if err != nil {
		logFailure(logger, err, "cancel_booking")
		return Booking{}, err
	}

	logger.Info().
		Str("cancelled_by", cancelled.CancelledBy).
		Str("date", cancelled.Date.String()).
		Msg("Booking cancelled")
	if s.notifier != nil {
		s.notifier.BookingCancelled(ctx, cancelled)
	}
	return cancelled, nil
}
