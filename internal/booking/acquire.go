package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/codr1/mphcourts/internal/availability"
	"github.com/codr1/mphcourts/internal/conflicts"
	"github.com/codr1/mphcourts/internal/courts"
	"github.com/codr1/mphcourts/internal/db"
	dbgen "github.com/codr1/mphcourts/internal/db/generated"
	"github.com/codr1/mphcourts/internal/slots"
)

type BookingRequest struct {
	Sport         courts.Sport
	CourtLabel    string
	Date          slots.Date
	StartHour     int
	DurationHours int
	// PriceCents is the total the client was shown. When set it must match
	// the server quote.
	PriceCents *int64
}

type BlockRequest struct {
	Sport      courts.Sport
	CourtLabel string
	Date       slots.Date
	Hour       int
	// EndHour is exclusive. Zero blocks the single hour.
	EndHour int
	Reason  string
}

// AcquireBooking creates one booking covering the whole requested run, or
// nothing at all.
func (s *Service) AcquireBooking(ctx context.Context, actor Actor, req BookingRequest) (Booking, error) {
	logger := s.logger(ctx)
	court, err := s.resolveCourt(req.Sport, req.CourtLabel)
	if err != nil {
		return Booking{}, err
	}
	keys, err := s.calendar.ExpandRange(court, req.Date, req.StartHour, req.DurationHours)
	if err != nil {
		return Booking{}, err
	}
	if actor.ID <= 0 {
		return Booking{}, fmt.Errorf("%w: a signed-in member is required", ErrInvalidArgument)
	}
	price := Quote(court, req.DurationHours)
	if req.PriceCents != nil && *req.PriceCents != price {
		return Booking{}, fmt.Errorf("%w: price %d does not match quote %d", ErrInvalidArgument, *req.PriceCents, price)
	}

	unlock := s.locks.Lock(req.Date.String())
	defer unlock()

	var created Booking
	err = s.db.RunInTx(ctx, func(txdb *db.DB) error {
		store := availability.New(txdb.Queries)
		plan, err := s.engine.Acquire(ctx, store, keys, conflicts.BookingPolicy(s.propagate))
		if err != nil {
			return err
		}
		if err := holdSlots(ctx, store, plan.Primary, StateBooked); err != nil {
			return err
		}

		now := s.now()
		confirmation, err := newConfirmationNumber(now)
		if err != nil {
			return err
		}
		id, err := txdb.Queries.CreateBooking(ctx, dbgen.CreateBookingParams{
			UserID:             actor.ID,
			UserName:           actor.Name,
			UserEmail:          actor.Email,
			Sport:              string(court.Sport),
			CourtID:            string(court.ID),
			CourtLabel:         court.Label,
			SlotDate:           req.Date.String(),
			StartHour:          int64(req.StartHour),
			DurationHours:      int64(req.DurationHours),
			TotalPriceCents:    price,
			ConfirmationNumber: confirmation,
			CreatedAt:          now,
		})
		if err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		for _, key := range plan.Primary {
			if err := claimSlot(ctx, txdb.Queries, key, id, 0, false); err != nil {
				return err
			}
		}
		for _, d := range plan.Derived {
			if err := claimSlot(ctx, txdb.Queries, d.Key, id, 0, true); err != nil {
				return err
			}
		}

		row, err := txdb.Queries.GetBookingByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load booking: %w", err)
		}
		created, err = bookingFromRow(row)
		return err
	})
	if err != nil {
		logFailure(logger, err, "acquire_booking")
		return Booking{}, err
	}

	logger.Info().
		Int64("booking_id", created.ID).
		Int64("user_id", created.UserID).
		Str("court_id", string(created.CourtID)).
		Str("date", created.Date.String()).
		Int("start_hour", created.StartHour).
		Int("duration_hours", created.DurationHours).
		Str("confirmation_number", created.ConfirmationNumber).
		Msg("Booking confirmed")
	if s.notifier != nil {
		s.notifier.BookingConfirmed(ctx, created)
	}
	return created, nil
}

// AcquireBlock blocks a single hour and every free court sharing its floor.
func (s *Service) AcquireBlock(ctx context.Context, actor Actor, req BlockRequest) (BlockedSlot, error) {
	req.EndHour = req.Hour + 1
	roots, err := s.AcquireBlockRange(ctx, actor, req)
	if err != nil {
		return BlockedSlot{}, err
	}
	return roots[0], nil
}

// AcquireBlockRange creates one root block per hour from Hour up to EndHour,
// each with its own auto-blocked children. Either every hour is blocked or
// none is.
func (s *Service) AcquireBlockRange(ctx context.Context, actor Actor, req BlockRequest) ([]BlockedSlot, error) {
	logger := s.logger(ctx)
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidArgument)
	}
	court, err := s.resolveCourt(req.Sport, req.CourtLabel)
	if err != nil {
		return nil, err
	}
	endHour := req.EndHour
	if endHour == 0 {
		endHour = req.Hour + 1
	}
	keys, err := s.calendar.ExpandRange(court, req.Date, req.Hour, endHour-req.Hour)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(req.Date.String())
	defer unlock()

	var roots []BlockedSlot
	err = s.db.RunInTx(ctx, func(txdb *db.DB) error {
		store := availability.New(txdb.Queries)
		plan, err := s.engine.Acquire(ctx, store, keys, conflicts.BlockPolicy())
		if err != nil {
			return err
		}
		if err := holdSlots(ctx, store, plan.Primary, StateBlocked); err != nil {
			return err
		}

		now := s.now()
		for _, key := range plan.Primary {
			root, err := insertBlock(ctx, txdb.Queries, key, court, reason, actor, 0, now)
			if err != nil {
				return err
			}
			for _, d := range plan.DerivedFor(key) {
				childReason := fmt.Sprintf("Auto-blocked (overlaps with %s %s)", court.Sport.DisplayName(), court.Label)
				child, err := insertBlock(ctx, txdb.Queries, d.Key, d.Court, childReason, actor, root.ID, now)
				if err != nil {
					return err
				}
				root.Children = append(root.Children, child)
			}
			roots = append(roots, root)
		}
		return nil
	})
	if err != nil {
		logFailure(logger, err, "acquire_block")
		return nil, err
	}

	for _, root := range roots {
		logger.Info().
			Int64("block_id", root.ID).
			Str("court_id", string(root.CourtID)).
			Str("date", root.Date.String()).
			Int("hour", root.Hour).
			Int("derived", len(root.Children)).
			Str("created_by", actor.Email).
			Msg("Slot blocked")
	}
	return roots, nil
}

func insertBlock(ctx context.Context, q *dbgen.Queries, key slots.Key, court courts.Court, reason string, actor Actor, parentID int64, now time.Time) (BlockedSlot, error) {
	params := dbgen.CreateBlockedSlotParams{
		Sport:          string(court.Sport),
		CourtID:        string(court.ID),
		CourtLabel:     court.Label,
		SlotDate:       key.Date.String(),
		Hour:           int64(key.Hour),
		Reason:         reason,
		CreatedByName:  actor.Name,
		CreatedByEmail: actor.Email,
		AutoBlocked:    parentID > 0,
		CreatedAt:      now,
	}
	if parentID > 0 {
		params.ParentBlockID = sql.NullInt64{Int64: parentID, Valid: true}
	}
	id, err := q.CreateBlockedSlot(ctx, params)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return BlockedSlot{}, &conflicts.SlotError{Err: ErrSlotUnavailable, Slot: key}
		}
		return BlockedSlot{}, fmt.Errorf("create blocked slot %s: %w", key, err)
	}
	if err := claimSlot(ctx, q, key, 0, id, parentID > 0); err != nil {
		return BlockedSlot{}, err
	}
	row, err := q.GetBlockedSlotByID(ctx, id)
	if err != nil {
		return BlockedSlot{}, fmt.Errorf("load blocked slot %d: %w", id, err)
	}
	return blockFromRow(row)
}
