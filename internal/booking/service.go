// Package booking drives slots through their lifecycle: member bookings,
// admin blocks, cancellation, release and age-based cleanup. Every mutation
// of the availability data goes through Service.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/mphcourts/internal/conflicts"
	"github.com/codr1/mphcourts/internal/courts"
	"github.com/codr1/mphcourts/internal/db"
	dbgen "github.com/codr1/mphcourts/internal/db/generated"
	"github.com/codr1/mphcourts/internal/slots"
)

// Notifier is told about committed bookings and cancellations. Calls happen
// after commit and must not block.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b Booking)
	BookingCancelled(ctx context.Context, b Booking)
}

type Config struct {
	DB       *db.DB
	Engine   *conflicts.Engine
	Calendar *slots.Calendar
	Notifier Notifier
	// PropagateUserBookings gives member bookings the derived claims that
	// admin blocks always get.
	PropagateUserBookings bool
}

type Service struct {
	db        *db.DB
	engine    *conflicts.Engine
	topology  *courts.Topology
	calendar  *slots.Calendar
	notifier  Notifier
	propagate bool
	locks     *dateLocks
}

func NewService(cfg Config) (*Service, error) {
	if cfg.DB == nil {
		return nil, errors.New("booking service requires a database")
	}
	if cfg.Engine == nil {
		return nil, errors.New("booking service requires a conflict engine")
	}
	if cfg.Calendar == nil {
		return nil, errors.New("booking service requires a calendar")
	}
	return &Service{
		db:        cfg.DB,
		engine:    cfg.Engine,
		topology:  cfg.Engine.Topology(),
		calendar:  cfg.Calendar,
		notifier:  cfg.Notifier,
		propagate: cfg.PropagateUserBookings,
		locks:     newDateLocks(),
	}, nil
}

func (s *Service) Topology() *courts.Topology { return s.topology }

func (s *Service) Calendar() *slots.Calendar { return s.calendar }

func (s *Service) logger(ctx context.Context) zerolog.Logger {
	return log.Ctx(ctx).With().Str("component", "booking_service").Logger()
}

func (s *Service) now() time.Time {
	return s.calendar.Now().UTC().Truncate(time.Second)
}

func (s *Service) resolveCourt(sport courts.Sport, label string) (courts.Court, error) {
	court, err := s.topology.Resolve(sport, label)
	if err != nil {
		return courts.Court{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return court, nil
}

// Quote is the server-side price of a run of hours on one court.
func Quote(court courts.Court, durationHours int) int64 {
	return court.HourlyRateCents * int64(durationHours)
}

// claimSlot records an occupied slot. A primary key collision means another
// writer got there first.
func claimSlot(ctx context.Context, q *dbgen.Queries, key slots.Key, bookingID, blockID int64, derived bool) error {
	params := dbgen.CreateSlotClaimParams{
		CourtID:  string(key.CourtID),
		SlotDate: key.Date.String(),
		Hour:     int64(key.Hour),
		Sport:    string(key.Sport),
		Derived:  derived,
	}
	if bookingID > 0 {
		params.BookingID = sql.NullInt64{Int64: bookingID, Valid: true}
	}
	if blockID > 0 {
		params.BlockID = sql.NullInt64{Int64: blockID, Valid: true}
	}
	if err := q.CreateSlotClaim(ctx, params); err != nil {
		if db.IsUniqueViolation(err) {
			return &conflicts.SlotError{Err: ErrSlotUnavailable, Slot: key}
		}
		return fmt.Errorf("claim %s: %w", key, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrAlreadyCancelled, ErrInvalidArgument, ErrNotOwner,
		ErrInvalidRange, ErrSlotUnavailable, ErrConflictingBooking, ErrAlreadyBlocked,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// logFailure logs domain rejections at Warn and everything else at Error.
func logFailure(logger zerolog.Logger, err error, op string) {
	if isDomainError(err) {
		logger.Warn().Err(err).Str("operation", op).Msg("Booking operation rejected")
		return
	}
	logger.Error().Err(err).Str("operation", op).Msg("Booking operation failed")
}
