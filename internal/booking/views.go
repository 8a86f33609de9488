package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/codr1/mphcourts/internal/availability"
	"github.com/codr1/mphcourts/internal/conflicts"
	"github.com/codr1/mphcourts/internal/courts"
	dbgen "github.com/codr1/mphcourts/internal/db/generated"
	"github.com/codr1/mphcourts/internal/slots"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type DayAvailability struct {
	Court courts.Court
	Date  slots.Date
	Hours []conflicts.HourStatus
}

// Availability reports every hour of the bookable window for one court,
// counting claims on courts that share its floor.
func (s *Service) Availability(ctx context.Context, sport courts.Sport, label string, date slots.Date) (DayAvailability, error) {
	court, err := s.resolveCourt(sport, label)
	if err != nil {
		return DayAvailability{}, err
	}
	if date.IsZero() {
		return DayAvailability{}, fmt.Errorf("%w: date is required", ErrInvalidRange)
	}
	day, err := availability.New(s.db.Queries).ListForDate(ctx, date)
	if err != nil {
		return DayAvailability{}, err
	}
	return DayAvailability{
		Court: court,
		Date:  date,
		Hours: s.engine.DayView(court, s.calendar.Window().Hours(), day),
	}, nil
}

// ActiveSlots lists the slots of one court that hold a claim of their own.
func (s *Service) ActiveSlots(ctx context.Context, sport courts.Sport, label string, date slots.Date) ([]availability.Occupancy, error) {
	court, err := s.resolveCourt(sport, label)
	if err != nil {
		return nil, err
	}
	return availability.New(s.db.Queries).ListActiveForWindow(ctx, court, date)
}

func (s *Service) GetBooking(ctx context.Context, id int64) (Booking, error) {
	row, err := s.db.Queries.GetBookingByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Booking{}, fmt.Errorf("%w: booking %d", ErrNotFound, id)
	}
	if err != nil {
		return Booking{}, fmt.Errorf("load booking %d: %w", id, err)
	}
	return bookingFromRow(row)
}

func (s *Service) ListBookingsForUser(ctx context.Context, userID int64, limit int) ([]Booking, error) {
	rows, err := s.db.Queries.ListBookingsByUser(ctx, dbgen.ListBookingsByUserParams{
		UserID: userID,
		Limit:  clampLimit(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list bookings for user %d: %w", userID, err)
	}
	return bookingsFromRows(rows)
}

// ListBookings returns the bookings of one date, or the most recent ones when
// date is zero.
func (s *Service) ListBookings(ctx context.Context, date slots.Date, limit int) ([]Booking, error) {
	var (
		rows []dbgen.Booking
		err  error
	)
	if date.IsZero() {
		rows, err = s.db.Queries.ListRecentBookings(ctx, clampLimit(limit))
	} else {
		rows, err = s.db.Queries.ListBookingsByDate(ctx, date.String())
	}
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookingsFromRows(rows)
}

// ListBlockedSlots returns the blocks of one date, or the most recent ones
// when date is zero.
func (s *Service) ListBlockedSlots(ctx context.Context, date slots.Date, limit int) ([]BlockedSlot, error) {
	var (
		rows []dbgen.BlockedSlot
		err  error
	)
	if date.IsZero() {
		rows, err = s.db.Queries.ListRecentBlockedSlots(ctx, clampLimit(limit))
	} else {
		rows, err = s.db.Queries.ListBlockedSlotsByDate(ctx, date.String())
	}
	if err != nil {
		return nil, fmt.Errorf("list blocked slots: %w", err)
	}
	return blocksFromRows(rows)
}

func clampLimit(limit int) int64 {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	}
	return int64(limit)
}
