package booking

import (
	"fmt"
	"time"

	"github.com/codr1/mphcourts/internal/courts"
	dbgen "github.com/codr1/mphcourts/internal/db/generated"
	"github.com/codr1/mphcourts/internal/slots"
)

const (
	CancelledByUser  = "User"
	CancelledByAdmin = "Admin"
)

// Actor is whoever performs an operation. It stamps rows; only cancellation
// checks it.
type Actor struct {
	ID    int64
	Name  string
	Email string
	Admin bool
}

type Booking struct {
	ID                 int64
	UserID             int64
	UserName           string
	UserEmail          string
	Sport              courts.Sport
	CourtID            courts.ID
	CourtLabel         string
	Date               slots.Date
	StartHour          int
	DurationHours      int
	TotalPriceCents    int64
	ConfirmationNumber string
	Cancelled          bool
	CancelledAt        *time.Time
	CancelledBy        string
	CancellationReason string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (b Booking) State() State {
	if b.Cancelled {
		return StateCancelled
	}
	return StateBooked
}

// EndHour is exclusive.
func (b Booking) EndHour() int { return b.StartHour + b.DurationHours }

type BlockedSlot struct {
	ID             int64
	Sport          courts.Sport
	CourtID        courts.ID
	CourtLabel     string
	Date           slots.Date
	Hour           int
	Reason         string
	CreatedByName  string
	CreatedByEmail string
	AutoBlocked    bool
	ParentBlockID  *int64
	CreatedAt      time.Time
	// Children holds the rows derived from a root by the acquire that
	// created it.
	Children []BlockedSlot
}

func bookingFromRow(row dbgen.Booking) (Booking, error) {
	date, err := slots.ParseDate(row.SlotDate)
	if err != nil {
		return Booking{}, fmt.Errorf("booking %d: %w", row.ID, err)
	}
	b := Booking{
		ID:                 row.ID,
		UserID:             row.UserID,
		UserName:           row.UserName,
		UserEmail:          row.UserEmail,
		Sport:              courts.Sport(row.Sport),
		CourtID:            courts.ID(row.CourtID),
		CourtLabel:         row.CourtLabel,
		Date:               date,
		StartHour:          int(row.StartHour),
		DurationHours:      int(row.DurationHours),
		TotalPriceCents:    row.TotalPriceCents,
		ConfirmationNumber: row.ConfirmationNumber,
		Cancelled:          row.Cancelled,
		CancelledBy:        row.CancelledBy.String,
		CancellationReason: row.CancellationReason.String,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
	if row.CancelledAt.Valid {
		at := row.CancelledAt.Time
		b.CancelledAt = &at
	}
	return b, nil
}

func bookingsFromRows(rows []dbgen.Booking) ([]Booking, error) {
	out := make([]Booking, 0, len(rows))
	for _, row := range rows {
		b, err := bookingFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func blockFromRow(row dbgen.BlockedSlot) (BlockedSlot, error) {
	date, err := slots.ParseDate(row.SlotDate)
	if err != nil {
		return BlockedSlot{}, fmt.Errorf("blocked slot %d: %w", row.ID, err)
	}
	b := BlockedSlot{
		ID:             row.ID,
		Sport:          courts.Sport(row.Sport),
		CourtID:        courts.ID(row.CourtID),
		CourtLabel:     row.CourtLabel,
		Date:           date,
		Hour:           int(row.Hour),
		Reason:         row.Reason,
		CreatedByName:  row.CreatedByName,
		CreatedByEmail: row.CreatedByEmail,
		AutoBlocked:    row.AutoBlocked,
		CreatedAt:      row.CreatedAt,
	}
	if row.ParentBlockID.Valid {
		parent := row.ParentBlockID.Int64
		b.ParentBlockID = &parent
	}
	return b, nil
}

func blocksFromRows(rows []dbgen.BlockedSlot) ([]BlockedSlot, error) {
	out := make([]BlockedSlot, 0, len(rows))
	for _, row := range rows {
		b, err := blockFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
