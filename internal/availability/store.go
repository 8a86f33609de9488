// Package availability answers whether a slot is free by reading the claims
// that active bookings and blocks hold on (court, date, hour).
package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/codr1/mphcourts/internal/courts"
	dbgen "github.com/codr1/mphcourts/internal/db/generated"
	"github.com/codr1/mphcourts/internal/slots"
)

type State int

const (
	Free State = iota
	Booked
	Blocked
)

func (s State) String() string {
	switch s {
	case Booked:
		return "booked"
	case Blocked:
		return "blocked"
	default:
		return "free"
	}
}

// Occupancy is the result of a lookup. BookingID is set for Booked, BlockID
// for Blocked. Derived marks a claim made by propagation rather than by a
// direct request.
type Occupancy struct {
	Key       slots.Key
	State     State
	BookingID int64
	BlockID   int64
	Derived   bool
}

func (o Occupancy) IsFree() bool { return o.State == Free }

// Store reads claims through whatever DBTX the queries are bound to. Bind it
// to the write transaction to read that transaction's own writes.
type Store struct {
	queries *dbgen.Queries
}

func New(queries *dbgen.Queries) *Store {
	return &Store{queries: queries}
}

// Lookup returns the occupancy of a single slot.
func (s *Store) Lookup(ctx context.Context, key slots.Key) (Occupancy, error) {
	claim, err := s.queries.GetSlotClaim(ctx, dbgen.GetSlotClaimParams{
		CourtID:  string(key.CourtID),
		SlotDate: key.Date.String(),
		Hour:     int64(key.Hour),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Occupancy{Key: key, State: Free}, nil
	}
	if err != nil {
		return Occupancy{}, fmt.Errorf("lookup %s: %w", key, err)
	}
	return fromClaim(claim)
}

// ListActiveForWindow returns every non-free slot of one court on one day,
// ordered by hour. Cancelled bookings hold no claims so they never appear.
func (s *Store) ListActiveForWindow(ctx context.Context, court courts.Court, date slots.Date) ([]Occupancy, error) {
	claims, err := s.queries.ListSlotClaimsByCourtDate(ctx, dbgen.ListSlotClaimsByCourtDateParams{
		CourtID:  string(court.ID),
		SlotDate: date.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("list claims for %s on %s: %w", court.ID, date, err)
	}
	return fromClaims(claims)
}

// ListForDate returns every active claim of the day across all courts.
func (s *Store) ListForDate(ctx context.Context, date slots.Date) ([]Occupancy, error) {
	claims, err := s.queries.ListSlotClaimsByDate(ctx, date.String())
	if err != nil {
		return nil, fmt.Errorf("list claims on %s: %w", date, err)
	}
	return fromClaims(claims)
}

func fromClaims(claims []dbgen.SlotClaim) ([]Occupancy, error) {
	out := make([]Occupancy, 0, len(claims))
	for _, claim := range claims {
		occ, err := fromClaim(claim)
		if err != nil {
			return nil, err
		}
		out = append(out, occ)
	}
	return out, nil
}

func fromClaim(claim dbgen.SlotClaim) (Occupancy, error) {
	date, err := slots.ParseDate(claim.SlotDate)
	if err != nil {
		return Occupancy{}, fmt.Errorf("claim on %s: %w", claim.CourtID, err)
	}
	occ := Occupancy{
		Key: slots.Key{
			Sport:   courts.Sport(claim.Sport),
			CourtID: courts.ID(claim.CourtID),
			Date:    date,
			Hour:    int(claim.Hour),
		},
		Derived: claim.Derived,
	}
	switch {
	case claim.BookingID.Valid:
		occ.State = Booked
		occ.BookingID = claim.BookingID.Int64
	case claim.BlockID.Valid:
		occ.State = Blocked
		occ.BlockID = claim.BlockID.Int64
	default:
		return Occupancy{}, fmt.Errorf("claim on %s %s %d has no owner", claim.CourtID, claim.SlotDate, claim.Hour)
	}
	return occ, nil
}

// DerivedBlocks returns the ids of the auto-blocked rows owned by rootID.
func (s *Store) DerivedBlocks(ctx context.Context, rootID int64) ([]int64, error) {
	rows, err := s.queries.ListBlockedSlotsByParent(ctx, sql.NullInt64{Int64: rootID, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("list derived blocks of %d: %w", rootID, err)
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		if row.AutoBlocked {
			ids = append(ids, row.ID)
		}
	}
	return ids, nil
}
