package availability

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/codr1/mphcourts/internal/courts"
	dbgen "github.com/codr1/mphcourts/internal/db/generated"
	"github.com/codr1/mphcourts/internal/slots"
	"github.com/codr1/mphcourts/internal/testutil"
)

func TestLookup(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	store := New(database.Queries)
	date := slots.MustParseDate("2025-06-01")

	key := slots.Key{Sport: courts.Badminton, CourtID: "badminton-1", Date: date, Hour: 10}
	occ, err := store.Lookup(ctx, key)
	if err != nil {
		t.Fatalf("lookup free slot: %v", err)
	}
	if !occ.IsFree() {
		t.Fatalf("expected free, got %s", occ.State)
	}

	bookingID, err := database.Queries.CreateBooking(ctx, dbgen.CreateBookingParams{
		UserID:             7,
		Sport:              "badminton",
		CourtID:            "badminton-1",
		CourtLabel:         "Court 1",
		SlotDate:           date.String(),
		StartHour:          10,
		DurationHours:      1,
		TotalPriceCents:    1500,
		ConfirmationNumber: "MPHTEST1",
		CreatedAt:          time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if err := database.Queries.CreateSlotClaim(ctx, dbgen.CreateSlotClaimParams{
		CourtID:   "badminton-1",
		SlotDate:  date.String(),
		Hour:      10,
		Sport:     "badminton",
		BookingID: sql.NullInt64{Int64: bookingID, Valid: true},
	}); err != nil {
		t.Fatalf("create claim: %v", err)
	}

	occ, err = store.Lookup(ctx, key)
	if err != nil {
		t.Fatalf("lookup booked slot: %v", err)
	}
	if occ.State != Booked || occ.BookingID != bookingID || occ.Derived {
		t.Fatalf("unexpected occupancy: %+v", occ)
	}
	if occ.Key != key {
		t.Fatalf("key: got %v want %v", occ.Key, key)
	}

	other, err := store.Lookup(ctx, slots.Key{Sport: courts.Badminton, CourtID: "badminton-3", Date: date, Hour: 10})
	if err != nil {
		t.Fatalf("lookup other court: %v", err)
	}
	if !other.IsFree() {
		t.Fatalf("badminton-3 must stay free")
	}
}

func TestListActiveForWindowExcludesReleasedClaims(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	store := New(database.Queries)
	date := slots.MustParseDate("2025-06-01")
	court := courts.Court{ID: "volleyball-half-1", Sport: courts.Volleyball, Label: "Court 1 (Courts 1-2)"}

	var blockIDs []int64
	for _, hour := range []int64{12, 9} {
		id, err := database.Queries.CreateBlockedSlot(ctx, dbgen.CreateBlockedSlotParams{
			Sport:          "volleyball",
			CourtID:        string(court.ID),
			CourtLabel:     court.Label,
			SlotDate:       date.String(),
			Hour:           hour,
			Reason:         "Tournament",
			CreatedByName:  "Admin",
			CreatedByEmail: "admin@example.com",
			CreatedAt:      time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("create block: %v", err)
		}
		if err := database.Queries.CreateSlotClaim(ctx, dbgen.CreateSlotClaimParams{
			CourtID:  string(court.ID),
			SlotDate: date.String(),
			Hour:     hour,
			Sport:    "volleyball",
			BlockID:  sql.NullInt64{Int64: id, Valid: true},
		}); err != nil {
			t.Fatalf("create claim: %v", err)
		}
		blockIDs = append(blockIDs, id)
	}

	active, err := store.ListActiveForWindow(ctx, court, date)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 || active[0].Key.Hour != 9 || active[1].Key.Hour != 12 {
		t.Fatalf("expected hours 9 and 12 in order, got %+v", active)
	}
	for _, occ := range active {
		if occ.State != Blocked {
			t.Fatalf("expected blocked, got %s", occ.State)
		}
	}

	if _, err := database.Queries.DeleteBlockedSlot(ctx, blockIDs[0]); err != nil {
		t.Fatalf("delete block: %v", err)
	}
	active, err = store.ListActiveForWindow(ctx, court, date)
	if err != nil {
		t.Fatalf("list active after delete: %v", err)
	}
	if len(active) != 1 || active[0].Key.Hour != 9 {
		t.Fatalf("expected only hour 9, got %+v", active)
	}

	day, err := store.ListForDate(ctx, date)
	if err != nil {
		t.Fatalf("list for date: %v", err)
	}
	if len(day) != 1 {
		t.Fatalf("expected one claim for the day, got %d", len(day))
	}
}
