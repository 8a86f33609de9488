package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/codr1/mphcourts/internal/availability"
	"github.com/codr1/mphcourts/internal/conflicts"
	"github.com/codr1/mphcourts/internal/courts"
	"github.com/codr1/mphcourts/internal/db"
	"github.com/codr1/mphcourts/internal/slots"
	"github.com/codr1/mphcourts/internal/testutil"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []Booking
	cancelled []Booking
}

func (n *recordingNotifier) BookingConfirmed(_ context.Context, b Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, b)
}

func (n *recordingNotifier) BookingCancelled(_ context.Context, b Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, b)
}

type fixture struct {
	svc      *Service
	db       *db.DB
	clock    *testClock
	notifier *recordingNotifier
}

var (
	scenarioDate = slots.MustParseDate("2025-06-01")
	member       = Actor{ID: 1, Name: "Aoife Member", Email: "aoife@example.com"}
	otherMember  = Actor{ID: 2, Name: "Ciaran Member", Email: "ciaran@example.com"}
	admin        = Actor{ID: 99, Name: "Hall Admin", Email: "admin@example.com", Admin: true}
)

func newFixture(t *testing.T, propagate bool) *fixture {
	t.Helper()

	topo, err := courts.Default()
	if err != nil {
		t.Fatalf("load topology: %v", err)
	}
	loc, err := time.LoadLocation("Europe/Dublin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	clock := &testClock{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	cal, err := slots.NewCalendar(slots.Window{OpenHour: 8, CloseHour: 22}, loc, clock)
	if err != nil {
		t.Fatalf("new calendar: %v", err)
	}

	database := testutil.NewTestDB(t)
	notifier := &recordingNotifier{}
	svc, err := NewService(Config{
		DB:                    database,
		Engine:                conflicts.NewEngine(topo),
		Calendar:              cal,
		Notifier:              notifier,
		PropagateUserBookings: propagate,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{svc: svc, db: database, clock: clock, notifier: notifier}
}

func (f *fixture) book(t *testing.T, actor Actor, sport courts.Sport, label string, date slots.Date, start, duration int) Booking {
	t.Helper()
	b, err := f.svc.AcquireBooking(context.Background(), actor, BookingRequest{
		Sport:         sport,
		CourtLabel:    label,
		Date:          date,
		StartHour:     start,
		DurationHours: duration,
	})
	if err != nil {
		t.Fatalf("book %s %s %s %d+%d: %v", sport, label, date, start, duration, err)
	}
	return b
}

func (f *fixture) block(t *testing.T, sport courts.Sport, label string, date slots.Date, hour int) BlockedSlot {
	t.Helper()
	b, err := f.svc.AcquireBlock(context.Background(), admin, BlockRequest{
		Sport:      sport,
		CourtLabel: label,
		Date:       date,
		Hour:       hour,
		Reason:     "Maintenance",
	})
	if err != nil {
		t.Fatalf("block %s %s %s %d: %v", sport, label, date, hour, err)
	}
	return b
}

func (f *fixture) hourState(t *testing.T, sport courts.Sport, label string, date slots.Date, hour int) availability.State {
	t.Helper()
	day, err := f.svc.Availability(context.Background(), sport, label, date)
	if err != nil {
		t.Fatalf("availability %s %s: %v", sport, label, err)
	}
	for _, h := range day.Hours {
		if h.Hour == hour {
			return h.State
		}
	}
	t.Fatalf("hour %d not in window", hour)
	return availability.Free
}

func (f *fixture) blockCount(t *testing.T, date slots.Date) int {
	t.Helper()
	rows, err := f.svc.ListBlockedSlots(context.Background(), date, 0)
	if err != nil {
		t.Fatalf("list blocked slots: %v", err)
	}
	return len(rows)
}

func TestHalfCourtMaintenanceScenario(t *testing.T) {
	f := newFixture(t, false)

	root := f.block(t, courts.Basketball, "Half Court 1 (Courts 1-2)", scenarioDate, 18)
	if root.AutoBlocked || root.ParentBlockID != nil {
		t.Fatalf("root must not be auto-blocked: %+v", root)
	}
	if root.Reason != "Maintenance" || root.CreatedByEmail != admin.Email {
		t.Fatalf("root not stamped: %+v", root)
	}

	want := map[courts.ID]bool{
		"basketball-full":   true,
		"badminton-1":       true,
		"badminton-2":       true,
		"volleyball-half-1": true,
	}
	if len(root.Children) != len(want) {
		t.Fatalf("children: got %d want %d", len(root.Children), len(want))
	}
	for _, child := range root.Children {
		if !want[child.CourtID] {
			t.Fatalf("unexpected child on %s", child.CourtID)
		}
		if !child.AutoBlocked || child.ParentBlockID == nil || *child.ParentBlockID != root.ID {
			t.Fatalf("child %s not owned by root: %+v", child.CourtID, child)
		}
		if child.Date != scenarioDate || child.Hour != 18 {
			t.Fatalf("child %s on wrong slot: %s %d", child.CourtID, child.Date, child.Hour)
		}
		if child.Reason != "Auto-blocked (overlaps with Basketball Half Court 1 (Courts 1-2))" {
			t.Fatalf("child reason: %q", child.Reason)
		}
	}

	if got := f.blockCount(t, scenarioDate); got != 5 {
		t.Fatalf("blocked rows: got %d want 5", got)
	}
	for _, c := range []struct {
		sport courts.Sport
		label string
		state availability.State
	}{
		{courts.Badminton, "Court 1", availability.Blocked},
		{courts.Badminton, "Court 2", availability.Blocked},
		{courts.Volleyball, "Court 1 (Courts 1-2)", availability.Blocked},
		{courts.Basketball, "Full Court", availability.Blocked},
		{courts.Badminton, "Court 3", availability.Free},
		{courts.Basketball, "Half Court 2", availability.Free},
	} {
		if got := f.hourState(t, c.sport, c.label, scenarioDate, 18); got != c.state {
			t.Fatalf("%s %s at 18: got %s want %s", c.sport, c.label, got, c.state)
		}
	}
}

func TestFullCourtBookingMakesOverlapsUnavailable(t *testing.T) {
	f := newFixture(t, false)
	f.book(t, member, courts.Basketball, "Full Court (Courts 1-4)", scenarioDate, 18, 1)

	for _, c := range []struct {
		sport courts.Sport
		label string
	}{
		{courts.Badminton, "Court 1"},
		{courts.Badminton, "Court 2"},
		{courts.Badminton, "Court 3"},
		{courts.Badminton, "Court 4"},
		{courts.Volleyball, "Court 1 (Courts 1-2)"},
		{courts.Volleyball, "Court 2 (Courts 3-4)"},
	} {
		if got := f.hourState(t, c.sport, c.label, scenarioDate, 18); got != availability.Booked {
			t.Fatalf("%s %s at 18: got %s want booked", c.sport, c.label, got)
		}
		_, err := f.svc.AcquireBooking(context.Background(), otherMember, BookingRequest{
			Sport: c.sport, CourtLabel: c.label, Date: scenarioDate, StartHour: 18, DurationHours: 1,
		})
		if !errors.Is(err, ErrConflictingBooking) {
			t.Fatalf("%s %s: expected ErrConflictingBooking, got %v", c.sport, c.label, err)
		}
	}
	if got := f.hourState(t, courts.Badminton, "Court 1", scenarioDate, 17); got != availability.Free {
		t.Fatalf("17:00 must stay free, got %s", got)
	}
}

func TestBadmintonBookingLeavesOtherSideFree(t *testing.T) {
	f := newFixture(t, false)
	f.book(t, member, courts.Badminton, "Court 1", scenarioDate, 10, 1)

	if got := f.hourState(t, courts.Badminton, "Court 3", scenarioDate, 10); got != availability.Free {
		t.Fatalf("badminton-3 must stay free, got %s", got)
	}
	f.book(t, otherMember, courts.Badminton, "Court 3", scenarioDate, 10, 1)
	f.book(t, otherMember, courts.Badminton, "Court 2", scenarioDate, 10, 1)
}

func TestConcurrentAcquireSameSlot(t *testing.T) {
	f := newFixture(t, false)
	const attempts = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := f.svc.AcquireBooking(context.Background(), Actor{ID: userID, Name: "Racer"}, BookingRequest{
				Sport: courts.Badminton, CourtLabel: "Court 2", Date: scenarioDate, StartHour: 12, DurationHours: 1,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}(int64(i + 1))
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one success, got %d (failures: %v)", successes, failures)
	}
	for _, err := range failures {
		if !errors.Is(err, ErrSlotUnavailable) {
			t.Fatalf("loser must get ErrSlotUnavailable, got %v", err)
		}
	}
}

func TestConcurrentOverlappingAcquire(t *testing.T) {
	f := newFixture(t, false)

	requests := []BookingRequest{
		{Sport: courts.Basketball, CourtLabel: "Full Court", Date: scenarioDate, StartHour: 20, DurationHours: 1},
		{Sport: courts.Basketball, CourtLabel: "Half Court 2", Date: scenarioDate, StartHour: 20, DurationHours: 1},
		{Sport: courts.Volleyball, CourtLabel: "Court 2", Date: scenarioDate, StartHour: 20, DurationHours: 1},
		{Sport: courts.Badminton, CourtLabel: "Court 4", Date: scenarioDate, StartHour: 20, DurationHours: 1},
	}
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i, req := range requests {
		wg.Add(1)
		go func(userID int64, req BookingRequest) {
			defer wg.Done()
			if _, err := f.svc.AcquireBooking(context.Background(), Actor{ID: userID}, req); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(int64(i+1), req)
	}
	wg.Wait()

	// Every pair of these courts shares floor space.
	if successes != 1 {
		t.Fatalf("expected exactly one of the overlapping bookings to win, got %d", successes)
	}
}

func TestCancelBookingIsIdempotent(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.book(t, member, courts.Badminton, "Court 4", scenarioDate, 15, 2)

	cancelled, err := f.svc.CancelBooking(ctx, member, b.ID, "")
	if err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if !cancelled.Cancelled || cancelled.CancelledBy != CancelledByUser || cancelled.CancelledAt == nil {
		t.Fatalf("cancel not recorded: %+v", cancelled)
	}
	if cancelled.State() != StateCancelled {
		t.Fatalf("state: %s", cancelled.State())
	}

	_, err = f.svc.CancelBooking(ctx, member, b.ID, "")
	if !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("second cancel: expected ErrAlreadyCancelled, got %v", err)
	}

	after, err := f.svc.GetBooking(ctx, b.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if !after.Cancelled || !after.CancelledAt.Equal(*cancelled.CancelledAt) || after.CancelledBy != cancelled.CancelledBy {
		t.Fatalf("second cancel changed state: %+v vs %+v", after, cancelled)
	}

	// The freed hours can be booked again.
	f.book(t, otherMember, courts.Badminton, "Court 4", scenarioDate, 16, 1)

	if len(f.notifier.cancelled) != 1 {
		t.Fatalf("expected one cancellation notice, got %d", len(f.notifier.cancelled))
	}
}

func TestCancelBookingActors(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.book(t, member, courts.Volleyball, "Court 2", scenarioDate, 9, 1)

	if _, err := f.svc.CancelBooking(ctx, otherMember, b.ID, ""); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := f.svc.CancelBooking(ctx, admin, b.ID, "  "); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected admin reason to be required, got %v", err)
	}
	if _, err := f.svc.CancelBooking(ctx, admin, 4242, "Storm"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	cancelled, err := f.svc.CancelBooking(ctx, admin, b.ID, "Roof leak")
	if err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
	if cancelled.CancelledBy != CancelledByAdmin || cancelled.CancellationReason != "Roof leak" {
		t.Fatalf("admin cancel not stamped: %+v", cancelled)
	}
}

func TestReleaseBlockRemovesOnlyItsChildren(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	first := f.block(t, courts.Basketball, "Half Court 1", scenarioDate, 18)
	// The full court already carries a derived block from the first root, so
	// this one only derives half court 2 and volleyball court 2.
	second := f.block(t, courts.Badminton, "Court 3", scenarioDate, 18)
	if len(second.Children) != 2 {
		t.Fatalf("second block children: got %d want 2", len(second.Children))
	}
	if got := f.blockCount(t, scenarioDate); got != 8 {
		t.Fatalf("blocked rows before release: got %d want 8", got)
	}

	deleted, err := f.svc.ReleaseBlock(ctx, first.ID)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if deleted != int64(1+len(first.Children)) {
		t.Fatalf("deleted: got %d want %d", deleted, 1+len(first.Children))
	}
	if got := f.blockCount(t, scenarioDate); got != 3 {
		t.Fatalf("blocked rows after release: got %d want 3", got)
	}
	if got := f.hourState(t, courts.Badminton, "Court 1", scenarioDate, 18); got != availability.Free {
		t.Fatalf("badminton-1 should be free again, got %s", got)
	}
	// The full court lost its derived row but still overlaps the second root.
	if got := f.hourState(t, courts.Basketball, "Full Court", scenarioDate, 18); got != availability.Blocked {
		t.Fatalf("full court should still be blocked via badminton-3, got %s", got)
	}

	if _, err := f.svc.ReleaseBlock(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second release: expected ErrNotFound, got %v", err)
	}
}

func TestReleaseDerivedBlockLeavesSiblings(t *testing.T) {
	f := newFixture(t, false)
	root := f.block(t, courts.Basketball, "Half Court 2", scenarioDate, 11)

	deleted, err := f.svc.ReleaseBlock(context.Background(), root.Children[0].ID)
	if err != nil {
		t.Fatalf("release child: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted: got %d want 1", deleted)
	}
	if got := f.blockCount(t, scenarioDate); got != len(root.Children) {
		t.Fatalf("remaining rows: got %d want %d", got, len(root.Children))
	}
}

func TestNoPartialMultiHourCommit(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	f.book(t, otherMember, courts.Badminton, "Court 1", scenarioDate, 11, 1)

	_, err := f.svc.AcquireBooking(ctx, member, BookingRequest{
		Sport: courts.Badminton, CourtLabel: "Court 1", Date: scenarioDate, StartHour: 10, DurationHours: 3,
	})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
	var slotErr *conflicts.SlotError
	if !errors.As(err, &slotErr) || slotErr.Slot.Hour != 11 {
		t.Fatalf("expected error naming hour 11, got %v", err)
	}

	for _, hour := range []int{10, 12} {
		if got := f.hourState(t, courts.Badminton, "Court 1", scenarioDate, hour); got != availability.Free {
			t.Fatalf("hour %d: got %s want free", hour, got)
		}
	}
	mine, err := f.svc.ListBookingsForUser(ctx, member.ID, 0)
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("failed acquire left %d bookings", len(mine))
	}
}

func TestAcquireBlockFailuresWriteNothing(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	f.book(t, member, courts.Badminton, "Court 2", scenarioDate, 14, 1)
	f.block(t, courts.Badminton, "Court 4", scenarioDate, 14)
	before := f.blockCount(t, scenarioDate)

	tests := []struct {
		name    string
		req     BlockRequest
		wantErr error
	}{
		{
			name:    "overlapping booking",
			req:     BlockRequest{Sport: courts.Basketball, CourtLabel: "Half Court 1", Date: scenarioDate, Hour: 14, Reason: "Event"},
			wantErr: ErrConflictingBooking,
		},
		{
			name:    "already blocked",
			req:     BlockRequest{Sport: courts.Badminton, CourtLabel: "Court 4", Date: scenarioDate, Hour: 14, Reason: "Event"},
			wantErr: ErrAlreadyBlocked,
		},
		{
			name:    "booked primary",
			req:     BlockRequest{Sport: courts.Badminton, CourtLabel: "Court 2", Date: scenarioDate, Hour: 14, Reason: "Event"},
			wantErr: ErrConflictingBooking,
		},
		{
			name:    "missing reason",
			req:     BlockRequest{Sport: courts.Badminton, CourtLabel: "Court 3", Date: scenarioDate, Hour: 9},
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "range crossing a booking",
			req:     BlockRequest{Sport: courts.Volleyball, CourtLabel: "Court 1", Date: scenarioDate, Hour: 12, EndHour: 16, Reason: "League"},
			wantErr: ErrConflictingBooking,
		},
		{
			name:    "outside window",
			req:     BlockRequest{Sport: courts.Badminton, CourtLabel: "Court 3", Date: scenarioDate, Hour: 22, Reason: "Late"},
			wantErr: ErrInvalidRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AcquireBlockRange(ctx, admin, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if got := f.blockCount(t, scenarioDate); got != before {
				t.Fatalf("failed block changed rows: %d -> %d", before, got)
			}
		})
	}
}

func TestAcquireBlockRange(t *testing.T) {
	f := newFixture(t, false)
	roots, err := f.svc.AcquireBlockRange(context.Background(), admin, BlockRequest{
		Sport: courts.Volleyball, CourtLabel: "Court 2 (Courts 3-4)", Date: scenarioDate, Hour: 19, EndHour: 22, Reason: "League night",
	})
	if err != nil {
		t.Fatalf("block range: %v", err)
	}
	if len(roots) != 3 {
		t.Fatalf("roots: got %d want 3", len(roots))
	}
	for i, root := range roots {
		if root.Hour != 19+i {
			t.Fatalf("root %d hour: got %d", i, root.Hour)
		}
		if len(root.Children) != 4 {
			t.Fatalf("root %d children: got %d want 4", i, len(root.Children))
		}
	}
	if got := f.blockCount(t, scenarioDate); got != 15 {
		t.Fatalf("blocked rows: got %d want 15", got)
	}
}

func TestAcquireBookingValidation(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	wrongPrice := int64(100)
	rightPrice := int64(3000)

	tests := []struct {
		name    string
		actor   Actor
		req     BookingRequest
		wantErr error
	}{
		{"past date", member, BookingRequest{Sport: courts.Badminton, CourtLabel: "Court 1", Date: slots.MustParseDate("2025-05-31"), StartHour: 10, DurationHours: 1}, ErrInvalidRange},
		{"zero duration", member, BookingRequest{Sport: courts.Badminton, CourtLabel: "Court 1", Date: scenarioDate, StartHour: 10}, ErrInvalidRange},
		{"past closing", member, BookingRequest{Sport: courts.Badminton, CourtLabel: "Court 1", Date: scenarioDate, StartHour: 21, DurationHours: 2}, ErrInvalidRange},
		{"unknown court", member, BookingRequest{Sport: courts.Badminton, CourtLabel: "Court 9", Date: scenarioDate, StartHour: 10, DurationHours: 1}, courts.ErrCourtNotFound},
		{"price mismatch", member, BookingRequest{Sport: courts.Badminton, CourtLabel: "Court 1", Date: scenarioDate, StartHour: 10, DurationHours: 2, PriceCents: &wrongPrice}, ErrInvalidArgument},
		{"anonymous", Actor{}, BookingRequest{Sport: courts.Badminton, CourtLabel: "Court 1", Date: scenarioDate, StartHour: 10, DurationHours: 1}, ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.AcquireBooking(ctx, tt.actor, tt.req); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	b, err := f.svc.AcquireBooking(ctx, member, BookingRequest{
		Sport: courts.Badminton, CourtLabel: "Court 1", Date: scenarioDate, StartHour: 10, DurationHours: 2, PriceCents: &rightPrice,
	})
	if err != nil {
		t.Fatalf("book with matching price: %v", err)
	}
	if b.TotalPriceCents != rightPrice || b.EndHour() != 12 {
		t.Fatalf("unexpected booking: %+v", b)
	}
	if len(f.notifier.confirmed) != 1 || f.notifier.confirmed[0].ID != b.ID {
		t.Fatalf("expected one confirmation notice")
	}
}

func TestPropagatedUserBookingsClaimOverlaps(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	b := f.book(t, member, courts.Basketball, "Half Court 1", scenarioDate, 18, 1)

	active, err := f.svc.ActiveSlots(ctx, courts.Badminton, "Court 1", scenarioDate)
	if err != nil {
		t.Fatalf("active slots: %v", err)
	}
	if len(active) != 1 || active[0].State != availability.Booked || !active[0].Derived || active[0].BookingID != b.ID {
		t.Fatalf("expected derived booking claim on badminton-1, got %+v", active)
	}

	// Derived claims of one booking never block a court that only shares
	// floor with the claimed shadow.
	f.book(t, otherMember, courts.Badminton, "Court 3", scenarioDate, 18, 1)

	if _, err := f.svc.CancelBooking(ctx, member, b.ID, "Changed plans"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	active, err = f.svc.ActiveSlots(ctx, courts.Badminton, "Court 1", scenarioDate)
	if err != nil {
		t.Fatalf("active slots after cancel: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("cancel must release derived claims, got %+v", active)
	}
}

func TestCleanupOlderThan(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	later := slots.MustParseDate("2025-06-02")

	if _, err := f.svc.CleanupOlderThan(ctx, 3, CleanupBookings); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument below the floor, got %v", err)
	}
	if _, err := f.svc.CleanupOlderThan(ctx, 30, CleanupKind("users")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for unknown kind, got %v", err)
	}

	old := f.book(t, member, courts.Badminton, "Court 1", later, 9, 1)
	recent := f.book(t, member, courts.Badminton, "Court 2", later, 9, 1)
	active := f.book(t, member, courts.Badminton, "Court 3", later, 9, 1)
	if _, err := f.svc.CancelBooking(ctx, member, old.ID, ""); err != nil {
		t.Fatalf("cancel old: %v", err)
	}
	oldBlock := f.block(t, courts.Badminton, "Court 4", later, 12)

	f.clock.Set(time.Date(2025, 7, 5, 8, 0, 0, 0, time.UTC))
	if _, err := f.svc.CancelBooking(ctx, member, recent.ID, ""); err != nil {
		t.Fatalf("cancel recent: %v", err)
	}
	f.block(t, courts.Badminton, "Court 4", slots.MustParseDate("2025-07-10"), 12)

	deleted, err := f.svc.CleanupOlderThan(ctx, 30, CleanupBookings)
	if err != nil {
		t.Fatalf("cleanup bookings: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted bookings: got %d want 1", deleted)
	}
	if _, err := f.svc.GetBooking(ctx, old.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old cancelled booking should be gone, got %v", err)
	}
	for _, id := range []int64{recent.ID, active.ID} {
		if _, err := f.svc.GetBooking(ctx, id); err != nil {
			t.Fatalf("booking %d should remain: %v", id, err)
		}
	}

	deleted, err = f.svc.CleanupOlderThan(ctx, 30, CleanupBlockedSlots)
	if err != nil {
		t.Fatalf("cleanup blocked slots: %v", err)
	}
	if deleted != int64(1+len(oldBlock.Children)) {
		t.Fatalf("deleted blocks: got %d want %d", deleted, 1+len(oldBlock.Children))
	}
	if got := f.blockCount(t, slots.MustParseDate("2025-07-10")); got == 0 {
		t.Fatalf("future blocks must survive cleanup")
	}
}
