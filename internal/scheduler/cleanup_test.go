package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/codr1/mphcourts/internal/booking"
)

type recordingCleaner struct {
	mu    sync.Mutex
	calls []booking.CleanupKind
	days  []int
	err   error
}

func (r *recordingCleaner) CleanupOlderThan(_ context.Context, days int, kind booking.CleanupKind) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, kind)
	r.days = append(r.days, days)
	return 3, r.err
}

func TestRegisterCleanupJobs(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	t.Cleanup(func() { _ = svc.Stop() })

	err = svc.RegisterCleanupJobs(&recordingCleaner{},
		CleanupJob{Kind: booking.CleanupBookings, Cron: "30 3 * * *", RetentionDays: 30},
		CleanupJob{Kind: booking.CleanupBlockedSlots, Cron: "45 3 * * *", RetentionDays: 60},
	)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	names := make(map[string]bool)
	for _, job := range svc.Jobs() {
		names[job.Name()] = true
	}
	if !names["cleanup_bookings"] || !names["cleanup_blocked_slots"] {
		t.Fatalf("expected both cleanup jobs, got %v", names)
	}
}

func TestRegisterCleanupJobsRejectsBadInput(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	t.Cleanup(func() { _ = svc.Stop() })

	if err := svc.RegisterCleanupJobs(nil); err == nil {
		t.Fatalf("expected error for nil cleaner")
	}
	err = svc.RegisterCleanupJobs(&recordingCleaner{}, CleanupJob{Kind: booking.CleanupBookings, RetentionDays: 30})
	if !errors.Is(err, ErrEmptyCronExpr) {
		t.Fatalf("expected ErrEmptyCronExpr, got %v", err)
	}
}

func TestCleanupTaskCallsCleaner(t *testing.T) {
	cleaner := &recordingCleaner{}
	CleanupTask(cleaner, CleanupJob{Kind: booking.CleanupBlockedSlots, RetentionDays: 45})()

	if len(cleaner.calls) != 1 || cleaner.calls[0] != booking.CleanupBlockedSlots || cleaner.days[0] != 45 {
		t.Fatalf("unexpected calls: %v %v", cleaner.calls, cleaner.days)
	}

	failing := &recordingCleaner{err: booking.ErrInvalidArgument}
	CleanupTask(failing, CleanupJob{Kind: booking.CleanupBookings, RetentionDays: 1})()
	if len(failing.calls) != 1 {
		t.Fatalf("failing cleaner should still be called once")
	}
}

func TestNilServiceIsNotInitialized(t *testing.T) {
	var svc *Service
	if _, err := svc.AddJob("x", "* * * * *", func() {}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if err := svc.Stop(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestServiceStartStop(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	if _, err := svc.AddJob("noop", "0 3 * * *", func() {}); err != nil {
		t.Fatalf("add job: %v", err)
	}
	if got := len(svc.Jobs()); got != 1 {
		t.Fatalf("expected 1 job, got %d", got)
	}
	svc.Start()
	if err := svc.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := svc.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}
