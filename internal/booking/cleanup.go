package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/codr1/mphcourts/internal/db"
	"github.com/codr1/mphcourts/internal/slots"
)

// MinCleanupDays guards against purging recent history by mistake.
const MinCleanupDays = 7

type CleanupKind string

const (
	CleanupBookings     CleanupKind = "bookings"
	CleanupBlockedSlots CleanupKind = "blocked_slots"
)

func ParseCleanupKind(raw string) (CleanupKind, error) {
	switch CleanupKind(raw) {
	case CleanupBookings:
		return CleanupBookings, nil
	case CleanupBlockedSlots:
		return CleanupBlockedSlots, nil
	}
	return "", fmt.Errorf("%w: unknown cleanup kind %q", ErrInvalidArgument, raw)
}

// CleanupOlderThan purges cancelled bookings whose cancellation is older than
// days, or blocked slots whose date is older than days.
func (s *Service) CleanupOlderThan(ctx context.Context, days int, kind CleanupKind) (int64, error) {
	logger := s.logger(ctx).With().Str("kind", string(kind)).Int("days", days).Logger()
	if days < MinCleanupDays {
		err := fmt.Errorf("%w: days must be at least %d", ErrInvalidArgument, MinCleanupDays)
		logFailure(logger, err, "cleanup")
		return 0, err
	}

	var (
		deleted int64
		err     error
	)
	switch kind {
	case CleanupBookings:
		cutoff := s.now().Add(-time.Duration(days) * 24 * time.Hour)
		deleted, err = s.db.Queries.DeleteCancelledBookingsBefore(ctx, sql.NullTime{Time: cutoff, Valid: true})
	case CleanupBlockedSlots:
		deleted, err = s.deleteBlocksBefore(ctx, s.calendar.Today().AddDays(-days))
	default:
		_, err = ParseCleanupKind(string(kind))
	}
	if err != nil {
		logFailure(logger, err, "cleanup")
		return 0, err
	}

	logger.Info().Int64("deleted", deleted).Msg("Cleanup completed")
	return deleted, nil
}

// deleteBlocksBefore removes derived rows before their roots so every row is
// counted by a direct delete rather than vanishing through the cascade.
func (s *Service) deleteBlocksBefore(ctx context.Context, cutoff slots.Date) (int64, error) {
	var deleted int64
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		derived, err := txdb.Queries.DeleteDerivedBlockedSlotsBefore(ctx, cutoff.String())
		if err != nil {
			return fmt.Errorf("delete derived blocks before %s: %w", cutoff, err)
		}
		roots, err := txdb.Queries.DeleteBlockedSlotsBefore(ctx, cutoff.String())
		if err != nil {
			return fmt.Errorf("delete blocks before %s: %w", cutoff, err)
		}
		deleted = derived + roots
		return nil
	})
	return deleted, err
}
