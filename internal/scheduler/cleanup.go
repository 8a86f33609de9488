package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/codr1/mphcourts/internal/booking"
)

const cleanupJobTimeout = 2 * time.Minute

// Cleaner is the booking operation the cleanup jobs call.
type Cleaner interface {
	CleanupOlderThan(ctx context.Context, days int, kind booking.CleanupKind) (int64, error)
}

type CleanupJob struct {
	Kind          booking.CleanupKind
	Cron          string
	RetentionDays int
}

// RegisterCleanupJobs adds one job per cleanup kind. Jobs never overlap with
// themselves.
func (s *Service) RegisterCleanupJobs(cleaner Cleaner, jobs ...CleanupJob) error {
	if cleaner == nil {
		return errors.New("cleanup jobs require a cleaner")
	}
	for _, job := range jobs {
		name := fmt.Sprintf("cleanup_%s", job.Kind)
		if _, err := s.AddJob(name, job.Cron, CleanupTask(cleaner, job), gocron.WithSingletonMode(gocron.LimitModeReschedule)); err != nil {
			return fmt.Errorf("add %s job: %w", name, err)
		}
	}
	return nil
}

// CleanupTask is the body of a cleanup job.
func CleanupTask(cleaner Cleaner, job CleanupJob) func() {
	return func() {
		jobLogger := log.With().
			Str("component", "scheduler").
			Str("job_name", fmt.Sprintf("cleanup_%s", job.Kind)).
			Int("retention_days", job.RetentionDays).
			Logger()

		ctx, cancel := context.WithTimeout(context.Background(), cleanupJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		deleted, err := cleaner.CleanupOlderThan(ctx, job.RetentionDays, job.Kind)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Cleanup job failed")
			return
		}
		jobLogger.Info().Int64("deleted", deleted).Msg("Cleanup job finished")
	}
}
