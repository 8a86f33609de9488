// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/mphcourts/internal/api"
	"github.com/codr1/mphcourts/internal/api/admin"
	"github.com/codr1/mphcourts/internal/api/auth"
	"github.com/codr1/mphcourts/internal/api/bookings"
	courtsapi "github.com/codr1/mphcourts/internal/api/courts"
	"github.com/codr1/mphcourts/internal/booking"
	"github.com/codr1/mphcourts/internal/config"
	"github.com/codr1/mphcourts/internal/conflicts"
	"github.com/codr1/mphcourts/internal/courts"
	"github.com/codr1/mphcourts/internal/db"
	"github.com/codr1/mphcourts/internal/email"
	"github.com/codr1/mphcourts/internal/ratelimit"
	"github.com/codr1/mphcourts/internal/scheduler"
	"github.com/codr1/mphcourts/internal/slots"
)

// app holds the long-lived collaborators the server is built from.
type app struct {
	db        *db.DB
	service   *booking.Service
	limiter   *ratelimit.Limiter
	scheduler *scheduler.Service
}

func newApp(cfg *config.Config) (*app, error) {
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &app{db: database}

	topology, err := loadTopology(cfg.Booking.TopologyFile)
	if err != nil {
		a.Close()
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		a.Close()
		return nil, err
	}
	calendar, err := slots.NewCalendar(slots.Window{
		OpenHour:  cfg.Booking.OpenHour,
		CloseHour: cfg.Booking.CloseHour,
	}, loc, slots.SystemClock())
	if err != nil {
		a.Close()
		return nil, err
	}

	notifier, err := newNotifier(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.service, err = booking.NewService(booking.Config{
		DB:                    database,
		Engine:                conflicts.NewEngine(topology),
		Calendar:              calendar,
		Notifier:              notifier,
		PropagateUserBookings: cfg.Booking.PropagateUserBookings,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.RateLimit.Enabled {
		a.limiter = ratelimit.New(&ratelimit.Config{
			Window:        cfg.RateLimit.Window,
			MaxPerWindow:  cfg.RateLimit.MaxMutations,
			CleanupPeriod: cfg.RateLimit.CleanupPeriod,
		})
	}

	if cfg.Cleanup.Enabled {
		if err := a.startCleanup(cfg.Cleanup); err != nil {
			a.Close()
			return nil, err
		}
	}

	auth.Init(cfg)
	courtsapi.InitHandlers(topology)
	bookings.InitHandlers(a.service)
	admin.InitHandlers(a.service)

	log.Info().
		Int("courts", len(topology.Courts())).
		Str("timezone", loc.String()).
		Bool("propagate_user_bookings", cfg.Booking.PropagateUserBookings).
		Msg("Booking service ready")
	return a, nil
}

func loadTopology(path string) (*courts.Topology, error) {
	if path == "" {
		return courts.Default()
	}
	topology, err := courts.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load court topology: %w", err)
	}
	return topology, nil
}

func newNotifier(cfg *config.Config) (booking.Notifier, error) {
	var sender email.EmailSender = email.LogSender{}
	if cfg.Email.Enabled {
		client, err := email.NewSESClient(cfg.Email.AccessKeyID, cfg.Email.SecretAccessKey, cfg.Email.Region, cfg.Email.Sender)
		if err != nil {
			return nil, fmt.Errorf("create SES client: %w", err)
		}
		sender = client
	} else {
		log.Warn().Msg("Email disabled, notifications will be logged only")
	}
	return email.NewBookingNotifier(sender, cfg.Email.Sender, cfg.App.Name), nil
}

func (a *app) startCleanup(cfg config.CleanupConfig) error {
	sched, err := scheduler.New()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	err = sched.RegisterCleanupJobs(a.service,
		scheduler.CleanupJob{Kind: booking.CleanupBookings, Cron: cfg.BookingsCron, RetentionDays: cfg.BookingRetentionDays},
		scheduler.CleanupJob{Kind: booking.CleanupBlockedSlots, Cron: cfg.BlockedSlotsCron, RetentionDays: cfg.BlockRetentionDays},
	)
	if err != nil {
		_ = sched.Stop()
		return err
	}
	sched.Start()
	a.scheduler = sched
	return nil
}

// Close is safe to call more than once.
func (a *app) Close() {
	if a.scheduler != nil {
		if err := a.scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
		a.scheduler = nil
	}
	if a.limiter != nil {
		a.limiter.Close()
		a.limiter = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
		a.db = nil
	}
}

func newServer(cfg *config.Config, a *app) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithRateLimit(a.limiter, cfg.RateLimit.TrustProxy),
		api.WithLogging,
		api.WithRecovery,
		api.WithAuth,
		api.WithRequestID,
	)

	// Register routes
	registerRoutes(router)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Member routes
	mux.HandleFunc("GET /api/v1/courts", courtsapi.HandleCourtList)
	mux.HandleFunc("GET /api/v1/availability", bookings.HandleAvailability)
	mux.Handle("GET /api/v1/bookings", api.WithUserAuth(http.HandlerFunc(bookings.HandleBookingList)))
	mux.Handle("POST /api/v1/bookings", api.WithUserAuth(http.HandlerFunc(bookings.HandleBookingCreate)))
	mux.Handle("POST /api/v1/bookings/{id}/cancel", api.WithUserAuth(http.HandlerFunc(bookings.HandleBookingCancel)))

	// Admin routes
	adminRoute := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, api.WithAdminAuth(h))
	}
	adminRoute("GET /api/v1/admin/blocked-slots", admin.HandleBlockList)
	adminRoute("POST /api/v1/admin/blocked-slots", admin.HandleBlockCreate)
	adminRoute("DELETE /api/v1/admin/blocked-slots/{id}", admin.HandleBlockRelease)
	adminRoute("GET /api/v1/admin/bookings", admin.HandleBookingList)
	adminRoute("POST /api/v1/admin/bookings/{id}/cancel", admin.HandleBookingCancel)
	adminRoute("DELETE /api/v1/admin/cleanup", admin.HandleCleanup)
}
