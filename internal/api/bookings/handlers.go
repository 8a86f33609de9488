// internal/api/bookings/handlers.go
package bookings

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/mphcourts/internal/api/apiutil"
	"github.com/codr1/mphcourts/internal/api/authz"
	"github.com/codr1/mphcourts/internal/booking"
	"github.com/codr1/mphcourts/internal/courts"
	"github.com/codr1/mphcourts/internal/slots"
)

var (
	service     *booking.Service
	serviceOnce sync.Once
)

const bookingRequestTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *booking.Service) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
	})
}

func loadService() *booking.Service {
	return service
}

type createBookingRequest struct {
	Sport           string `json:"sport"`
	Court           string `json:"court"`
	Date            string `json:"date"`
	StartHour       *int   `json:"start_hour"`
	DurationHours   int    `json:"duration_hours"`
	TotalPriceCents *int64 `json:"total_price_cents,omitempty"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

type bookingListResponse struct {
	Bookings []apiutil.BookingResponse `json:"bookings"`
}

// GET /api/v1/availability?sport=&court=&date=
func HandleAvailability(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		serviceMissing(w, r)
		return
	}

	query := r.URL.Query()
	sport, err := courts.ParseSport(query.Get("sport"))
	if err != nil {
		apiutil.WriteBadRequest(w, r, err.Error())
		return
	}
	label := strings.TrimSpace(query.Get("court"))
	if label == "" {
		apiutil.WriteBadRequest(w, r, "court is required")
		return
	}
	date, err := apiutil.OptionalQueryDate(r, "date")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err.Error())
		return
	}
	if date.IsZero() {
		date = svc.Calendar().Today()
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingRequestTimeout)
	defer cancel()

	day, err := svc.Availability(ctx, sport, label, date)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, apiutil.NewAvailabilityResponse(day))
}

// POST /api/v1/bookings
func HandleBookingCreate(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		serviceMissing(w, r)
		return
	}

	actor, err := authz.RequireUser(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusUnauthorized, Message: "Sign in to book a court", Err: err})
		return
	}

	var req createBookingRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteBadRequest(w, r, err.Error())
		return
	}
	sport, err := courts.ParseSport(req.Sport)
	if err != nil {
		apiutil.WriteBadRequest(w, r, err.Error())
		return
	}
	date, err := slots.ParseDate(req.Date)
	if err != nil {
		apiutil.WriteBadRequest(w, r, err.Error())
		return
	}
	if req.StartHour == nil {
		apiutil.WriteBadRequest(w, r, "start_hour is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingRequestTimeout)
	defer cancel()

	created, err := svc.AcquireBooking(ctx, actor.BookingActor(), booking.BookingRequest{
		Sport:         sport,
		CourtLabel:    req.Court,
		Date:          date,
		StartHour:     *req.StartHour,
		DurationHours: req.DurationHours,
		PriceCents:    req.TotalPriceCents,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().
		Int64("booking_id", created.ID).
		Str("confirmation_number", created.ConfirmationNumber).
		Msg("Booking created")
	writeJSON(w, r, http.StatusCreated, apiutil.NewBookingResponse(created))
}

// GET /api/v1/bookings
func HandleBookingList(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		serviceMissing(w, r)
		return
	}

	actor, err := authz.RequireUser(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusUnauthorized, Message: "Unauthorized", Err: err})
		return
	}
	limit, err := apiutil.OptionalQueryInt(r, "limit", 0)
	if err != nil {
		apiutil.WriteBadRequest(w, r, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingRequestTimeout)
	defer cancel()

	list, err := svc.ListBookingsForUser(ctx, actor.ID, limit)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, bookingListResponse{Bookings: apiutil.NewBookingResponses(list)})
}

// POST /api/v1/bookings/{id}/cancel
func HandleBookingCancel(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		serviceMissing(w, r)
		return
	}

	actor, err := authz.RequireUser(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusUnauthorized, Message: "Unauthorized", Err: err})
		return
	}
	id, err := apiutil.PathID(r)
	if err != nil {
		apiutil.WriteBadRequest(w, r, err.Error())
		return
	}

	var req cancelBookingRequest
	if r.ContentLength != 0 {
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			apiutil.WriteBadRequest(w, r, err.Error())
			return
		}
	}

	// Members cancel as themselves even when they also hold admin rights;
	// the admin route records an admin cancellation.
	member := actor.BookingActor()
	member.Admin = false

	ctx, cancel := context.WithTimeout(r.Context(), bookingRequestTimeout)
	defer cancel()

	cancelled, err := svc.CancelBooking(ctx, member, id, req.Reason)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, apiutil.NewBookingResponse(cancelled))
}

func serviceMissing(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Error().Msg("Booking service not initialized")
	apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Internal Server Error"})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}
