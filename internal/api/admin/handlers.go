// internal/api/admin/handlers.go
package admin

import (
	"context"
	"errors"
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

const (
	adminRequestTimeout = 5 * time.Second
	cleanupTimeout      = 30 * time.Second
)

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

type createBlockRequest struct {
	Sport   string `json:"sport"`
	Court   string `json:"court"`
	Date    string `json:"date"`
	Hour    *int   `json:"hour"`
	EndHour *int   `json:"end_hour,omitempty"`
	Reason  string `json:"reason"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

type blockListResponse struct {
	BlockedSlots []apiutil.BlockedSlotResponse `json:"blocked_slots"`
}

type blockCreateResponse struct {
	BlockedSlots []apiutil.BlockedSlotResponse `json:"blocked_slots"`
	// Total counts roots and their derived rows.
	Total int `json:"total"`
}

type releaseResponse struct {
	ID      int64 `json:"id"`
	Deleted int64 `json:"deleted"`
}

type cleanupResponse struct {
	Kind    string `json:"kind"`
	Days    int    `json:"days"`
	Deleted int64  `json:"deleted"`
}

type bookingListResponse struct {
	Bookings []apiutil.BookingResponse `json:"bookings"`
}

// POST /api/v1/admin/blocked-slots
func HandleBlockCreate(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	var req createBlockRequest
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
	if req.Hour == nil {
		apiutil.WriteBadRequest(w, r, "hour is required")
		return
	}
	endHour := 0
	if req.EndHour != nil {
		endHour = *req.EndHour
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminRequestTimeout)
	defer cancel()

	roots, err := svc.AcquireBlockRange(ctx, actor.BookingActor(), booking.BlockRequest{
		Sport:      sport,
		CourtLabel: req.Court,
		Date:       date,
		Hour:       *req.Hour,
		EndHour:    endHour,
		Reason:     req.Reason,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	total := 0
	for _, root := range roots {
		total += 1 + len(root.Children)
	}
	log.Ctx(r.Context()).Info().
		Int64("admin_id", actor.ID).
		Int("roots", len(roots)).
		Int("total", total).
		Msg("Slots blocked")
	writeJSON(w, r, http.StatusCreated, blockCreateResponse{
		BlockedSlots: apiutil.NewBlockedSlotResponses(roots),
		Total:        total,
	})
}

// DELETE /api/v1/admin/blocked-slots/{id}
func HandleBlockRelease(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	id, err := apiutil.PathID(r)
	if err != nil {
		apiutil.WriteBadRequest(w, r, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminRequestTimeout)
	defer cancel()

	deleted, err := svc.ReleaseBlock(ctx, id)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	log.Ctx(r.Context()).Info().
		Int64("admin_id", actor.ID).
		Int64("block_id", id).
		Int64("deleted", deleted).
		Msg("Block released")
	writeJSON(w, r, http.StatusOK, releaseResponse{ID: id, Deleted: deleted})
}

// GET /api/v1/admin/blocked-slots?date=
func HandleBlockList(w http.ResponseWriter, r *http.Request) {
	svc, _, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	date, limit, ok := listParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminRequestTimeout)
	defer cancel()

	list, err := svc.ListBlockedSlots(ctx, date, limit)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, blockListResponse{BlockedSlots: apiutil.NewBlockedSlotResponses(list)})
}

// GET /api/v1/admin/bookings?date=
func HandleBookingList(w http.ResponseWriter, r *http.Request) {
	svc, _, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	date, limit, ok := listParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminRequestTimeout)
	defer cancel()

	list, err := svc.ListBookings(ctx, date, limit)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, bookingListResponse{Bookings: apiutil.NewBookingResponses(list)})
}

// POST /api/v1/admin/bookings/{id}/cancel
func HandleBookingCancel(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	id, err := apiutil.PathID(r)
	if err != nil {
		apiutil.WriteBadRequest(w, r, err.Error())
		return
	}

	var req cancelBookingRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteBadRequest(w, r, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminRequestTimeout)
	defer cancel()

	cancelled, err := svc.CancelBooking(ctx, actor.BookingActor(), id, req.Reason)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, apiutil.NewBookingResponse(cancelled))
}

// DELETE /api/v1/admin/cleanup?days=&kind=
func HandleCleanup(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	if strings.TrimSpace(r.URL.Query().Get("days")) == "" {
		apiutil.WriteBadRequest(w, r, "days is required")
		return
	}
	days, err := apiutil.OptionalQueryInt(r, "days", 0)
	if err != nil {
		apiutil.WriteBadRequest(w, r, err.Error())
		return
	}
	kind, err := booking.ParseCleanupKind(r.URL.Query().Get("kind"))
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), cleanupTimeout)
	defer cancel()

	deleted, err := svc.CleanupOlderThan(ctx, days, kind)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	log.Ctx(r.Context()).Info().
		Int64("admin_id", actor.ID).
		Str("kind", string(kind)).
		Int("days", days).
		Int64("deleted", deleted).
		Msg("Cleanup completed")
	writeJSON(w, r, http.StatusOK, cleanupResponse{Kind: string(kind), Days: days, Deleted: deleted})
}

// requireAdmin repeats the route-level gate so handlers stay safe when
// mounted without WithAdminAuth.
func requireAdmin(w http.ResponseWriter, r *http.Request) (*booking.Service, authz.Actor, bool) {
	svc := loadService()
	if svc == nil {
		log.Ctx(r.Context()).Error().Msg("Booking service not initialized")
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Internal Server Error"})
		return nil, authz.Actor{}, false
	}
	actor, err := authz.RequireAdmin(r.Context())
	if err != nil {
		status := http.StatusForbidden
		if errors.Is(err, authz.ErrUnauthenticated) {
			status = http.StatusUnauthorized
		}
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: status, Message: http.StatusText(status), Err: err})
		return nil, authz.Actor{}, false
	}
	return svc, actor, true
}

func listParams(w http.ResponseWriter, r *http.Request) (slots.Date, int, bool) {
	date, err := apiutil.OptionalQueryDate(r, "date")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err.Error())
		return slots.Date{}, 0, false
	}
	limit, err := apiutil.OptionalQueryInt(r, "limit", 0)
	if err != nil {
		apiutil.WriteBadRequest(w, r, err.Error())
		return slots.Date{}, 0, false
	}
	return date, limit, true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}
