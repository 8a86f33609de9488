package apiutil

import (
	"time"

	"github.com/codr1/mphcourts/internal/availability"
	"github.com/codr1/mphcourts/internal/booking"
	"github.com/codr1/mphcourts/internal/conflicts"
)

type BookingResponse struct {
	ID                 int64      `json:"id"`
	ConfirmationNumber string     `json:"confirmation_number"`
	UserID             int64      `json:"user_id"`
	UserName           string     `json:"user_name"`
	UserEmail          string     `json:"user_email"`
	Sport              string     `json:"sport"`
	CourtID            string     `json:"court_id"`
	CourtLabel         string     `json:"court_label"`
	Date               string     `json:"date"`
	StartHour          int        `json:"start_hour"`
	EndHour            int        `json:"end_hour"`
	DurationHours      int        `json:"duration_hours"`
	TotalPriceCents    int64      `json:"total_price_cents"`
	Status             string     `json:"status"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        string     `json:"cancelled_by,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type BlockedSlotResponse struct {
	ID            int64                 `json:"id"`
	Sport         string                `json:"sport"`
	CourtID       string                `json:"court_id"`
	CourtLabel    string                `json:"court_label"`
	Date          string                `json:"date"`
	Hour          int                   `json:"hour"`
	Reason        string                `json:"reason"`
	CreatedBy     string                `json:"created_by"`
	AutoBlocked   bool                  `json:"auto_blocked"`
	ParentBlockID *int64                `json:"parent_block_id,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	Children      []BlockedSlotResponse `json:"children,omitempty"`
}

type HourResponse struct {
	Hour      int    `json:"hour"`
	State     string `json:"state"`
	Available bool   `json:"available"`
	// Via names the overlapping court when another court's reservation
	// makes this hour unavailable.
	Via       string `json:"via,omitempty"`
	BookingID int64  `json:"booking_id,omitempty"`
	BlockID   int64  `json:"block_id,omitempty"`
}

type AvailabilityResponse struct {
	Sport           string         `json:"sport"`
	CourtID         string         `json:"court_id"`
	CourtLabel      string         `json:"court_label"`
	Date            string         `json:"date"`
	HourlyRateCents int64          `json:"hourly_rate_cents"`
	Hours           []HourResponse `json:"hours"`
}

func NewBookingResponse(b booking.Booking) BookingResponse {
	return BookingResponse{
		ID:                 b.ID,
		ConfirmationNumber: b.ConfirmationNumber,
		UserID:             b.UserID,
		UserName:           b.UserName,
		UserEmail:          b.UserEmail,
		Sport:              string(b.Sport),
		CourtID:            string(b.CourtID),
		CourtLabel:         b.CourtLabel,
		Date:               b.Date.String(),
		StartHour:          b.StartHour,
		EndHour:            b.EndHour(),
		DurationHours:      b.DurationHours,
		TotalPriceCents:    b.TotalPriceCents,
		Status:             string(b.State()),
		CancelledAt:        b.CancelledAt,
		CancelledBy:        b.CancelledBy,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
	}
}

func NewBookingResponses(list []booking.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, NewBookingResponse(b))
	}
	return out
}

func NewBlockedSlotResponse(b booking.BlockedSlot) BlockedSlotResponse {
	resp := BlockedSlotResponse{
		ID:            b.ID,
		Sport:         string(b.Sport),
		CourtID:       string(b.CourtID),
		CourtLabel:    b.CourtLabel,
		Date:          b.Date.String(),
		Hour:          b.Hour,
		Reason:        b.Reason,
		CreatedBy:     b.CreatedByName,
		AutoBlocked:   b.AutoBlocked,
		ParentBlockID: b.ParentBlockID,
		CreatedAt:     b.CreatedAt,
	}
	if len(b.Children) > 0 {
		resp.Children = NewBlockedSlotResponses(b.Children)
	}
	return resp
}

func NewBlockedSlotResponses(list []booking.BlockedSlot) []BlockedSlotResponse {
	out := make([]BlockedSlotResponse, 0, len(list))
	for _, b := range list {
		out = append(out, NewBlockedSlotResponse(b))
	}
	return out
}

func NewAvailabilityResponse(day booking.DayAvailability) AvailabilityResponse {
	hours := make([]HourResponse, 0, len(day.Hours))
	for _, h := range day.Hours {
		hours = append(hours, newHourResponse(h))
	}
	return AvailabilityResponse{
		Sport:           string(day.Court.Sport),
		CourtID:         string(day.Court.ID),
		CourtLabel:      day.Court.Label,
		Date:            day.Date.String(),
		HourlyRateCents: day.Court.HourlyRateCents,
		Hours:           hours,
	}
}

func newHourResponse(h conflicts.HourStatus) HourResponse {
	resp := HourResponse{
		Hour:      h.Hour,
		State:     h.State.String(),
		Available: h.State == availability.Free,
		BookingID: h.BookingID,
		BlockID:   h.BlockID,
	}
	if h.Via != nil {
		resp.Via = string(h.Via.CourtID)
	}
	return resp
}
