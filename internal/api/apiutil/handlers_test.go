package apiutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codr1/mphcourts/internal/booking"
	"github.com/codr1/mphcourts/internal/conflicts"
	"github.com/codr1/mphcourts/internal/courts"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid range", fmt.Errorf("wrap: %w", booking.ErrInvalidRange), http.StatusBadRequest, "invalid_range"},
		{"invalid argument", booking.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{"unknown court", fmt.Errorf("lookup: %w", courts.ErrCourtNotFound), http.StatusBadRequest, "invalid_argument"},
		{"not found", booking.ErrNotFound, http.StatusNotFound, "not_found"},
		{"not owner", booking.ErrNotOwner, http.StatusForbidden, "not_owner"},
		{"slot error", &conflicts.SlotError{Err: conflicts.ErrConflictingBooking}, http.StatusConflict, "conflicting_booking"},
		{"unavailable", booking.ErrSlotUnavailable, http.StatusConflict, "slot_unavailable"},
		{"already blocked", booking.ErrAlreadyBlocked, http.StatusConflict, "already_blocked"},
		{"already cancelled", booking.ErrAlreadyCancelled, http.StatusConflict, "already_cancelled"},
		{"rate limited", HandlerError{Status: http.StatusTooManyRequests}, http.StatusTooManyRequests, "rate_limited"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := Classify(tt.err)
			if status != tt.wantStatus || code != tt.wantCode {
				t.Fatalf("got %d %q want %d %q", status, code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("password=hunter2"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Contains(body.Message, "hunter2") || body.ErrorCode != "internal" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	var dst struct {
		Reason string `json:"reason"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"reason":"a"}{"reason":"b"}`))
	if err := DecodeJSON(req, &dst); err == nil {
		t.Fatal("expected trailing data to be rejected")
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"reason":"a","extra":1}`))
	if err := DecodeJSON(req, &dst); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}
