package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codr1/mphcourts/internal/booking"
	"github.com/codr1/mphcourts/internal/courts"
)

const maxBodyBytes = 1 << 20

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteError maps err onto a status and error code and writes the JSON body.
// Unexpected errors are logged and reported without detail.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := Classify(err)
	message := err.Error()

	var handlerErr HandlerError
	if errors.As(err, &handlerErr) {
		if handlerErr.Status != 0 {
			status = handlerErr.Status
		}
		message = handlerErr.Message
	}
	if status == http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		if handlerErr.Message == "" {
			message = "Internal Server Error"
		}
	}

	if writeErr := WriteJSON(w, status, ErrorBody{ErrorCode: code, Message: message}); writeErr != nil {
		log.Ctx(r.Context()).Error().Err(writeErr).Msg("Failed to write error response")
	}
}

// WriteBadRequest reports a malformed request that never reached the service.
func WriteBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, HandlerError{Status: http.StatusBadRequest, Message: message, Err: booking.ErrInvalidArgument})
}

// Classify returns the HTTP status and stable error code for err.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, booking.ErrInvalidRange):
		return http.StatusBadRequest, "invalid_range"
	case errors.Is(err, booking.ErrInvalidArgument), errors.Is(err, courts.ErrCourtNotFound):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, booking.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, booking.ErrNotOwner):
		return http.StatusForbidden, "not_owner"
	case errors.Is(err, booking.ErrSlotUnavailable):
		return http.StatusConflict, "slot_unavailable"
	case errors.Is(err, booking.ErrConflictingBooking):
		return http.StatusConflict, "conflicting_booking"
	case errors.Is(err, booking.ErrAlreadyBlocked):
		return http.StatusConflict, "already_blocked"
	case errors.Is(err, booking.ErrAlreadyCancelled):
		return http.StatusConflict, "already_cancelled"
	case errors.Is(err, booking.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	}

	var handlerErr HandlerError
	if errors.As(err, &handlerErr) {
		switch handlerErr.Status {
		case http.StatusUnauthorized:
			return handlerErr.Status, "unauthenticated"
		case http.StatusForbidden:
			return handlerErr.Status, "forbidden"
		case http.StatusTooManyRequests:
			return handlerErr.Status, "rate_limited"
		}
	}
	return http.StatusInternalServerError, "internal"
}
