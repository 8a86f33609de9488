package apiutil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/codr1/mphcourts/internal/slots"
)

func ParsePositiveInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", field)
	}
	return value, nil
}

// PathID parses the {id} path segment.
func PathID(r *http.Request) (int64, error) {
	return ParsePositiveInt64Field(r.PathValue("id"), "id")
}

// OptionalQueryInt returns fallback when the parameter is absent.
func OptionalQueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return value, nil
}

// OptionalQueryDate returns the zero Date when the parameter is absent.
func OptionalQueryDate(r *http.Request, name string) (slots.Date, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return slots.Date{}, nil
	}
	date, err := slots.ParseDate(raw)
	if err != nil {
		return slots.Date{}, fmt.Errorf("%s must be YYYY-MM-DD", name)
	}
	return date, nil
}
