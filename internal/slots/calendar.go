package slots

import (
	"fmt"
	"time"

	"github.com/codr1/mphcourts/internal/courts"
)

const (
	DefaultOpenHour  = 8
	DefaultCloseHour = 22
)

// Clock lets tests pin "today".
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return realClock{} }

// Window is the bookable part of a day. CloseHour is exclusive: a window of
// 8-22 accepts start hours 8 through 21.
type Window struct {
	OpenHour  int
	CloseHour int
}

func (w Window) Validate() error {
	if w.OpenHour < 0 || w.CloseHour > 24 || w.OpenHour >= w.CloseHour {
		return fmt.Errorf("booking window %d-%d is invalid", w.OpenHour, w.CloseHour)
	}
	return nil
}

// Hours lists every start hour in the window.
func (w Window) Hours() []int {
	hours := make([]int, 0, w.CloseHour-w.OpenHour)
	for h := w.OpenHour; h < w.CloseHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

func (w Window) Contains(hour int) bool {
	return hour >= w.OpenHour && hour < w.CloseHour
}

// Calendar canonicalizes requested ranges against the window and the
// facility time zone.
type Calendar struct {
	window   Window
	location *time.Location
	clock    Clock
}

func NewCalendar(window Window, location *time.Location, clock Clock) (*Calendar, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if location == nil {
		location = time.Local
	}
	if clock == nil {
		clock = realClock{}
	}
	return &Calendar{window: window, location: location, clock: clock}, nil
}

func (c *Calendar) Window() Window { return c.window }

func (c *Calendar) Location() *time.Location { return c.location }

// Now is the current instant in the facility time zone.
func (c *Calendar) Now() time.Time { return c.clock.Now().In(c.location) }

// Today is the current calendar day in the facility time zone.
func (c *Calendar) Today() Date { return DateOf(c.Now()) }

// ExpandRange returns one key per hour of the requested run, in ascending
// hour order. Each call returns a new slice.
func (c *Calendar) ExpandRange(court courts.Court, date Date, startHour, durationHours int) ([]Key, error) {
	if durationHours <= 0 {
		return nil, fmt.Errorf("%w: duration must be at least 1 hour", ErrInvalidRange)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidRange)
	}
	if !c.window.Contains(startHour) {
		return nil, fmt.Errorf("%w: start hour %d is outside %02d:00-%02d:00", ErrInvalidRange, startHour, c.window.OpenHour, c.window.CloseHour)
	}
	if durationHours > c.window.CloseHour-startHour {
		return nil, fmt.Errorf("%w: %d hours from %02d:00 runs past closing at %02d:00", ErrInvalidRange, durationHours, startHour, c.window.CloseHour)
	}
	endHour := startHour + durationHours
	if date.Before(c.Today()) {
		return nil, fmt.Errorf("%w: date %s is in the past", ErrInvalidRange, date)
	}

	keys := make([]Key, 0, durationHours)
	for h := startHour; h < endHour; h++ {
		keys = append(keys, Key{Sport: court.Sport, CourtID: court.ID, Date: date, Hour: h})
	}
	return keys, nil
}
