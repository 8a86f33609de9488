// Package slots defines the addressable unit of availability and the daily
// booking calendar.
package slots

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codr1/mphcourts/internal/courts"
)

const dateLayout = "2006-01-02"

var ErrInvalidRange = errors.New("invalid range")

// Date is a calendar day with no time-of-day or zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate accepts YYYY-MM-DD.
func ParseDate(raw string) (Date, error) {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return Date{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return DateOf(parsed), nil
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(raw string) Date {
	d, err := ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) Before(other Date) bool {
	return d.String() < other.String()
}

// AddDays normalizes month and year overflow.
func (d Date) AddDays(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(0, 0, n))
}

// Key identifies one bookable hour of one logical court.
type Key struct {
	Sport   courts.Sport
	CourtID courts.ID
	Date    Date
	Hour    int
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s %s %02d:00", k.Sport, k.CourtID, k.Date, k.Hour)
}

// At returns the key for another court at the same date and hour.
func (k Key) At(court courts.Court) Key {
	return Key{Sport: court.Sport, CourtID: court.ID, Date: k.Date, Hour: k.Hour}
}
