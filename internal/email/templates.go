package email

import (
	"fmt"
	"strings"
)

type Message struct {
	Subject string
	Body    string
}

type ReceiptDetails struct {
	FacilityName       string
	MemberName         string
	ConfirmationNumber string
	Sport              string
	Court              string
	Date               string
	TimeRange          string
	TotalPrice         string
}

type CancellationDetails struct {
	FacilityName       string
	MemberName         string
	ConfirmationNumber string
	Sport              string
	Court              string
	Date               string
	TimeRange          string
	CancelledBy        string
	Reason             string
}

// FormatHourRange renders a run of whole hours, e.g. "18:00 - 20:00".
func FormatHourRange(startHour, durationHours int) string {
	return fmt.Sprintf("%02d:00 - %02d:00", startHour, startHour+durationHours)
}

// FormatPrice renders cents as euros.
func FormatPrice(cents int64) string {
	return fmt.Sprintf("€%d.%02d", cents/100, cents%100)
}

func BuildBookingReceipt(details ReceiptDetails) Message {
	facility := fallback(details.FacilityName, "the MPH")
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", fallback(details.MemberName, "there"))
	fmt.Fprintf(&b, "Your booking at %s is confirmed.\n\n", facility)
	fmt.Fprintf(&b, "Confirmation number: %s\n", details.ConfirmationNumber)
	fmt.Fprintf(&b, "Sport: %s\n", details.Sport)
	fmt.Fprintf(&b, "Court: %s\n", details.Court)
	fmt.Fprintf(&b, "Date: %s\n", details.Date)
	fmt.Fprintf(&b, "Time: %s\n", details.TimeRange)
	if details.TotalPrice != "" {
		fmt.Fprintf(&b, "Total paid: %s\n", details.TotalPrice)
	}
	b.WriteString("\nPlease bring your confirmation number when you arrive.\n")

	return Message{
		Subject: fmt.Sprintf("Booking confirmed - %s", details.ConfirmationNumber),
		Body:    b.String(),
	}
}

func BuildCancellationNotice(details CancellationDetails) Message {
	facility := fallback(details.FacilityName, "the MPH")
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", fallback(details.MemberName, "there"))
	if details.CancelledBy == "Admin" {
		fmt.Fprintf(&b, "Your booking at %s has been cancelled by the facility.\n\n", facility)
	} else {
		fmt.Fprintf(&b, "Your booking at %s has been cancelled.\n\n", facility)
	}
	fmt.Fprintf(&b, "Confirmation number: %s\n", details.ConfirmationNumber)
	fmt.Fprintf(&b, "Sport: %s\n", details.Sport)
	fmt.Fprintf(&b, "Court: %s\n", details.Court)
	fmt.Fprintf(&b, "Date: %s\n", details.Date)
	fmt.Fprintf(&b, "Time: %s\n", details.TimeRange)
	if reason := strings.TrimSpace(details.Reason); reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", reason)
	}

	return Message{
		Subject: fmt.Sprintf("Booking cancelled - %s", details.ConfirmationNumber),
		Body:    b.String(),
	}
}

func fallback(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}
