package email

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/mphcourts/internal/booking"
)

const defaultSendTimeout = 5 * time.Second

// BookingNotifier emails members about their bookings. Sends run in the
// background with a context detached from the request.
type BookingNotifier struct {
	client       EmailSender
	sender       string
	facilityName string
	timeout      time.Duration
}

func NewBookingNotifier(client EmailSender, sender, facilityName string) *BookingNotifier {
	return &BookingNotifier{
		client:       client,
		sender:       sender,
		facilityName: facilityName,
		timeout:      defaultSendTimeout,
	}
}

func (n *BookingNotifier) BookingConfirmed(ctx context.Context, b booking.Booking) {
	n.send(ctx, b.UserEmail, BuildBookingReceipt(ReceiptDetails{
		FacilityName:       n.facilityName,
		MemberName:         b.UserName,
		ConfirmationNumber: b.ConfirmationNumber,
		Sport:              b.Sport.DisplayName(),
		Court:              b.CourtLabel,
		Date:               formatDate(b),
		TimeRange:          FormatHourRange(b.StartHour, b.DurationHours),
		TotalPrice:         FormatPrice(b.TotalPriceCents),
	}), b.ID)
}

func (n *BookingNotifier) BookingCancelled(ctx context.Context, b booking.Booking) {
	n.send(ctx, b.UserEmail, BuildCancellationNotice(CancellationDetails{
		FacilityName:       n.facilityName,
		MemberName:         b.UserName,
		ConfirmationNumber: b.ConfirmationNumber,
		Sport:              b.Sport.DisplayName(),
		Court:              b.CourtLabel,
		Date:               formatDate(b),
		TimeRange:          FormatHourRange(b.StartHour, b.DurationHours),
		CancelledBy:        b.CancelledBy,
		Reason:             b.CancellationReason,
	}), b.ID)
}

func (n *BookingNotifier) send(ctx context.Context, recipient string, message Message, bookingID int64) {
	if n == nil || n.client == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	recipient = strings.TrimSpace(recipient)
	logger := log.Ctx(ctx).With().Int64("booking_id", bookingID).Logger()
	if recipient == "" {
		logger.Warn().Msg("Skipping booking email without recipient")
		return
	}

	// The request may finish before the send does.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	go func() {
		defer cancel()
		if err := n.client.SendFrom(sendCtx, recipient, message.Subject, message.Body, n.sender); err != nil {
			logger.Error().Err(err).Str("subject", message.Subject).Msg("Failed to send booking email")
		}
	}()
}

func formatDate(b booking.Booking) string {
	return b.Date.In(time.UTC).Format("Monday, Jan 2, 2006")
}
