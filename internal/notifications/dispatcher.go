package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vertilift/vertilift-backend/internal/orders"
	"github.com/vertilift/vertilift-backend/internal/quotes"
	"github.com/vertilift/vertilift-backend/pkg/db/models"
	"github.com/vertilift/vertilift-backend/pkg/enums"
	"github.com/vertilift/vertilift-backend/pkg/logger"
	"github.com/vertilift/vertilift-backend/pkg/mailer"
	"github.com/vertilift/vertilift-backend/pkg/outbox"
)

// NonRetryableError marks failures the notifier must not retry, e.g. a payload
// that will never unmarshal.
type NonRetryableError struct {
	cause error
}

func (e NonRetryableError) Error() string { return e.cause.Error() }
func (e NonRetryableError) Unwrap() error { return e.cause }

func nonRetryable(format string, args ...any) error {
	return NonRetryableError{cause: fmt.Errorf(format, args...)}
}

// NonRetryable wraps err so the notifier drops the event instead of retrying.
func NonRetryable(err error) error {
	return NonRetryableError{cause: err}
}

// Dispatcher turns outbox events into transactional email. Templates only use
// data already visible to the customer; internal notes never appear here.
type Dispatcher struct {
	mailer mailer.Sender
	logg   *logger.Logger
}

// NewDispatcher builds the dispatcher.
func NewDispatcher(sender mailer.Sender, logg *logger.Logger) (*Dispatcher, error) {
	if sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Dispatcher{mailer: sender, logg: logg}, nil
}

// Dispatch sends the email for one outbox event.
func (d *Dispatcher) Dispatch(ctx context.Context, event models.OutboxEvent) error {
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return nonRetryable("unmarshal envelope for %s: %w", event.ID, err)
	}

	email, err := buildEmail(event.EventType, envelope.Data)
	if err != nil {
		return err
	}

	if err := d.mailer.Send(ctx, *email); err != nil {
		return err
	}
	d.logg.Info(d.logg.WithFields(ctx, map[string]any{
		"event_type": event.EventType,
		"outbox_id":  event.ID.String(),
	}), "notification email sent")
	return nil
}

func buildEmail(eventType enums.OutboxEventType, data json.RawMessage) (*mailer.Email, error) {
	switch eventType {
	case enums.EventQuoteApproved:
		var payload quotes.QuoteApprovedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, nonRetryable("unmarshal %s payload: %w", eventType, err)
		}
		return &mailer.Email{
			To:      []string{payload.CustomerEmail},
			Subject: fmt.Sprintf("Quote %s approved", payload.QuoteNumber),
			Text: fmt.Sprintf(
				"Hello %s,\n\nYour quote %s has been approved.\nEstimated total: %s\nValid until: %s\n\nYou can place your order from your account any time before the validity date.",
				payload.CustomerName, payload.QuoteNumber,
				payload.EstimatedTotal.StringFixed(2),
				payload.ValidUntil.Format("2 January 2006")),
		}, nil

	case enums.EventQuoteRejected:
		var payload quotes.QuoteRejectedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, nonRetryable("unmarshal %s payload: %w", eventType, err)
		}
		return &mailer.Email{
			To:      []string{payload.CustomerEmail},
			Subject: fmt.Sprintf("Quote %s update", payload.QuoteNumber),
			Text: fmt.Sprintf(
				"Hello %s,\n\nWe could not approve your quote %s.\nReason: %s\n\nYou are welcome to submit a new request.",
				payload.CustomerName, payload.QuoteNumber, payload.Reason),
		}, nil

	case enums.EventQuoteExpired:
		var payload quotes.QuoteExpiredEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, nonRetryable("unmarshal %s payload: %w", eventType, err)
		}
		return &mailer.Email{
			To:      []string{payload.CustomerEmail},
			Subject: fmt.Sprintf("Quote %s has expired", payload.QuoteNumber),
			Text: fmt.Sprintf(
				"Hello %s,\n\nYour approved quote %s expired on %s.\nIf you still need these parts, request a new quote and we will re-price it for you.",
				payload.CustomerName, payload.QuoteNumber,
				payload.ValidUntil.Format("2 January 2006")),
		}, nil

	case enums.EventOrderPlaced:
		var payload orders.OrderPlacedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, nonRetryable("unmarshal %s payload: %w", eventType, err)
		}
		return &mailer.Email{
			To:      []string{payload.CustomerEmail},
			Subject: fmt.Sprintf("Order %s received", payload.OrderNumber),
			Text: fmt.Sprintf(
				"Hello %s,\n\nWe received your order %s.\nTotal: %s (cash on delivery)\n\nWe will confirm it shortly.",
				payload.CustomerName, payload.OrderNumber, payload.Total.StringFixed(2)),
		}, nil

	default:
		return nil, nonRetryable("no email template for event type %q", eventType)
	}
}
