package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vertilift/vertilift-backend/internal/orders"
	"github.com/vertilift/vertilift-backend/internal/quotes"
	"github.com/vertilift/vertilift-backend/pkg/db/models"
	"github.com/vertilift/vertilift-backend/pkg/enums"
	"github.com/vertilift/vertilift-backend/pkg/logger"
	"github.com/vertilift/vertilift-backend/pkg/mailer"
	"github.com/vertilift/vertilift-backend/pkg/outbox"
)

type stubSender struct {
	sent []mailer.Email
	err  error
}

func (s *stubSender) Send(ctx context.Context, email mailer.Email) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, email)
	return nil
}

func newTestDispatcher(t *testing.T, sender *stubSender) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(sender, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("dispatcher constructor failed: %v", err)
	}
	return d
}

func envelopeEvent(t *testing.T, eventType enums.OutboxEventType, data any) models.OutboxEvent {
	t.Helper()
	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	envelope, err := json.Marshal(outbox.PayloadEnvelope{
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Data:       payload,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: enums.AggregateQuote,
		AggregateID:   uuid.New(),
		Payload:       envelope,
	}
}

func TestDispatchQuoteApproved(t *testing.T) {
	sender := &stubSender{}
	d := newTestDispatcher(t, sender)

	event := envelopeEvent(t, enums.EventQuoteApproved, quotes.QuoteApprovedEvent{
		QuoteID:        uuid.New(),
		QuoteNumber:    "VLQ-20260901-A1B2C3",
		CustomerName:   "Meera Pillai",
		CustomerEmail:  "meera@example.com",
		EstimatedTotal: decimal.NewFromInt(2124),
		ValidUntil:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	})

	if err := d.Dispatch(context.Background(), event); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one email got %d", len(sender.sent))
	}
	email := sender.sent[0]
	if email.To[0] != "meera@example.com" {
		t.Fatalf("unexpected recipient %v", email.To)
	}
	if !strings.Contains(email.Subject, "VLQ-20260901-A1B2C3") {
		t.Fatalf("unexpected subject %q", email.Subject)
	}
	if !strings.Contains(email.Text, "2124.00") || !strings.Contains(email.Text, "1 October 2026") {
		t.Fatalf("unexpected body %q", email.Text)
	}
}

func TestDispatchQuoteRejectedIncludesReason(t *testing.T) {
	sender := &stubSender{}
	d := newTestDispatcher(t, sender)

	event := envelopeEvent(t, enums.EventQuoteRejected, quotes.QuoteRejectedEvent{
		QuoteNumber:   "VLQ-20260901-D4E5F6",
		CustomerName:  "Meera Pillai",
		CustomerEmail: "meera@example.com",
		Reason:        "Out of production",
	})

	if err := d.Dispatch(context.Background(), event); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !strings.Contains(sender.sent[0].Text, "Out of production") {
		t.Fatalf("expected reason in body got %q", sender.sent[0].Text)
	}
}

func TestDispatchOrderPlaced(t *testing.T) {
	sender := &stubSender{}
	d := newTestDispatcher(t, sender)

	event := envelopeEvent(t, enums.EventOrderPlaced, orders.OrderPlacedEvent{
		OrderID:       uuid.New(),
		OrderNumber:   "VLO-20260901-7BC4D9",
		Source:        enums.CheckoutSourceCart,
		CustomerName:  "Meera Pillai",
		CustomerEmail: "meera@example.com",
		Total:         decimal.NewFromInt(236),
	})

	if err := d.Dispatch(context.Background(), event); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !strings.Contains(sender.sent[0].Subject, "VLO-20260901-7BC4D9") {
		t.Fatalf("unexpected subject %q", sender.sent[0].Subject)
	}
}

func TestDispatchUnknownEventTypeNonRetryable(t *testing.T) {
	d := newTestDispatcher(t, &stubSender{})

	event := envelopeEvent(t, enums.OutboxEventType("quote.archived"), map[string]string{})
	err := d.Dispatch(context.Background(), event)
	var nonRetry NonRetryableError
	if !errors.As(err, &nonRetry) {
		t.Fatalf("expected non-retryable error got %v", err)
	}
}

func TestDispatchMalformedEnvelopeNonRetryable(t *testing.T) {
	d := newTestDispatcher(t, &stubSender{})

	event := models.OutboxEvent{
		ID:        uuid.New(),
		EventType: enums.EventQuoteApproved,
		Payload:   json.RawMessage(`{not json`),
	}
	err := d.Dispatch(context.Background(), event)
	var nonRetry NonRetryableError
	if !errors.As(err, &nonRetry) {
		t.Fatalf("expected non-retryable error got %v", err)
	}
}

func TestDispatchSenderFailureIsRetryable(t *testing.T) {
	sender := &stubSender{err: errors.New("smtp down")}
	d := newTestDispatcher(t, sender)

	event := envelopeEvent(t, enums.EventQuoteRejected, quotes.QuoteRejectedEvent{
		CustomerEmail: "meera@example.com",
		QuoteNumber:   "VLQ-1",
		Reason:        "n/a",
	})
	err := d.Dispatch(context.Background(), event)
	if err == nil {
		t.Fatal("expected error")
	}
	var nonRetry NonRetryableError
	if errors.As(err, &nonRetry) {
		t.Fatal("transport failures must stay retryable")
	}
}
