package enums

import "fmt"

// OutboxEventType enumerates the domain events this service emits.
type OutboxEventType string

const (
	EventQuoteApproved OutboxEventType = "quote.approved"
	EventQuoteRejected OutboxEventType = "quote.rejected"
	EventQuoteExpired  OutboxEventType = "quote.expired"
	EventOrderPlaced   OutboxEventType = "order.placed"
)

var validOutboxEventTypes = []OutboxEventType{
	EventQuoteApproved,
	EventQuoteRejected,
	EventQuoteExpired,
	EventOrderPlaced,
}

// String implements fmt.Stringer.
func (o OutboxEventType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OutboxEventType.
func (o OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into an OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateQuote OutboxAggregateType = "quote"
	AggregateOrder OutboxAggregateType = "order"
)

// String implements fmt.Stringer.
func (o OutboxAggregateType) String() string {
	return string(o)
}
