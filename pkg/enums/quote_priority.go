package enums

import "fmt"

// QuotePriority orders the admin review queue.
type QuotePriority string

const (
	QuotePriorityLow    QuotePriority = "low"
	QuotePriorityMedium QuotePriority = "medium"
	QuotePriorityHigh   QuotePriority = "high"
)

var validQuotePriorities = []QuotePriority{
	QuotePriorityLow,
	QuotePriorityMedium,
	QuotePriorityHigh,
}

// String implements fmt.Stringer.
func (q QuotePriority) String() string {
	return string(q)
}

// IsValid reports whether the value is a known QuotePriority.
func (q QuotePriority) IsValid() bool {
	for _, candidate := range validQuotePriorities {
		if candidate == q {
			return true
		}
	}
	return false
}

// ParseQuotePriority converts raw input into a QuotePriority.
func ParseQuotePriority(value string) (QuotePriority, error) {
	for _, candidate := range validQuotePriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote priority %q", value)
}
