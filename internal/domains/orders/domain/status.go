package domain

import "strings"

// Status is the fulfillment state of an order. The nominal progression is
// pending, confirmed, processing, ready, shipped, delivered; cancelled is
// terminal and reachable from any other status.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// InitialStatus is the status every order is created with.
const InitialStatus = StatusPending

var statuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusReady,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// Statuses lists every status in nominal order.
func Statuses() []Status {
	return append([]Status(nil), statuses...)
}

// ParseStatus accepts a status name in any case with surrounding whitespace.
func ParseStatus(raw string) (Status, error) {
	candidate := NormalizeStatus(raw)
	if !candidate.IsValid() {
		return "", invalid("status", raw, "unknown order status")
	}
	return candidate, nil
}

// NormalizeStatus trims and lower-cases raw without checking membership.
func NormalizeStatus(raw string) Status {
	return Status(strings.ToLower(strings.TrimSpace(raw)))
}

// IsValid reports whether s is a member of the enumeration.
func (s Status) IsValid() bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled
}

func (s Status) String() string { return string(s) }
