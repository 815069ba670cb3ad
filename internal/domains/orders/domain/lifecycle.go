package domain

import (
	"time"

	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
)

// MessageProvider supplies the customer-facing message recorded with each
// timeline entry.
type MessageProvider interface {
	StatusMessage(status Status) i18n.LocalizedMessage
}

// TransitionResult is the updated order and the single entry to append. Callers
// persist both together or neither.
type TransitionResult struct {
	Order *Order
	Entry TimelineEntry
}

// Transition moves order to requested. Any enumerated status is accepted,
// including backward and skipped moves, unless the order is terminal. The
// input order is not modified. The entry timestamp is now, clamped so it never
// precedes the order's last status change.
func Transition(order *Order, requested Status, messages MessageProvider, now time.Time) (TransitionResult, error) {
	if order == nil {
		return TransitionResult{}, invalid("order", "", "order is required")
	}
	if order.Status.IsTerminal() {
		return TransitionResult{}, &TerminalStateError{OrderID: order.ID, Status: order.Status}
	}
	if !requested.IsValid() {
		return TransitionResult{}, invalid("status", string(requested), "unknown order status")
	}
	at := now
	if at.Before(order.StatusChangedAt) {
		at = order.StatusChangedAt
	}
	next := order.Clone()
	next.Status = requested
	next.StatusChangedAt = at
	return TransitionResult{Order: next, Entry: newEntry(next.ID, requested, messages, at)}, nil
}
