package domain

import (
	"fmt"
	"time"

	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
)

// TimelineEntry is one immutable audit record of an order's status.
type TimelineEntry struct {
	OrderID   string
	Status    Status
	Message   i18n.LocalizedMessage
	Timestamp time.Time
}

// Timeline is an order's entries, oldest first.
type Timeline []TimelineEntry

// Latest returns the most recent entry.
func (t Timeline) Latest() (TimelineEntry, bool) {
	if len(t) == 0 {
		return TimelineEntry{}, false
	}
	return t[len(t)-1], true
}

// Append returns a new timeline with entry added. The entry must belong to
// the same order and must not predate the latest entry.
func (t Timeline) Append(entry TimelineEntry) (Timeline, error) {
	if latest, ok := t.Latest(); ok {
		if latest.OrderID != entry.OrderID {
			return nil, fmt.Errorf("%w: entry for order %s appended to order %s", ErrTimelineDiverged, entry.OrderID, latest.OrderID)
		}
		if entry.Timestamp.Before(latest.Timestamp) {
			return nil, fmt.Errorf("%w: entry at %s predates %s", ErrTimelineDiverged, entry.Timestamp.Format(time.RFC3339Nano), latest.Timestamp.Format(time.RFC3339Nano))
		}
	}
	next := make(Timeline, len(t), len(t)+1)
	copy(next, t)
	return append(next, entry), nil
}

// CheckInvariant verifies that timeline belongs to order, is ordered by time,
// and ends on the order's current status.
func CheckInvariant(order *Order, timeline Timeline) error {
	if order == nil {
		return fmt.Errorf("%w: order is nil", ErrTimelineDiverged)
	}
	latest, ok := timeline.Latest()
	if !ok {
		return fmt.Errorf("%w: order %s has no timeline", ErrTimelineDiverged, order.ID)
	}
	for i, entry := range timeline {
		if entry.OrderID != order.ID {
			return fmt.Errorf("%w: entry %d belongs to order %s", ErrTimelineDiverged, i, entry.OrderID)
		}
		if i > 0 && entry.Timestamp.Before(timeline[i-1].Timestamp) {
			return fmt.Errorf("%w: entry %d of order %s goes back in time", ErrTimelineDiverged, i, order.ID)
		}
	}
	if latest.Status != order.Status {
		return fmt.Errorf("%w: order %s is %s but latest entry is %s", ErrTimelineDiverged, order.ID, order.Status, latest.Status)
	}
	return nil
}

func newEntry(orderID string, status Status, messages MessageProvider, at time.Time) TimelineEntry {
	var message i18n.LocalizedMessage
	if messages != nil {
		message = messages.StatusMessage(status).Clone()
	}
	if message == nil {
		message = i18n.LocalizedMessage{}
	}
	return TimelineEntry{OrderID: orderID, Status: status, Message: message, Timestamp: at}
}
