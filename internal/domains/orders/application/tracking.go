package application

import (
	"strings"

	"github.com/google/uuid"
)

// TrackingCodePrefix starts every customer-facing tracking code.
const TrackingCodePrefix = "SF-"

// NewTrackingCode returns a short upper-case code derived from a random UUID.
func NewTrackingCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return TrackingCodePrefix + strings.ToUpper(raw[:10])
}
