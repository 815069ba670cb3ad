package types

// TrackInput resolves an order by its customer-facing tracking code.
type TrackInput struct {
	TrackingCode string
}

// OrderIdentifier references an order by ID.
type OrderIdentifier struct {
	ID string
}
