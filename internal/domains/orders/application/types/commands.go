package types

// CustomerInput is the delivery contact supplied at checkout.
type CustomerInput struct {
	Name    string `json:"name" validate:"required,max=128"`
	Phone   string `json:"phone" validate:"required,max=32"`
	Address string `json:"address" validate:"required,max=512"`
}

// LineItemInput references a catalog entry and a quantity. Prices are always
// taken from the catalog, never from the caller.
type LineItemInput struct {
	EntryID  string `json:"entryId" validate:"required,max=64"`
	Quantity int    `json:"quantity" validate:"gt=0,lte=999"`
}

// PlaceOrderInput is a checkout request. Requests sharing an IdempotencyKey
// resolve to the same order.
type PlaceOrderInput struct {
	IdempotencyKey string          `json:"idempotencyKey,omitempty" validate:"max=255"`
	Customer       CustomerInput   `json:"customer"`
	Items          []LineItemInput `json:"items" validate:"required,min=1,max=50,dive"`
}

// UpdateStatusInput is an admin status change. Status is the raw requested value.
type UpdateStatusInput struct {
	OrderID string
	Status  string
}
