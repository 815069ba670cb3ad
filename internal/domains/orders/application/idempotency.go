package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	ordertypes "github.com/Apurer/go-storefront-api/internal/domains/orders/application/types"
)

type normalizedPlaceOrderInput struct {
	Customer normalizedCustomer   `json:"customer"`
	Items    []normalizedLineItem `json:"items"`
}

type normalizedCustomer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type normalizedLineItem struct {
	EntryID  string `json:"entryId"`
	Quantity int    `json:"quantity"`
}

// FingerprintPlaceOrder builds a deterministic hash of the checkout payload (excluding the idempotency key).
// Line item order is significant; whitespace around text fields is not.
func FingerprintPlaceOrder(input ordertypes.PlaceOrderInput) (string, error) {
	normalized := normalizedPlaceOrderInput{
		Customer: normalizedCustomer{
			Name:    strings.TrimSpace(input.Customer.Name),
			Phone:   strings.TrimSpace(input.Customer.Phone),
			Address: strings.TrimSpace(input.Customer.Address),
		},
		Items: make([]normalizedLineItem, 0, len(input.Items)),
	}
	for _, item := range input.Items {
		normalized.Items = append(normalized.Items, normalizedLineItem{
			EntryID:  strings.TrimSpace(item.EntryID),
			Quantity: item.Quantity,
		})
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
