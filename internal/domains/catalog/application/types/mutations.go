package types

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
)

// EntryMutationInput carries the fields used to create or patch a catalog entry.
// Nil pointers leave the current value untouched on update.
type EntryMutationInput struct {
	Text        map[i18n.Language]i18n.LocalizedText
	Price       *decimal.Decimal
	ID          string                     `validate:"omitempty,max=64"`
	Category    *string                    `validate:"omitempty,max=128"`
	Subcategory *string                    `validate:"omitempty,max=128"`
	Tags        *[]string                  `validate:"omitempty,max=32,dive,max=64"`
	Features    map[i18n.Language][]string `validate:"omitempty,dive,max=16,dive,max=256"`
}

// AddEntryInput creates a catalog entry. An empty ID is replaced by a generated one.
type AddEntryInput struct {
	EntryMutationInput
}

// UpdateEntryInput patches an existing entry identified by ID.
type UpdateEntryInput struct {
	EntryMutationInput
}
