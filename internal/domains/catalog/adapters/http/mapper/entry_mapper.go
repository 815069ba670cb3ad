package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	catalogtypes "github.com/Apurer/go-storefront-api/internal/domains/catalog/application/types"
	"github.com/Apurer/go-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
)

// LocalizedText is the per-language name/description pair.
type LocalizedText struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Entry is the HTTP representation of a catalog entry. Name and Description
// are resolved for the requested language; LocalizedText carries every language.
type Entry struct {
	ID            string                   `json:"id"`
	Name          string                   `json:"name"`
	Description   string                   `json:"description"`
	LocalizedText map[string]LocalizedText `json:"localizedText"`
	Category      string                   `json:"category"`
	Subcategory   string                   `json:"subcategory"`
	Tags          []string                 `json:"tags"`
	Features      map[string][]string      `json:"features"`
	Price         decimal.Decimal          `json:"price"`
	CreatedAt     *time.Time               `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time               `json:"updatedAt,omitempty"`
}

// MutationEntry captures inbound create/update payloads while preserving field presence.
type MutationEntry struct {
	ID            string                   `json:"id,omitempty"`
	LocalizedText map[string]LocalizedText `json:"localizedText,omitempty"`
	Category      *string                  `json:"category,omitempty"`
	Subcategory   *string                  `json:"subcategory,omitempty"`
	Tags          *[]string                `json:"tags,omitempty"`
	Features      map[string][]string      `json:"features,omitempty"`
	Price         *decimal.Decimal         `json:"price,omitempty"`
}

// EntryPage is one page of the catalog listing.
type EntryPage struct {
	Items    []Entry `json:"items"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
	Total    int     `json:"total"`
}

// ToMutationInput maps a transport payload into the application input.
func ToMutationInput(m MutationEntry) catalogtypes.EntryMutationInput {
	input := catalogtypes.EntryMutationInput{
		ID:          m.ID,
		Category:    m.Category,
		Subcategory: m.Subcategory,
		Tags:        m.Tags,
		Price:       m.Price,
	}
	if m.LocalizedText != nil {
		input.Text = make(map[i18n.Language]i18n.LocalizedText, len(m.LocalizedText))
		for lang, text := range m.LocalizedText {
			input.Text[i18n.Language(lang)] = i18n.LocalizedText{Name: text.Name, Description: text.Description}
		}
	}
	if m.Features != nil {
		input.Features = make(map[i18n.Language][]string, len(m.Features))
		for lang, phrases := range m.Features {
			input.Features[i18n.Language(lang)] = phrases
		}
	}
	return input
}

// FromDomainEntry converts an entry into its transport shape for lang.
func FromDomainEntry(e *domain.Entry, lang i18n.Language) Entry {
	if e == nil {
		return Entry{}
	}
	out := Entry{
		ID:            e.ID,
		Name:          e.Name(lang),
		Description:   e.Description(lang),
		LocalizedText: make(map[string]LocalizedText, len(e.Text)),
		Category:      e.Category,
		Subcategory:   e.Subcategory,
		Tags:          append([]string{}, e.Tags...),
		Features:      make(map[string][]string, len(e.Features)),
		Price:         e.Price,
	}
	for l, text := range e.Text {
		out.LocalizedText[l.String()] = LocalizedText{Name: text.Name, Description: text.Description}
	}
	for l, phrases := range e.Features {
		out.Features[l.String()] = append([]string{}, phrases...)
	}
	return out
}

// FromProjection converts a persisted entry, including its timestamps.
func FromProjection(p *catalogtypes.EntryProjection, lang i18n.Language) Entry {
	if p == nil {
		return Entry{}
	}
	out := FromDomainEntry(p.Entity, lang)
	if !p.Metadata.CreatedAt.IsZero() {
		createdAt := p.Metadata.CreatedAt
		out.CreatedAt = &createdAt
	}
	if !p.Metadata.UpdatedAt.IsZero() {
		updatedAt := p.Metadata.UpdatedAt
		out.UpdatedAt = &updatedAt
	}
	return out
}

// FromDomainEntries converts a ranked or listed slice, preserving order.
func FromDomainEntries(entries []*domain.Entry, lang i18n.Language) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromDomainEntry(e, lang))
	}
	return out
}

// FromPage converts a catalog page.
func FromPage(page *catalogtypes.EntryPage, lang i18n.Language) EntryPage {
	out := EntryPage{Items: make([]Entry, 0)}
	if page == nil {
		return out
	}
	for _, p := range page.Items {
		out.Items = append(out.Items, FromProjection(p, lang))
	}
	out.Page = page.Page
	out.PageSize = page.PageSize
	out.Total = page.Total
	return out
}
