package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
)

var (
	ErrEmptyID             = errors.New("catalog entry id is required")
	ErrEmptyName           = errors.New("catalog entry name is required in every supported language")
	ErrNegativePrice       = errors.New("catalog entry price must be greater or equal to zero")
	ErrUnsupportedLanguage = errors.New("language is not supported by the storefront")
)

// Entry is one sellable product in the catalog. Text and Features are keyed by
// language; every supported language always has a Text value with a non-empty
// name, while the remaining text fields may be empty.
type Entry struct {
	ID          string
	Text        map[i18n.Language]i18n.LocalizedText
	Category    string
	Subcategory string
	Tags        []string
	Features    map[i18n.Language][]string
	Price       decimal.Decimal
}

// NewEntry validates the localized text and builds an entry with empty
// classification, tags, and features.
func NewEntry(id string, text map[i18n.Language]i18n.LocalizedText, price decimal.Decimal) (*Entry, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}
	e := &Entry{
		ID:       strings.TrimSpace(id),
		Text:     map[i18n.Language]i18n.LocalizedText{},
		Features: map[i18n.Language][]string{},
	}
	if err := e.ReplaceText(text); err != nil {
		return nil, err
	}
	if err := e.Reprice(price); err != nil {
		return nil, err
	}
	return e, nil
}

// ReplaceText swaps all localized text, enforcing a name per supported language.
func (e *Entry) ReplaceText(text map[i18n.Language]i18n.LocalizedText) error {
	for lang := range text {
		if !lang.IsSupported() {
			return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
		}
	}
	next := make(map[i18n.Language]i18n.LocalizedText, len(i18n.Supported()))
	for _, lang := range i18n.Supported() {
		value, ok := text[lang]
		if !ok || strings.TrimSpace(value.Name) == "" {
			return fmt.Errorf("%w: missing %s name", ErrEmptyName, lang)
		}
		next[lang] = i18n.LocalizedText{
			Name:        strings.TrimSpace(value.Name),
			Description: strings.TrimSpace(value.Description),
		}
	}
	e.Text = next
	return nil
}

// Name returns the entry name in lang.
func (e *Entry) Name(lang i18n.Language) string {
	return e.Text[lang].Name
}

// Description returns the entry description in lang.
func (e *Entry) Description(lang i18n.Language) string {
	return e.Text[lang].Description
}

// Classify sets the language-neutral category pair.
func (e *Entry) Classify(category, subcategory string) {
	e.Category = strings.TrimSpace(category)
	e.Subcategory = strings.TrimSpace(subcategory)
}

// ReplaceTags stores tags trimmed, without blanks, and without case-insensitive duplicates.
func (e *Entry) ReplaceTags(tags []string) {
	seen := make(map[string]struct{}, len(tags))
	next := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		next = append(next, tag)
	}
	e.Tags = next
}

// ReplaceFeatures sets the ordered feature phrases for one language.
func (e *Entry) ReplaceFeatures(lang i18n.Language, features []string) error {
	if !lang.IsSupported() {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	phrases := make([]string, 0, len(features))
	for _, f := range features {
		if f = strings.TrimSpace(f); f != "" {
			phrases = append(phrases, f)
		}
	}
	if e.Features == nil {
		e.Features = map[i18n.Language][]string{}
	}
	e.Features[lang] = phrases
	return nil
}

// Reprice updates the list price.
func (e *Entry) Reprice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	e.Price = price
	return nil
}

// Validate re-checks the aggregate invariants, e.g. after loading from storage.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	for _, lang := range i18n.Supported() {
		if strings.TrimSpace(e.Text[lang].Name) == "" {
			return fmt.Errorf("%w: missing %s name", ErrEmptyName, lang)
		}
	}
	if e.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Clone returns a deep copy.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Text = make(map[i18n.Language]i18n.LocalizedText, len(e.Text))
	for k, v := range e.Text {
		clone.Text[k] = v
	}
	clone.Tags = append([]string(nil), e.Tags...)
	clone.Features = make(map[i18n.Language][]string, len(e.Features))
	for k, v := range e.Features {
		clone.Features[k] = append([]string(nil), v...)
	}
	return &clone
}
