// Package i18n holds the storefront's supported languages and localized value types.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is a supported storefront language code.
type Language string

const (
	English Language = "en"
	Bengali Language = "bn"
)

// Default is the language used when a request does not negotiate one.
const Default = English

var (
	supported     = []Language{English, Bengali}
	supportedTags = []language.Tag{language.English, language.Bengali}
	matcher       = language.NewMatcher(supportedTags)
)

// Supported returns the supported languages in their canonical order.
func Supported() []Language {
	return append([]Language(nil), supported...)
}

// IsSupported reports whether lang is one of the supported languages.
func (l Language) IsSupported() bool {
	for _, candidate := range supported {
		if candidate == l {
			return true
		}
	}
	return false
}

func (l Language) String() string { return string(l) }

// Others returns every supported language except lang, in canonical order.
func Others(lang Language) []Language {
	others := make([]Language, 0, len(supported)-1)
	for _, candidate := range supported {
		if candidate != lang {
			others = append(others, candidate)
		}
	}
	return others
}

// ParseLanguage negotiates raw (a tag such as "bn", "en-GB" or an Accept-Language
// header value) against the supported languages. Anything that does not match
// returns fallback.
func ParseLanguage(raw string, fallback Language) Language {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	return supported[index]
}

// LocalizedText pairs a display name with a longer description.
type LocalizedText struct {
	Name        string
	Description string
}

// LocalizedMessage carries one human-readable message per language.
type LocalizedMessage map[Language]string

// In returns the message for lang, falling back to English and then to any value.
func (m LocalizedMessage) In(lang Language) string {
	if msg, ok := m[lang]; ok && msg != "" {
		return msg
	}
	if msg, ok := m[English]; ok && msg != "" {
		return msg
	}
	for _, candidate := range supported {
		if msg := m[candidate]; msg != "" {
			return msg
		}
	}
	return ""
}

// Clone copies the message map.
func (m LocalizedMessage) Clone() LocalizedMessage {
	if m == nil {
		return nil
	}
	clone := make(LocalizedMessage, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}
