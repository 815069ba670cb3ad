package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Apurer/go-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
)

// ScoredEntry is a catalog entry together with its relevance score.
type ScoredEntry struct {
	Entry *domain.Entry
	Score int
}

// Ranker scores and orders catalog entries. A Ranker holds no mutable state
// and is safe for concurrent use.
type Ranker struct {
	weights Weights
	limit   int
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithWeights overrides the relevance table.
func WithWeights(w Weights) Option {
	return func(r *Ranker) {
		r.weights = w
	}
}

// WithLimit overrides the result cap. Values <= 0 disable truncation.
func WithLimit(limit int) Option {
	return func(r *Ranker) {
		r.limit = limit
	}
}

// NewRanker builds a Ranker using DefaultWeights and MaxResults unless overridden.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{weights: DefaultWeights, limit: MaxResults}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

var defaultRanker = NewRanker()

// Rank orders catalog by relevance to query using the default table.
func Rank(query string, catalog []*domain.Entry, lang i18n.Language) []*domain.Entry {
	return defaultRanker.Rank(query, catalog, lang)
}

// Score computes the relevance of a single entry using the default table.
func Score(query string, entry *domain.Entry, lang i18n.Language) int {
	return defaultRanker.Score(query, entry, lang)
}

// Rank returns the entries of catalog that match query, highest score first.
// Entries with equal scores keep their catalog order. A blank query returns
// the catalog unchanged.
func (r *Ranker) Rank(query string, catalog []*domain.Entry, lang i18n.Language) []*domain.Entry {
	q := newQuery(query)
	if q.blank() {
		result := make([]*domain.Entry, 0, len(catalog))
		for _, entry := range catalog {
			if entry != nil {
				result = append(result, entry)
			}
		}
		return result
	}
	scored := r.rankScored(q, catalog, lang)
	result := make([]*domain.Entry, 0, len(scored))
	for _, s := range scored {
		result = append(result, s.Entry)
	}
	return result
}

// RankScored is Rank with scores attached. A blank query yields no results.
func (r *Ranker) RankScored(query string, catalog []*domain.Entry, lang i18n.Language) []ScoredEntry {
	q := newQuery(query)
	if q.blank() {
		return []ScoredEntry{}
	}
	return r.rankScored(q, catalog, lang)
}

// Score computes the relevance of entry for query. A blank query scores 0.
func (r *Ranker) Score(query string, entry *domain.Entry, lang i18n.Language) int {
	q := newQuery(query)
	if q.blank() || entry == nil {
		return 0
	}
	return r.score(q, entry, lang)
}

func (r *Ranker) rankScored(q normalizedQuery, catalog []*domain.Entry, lang i18n.Language) []ScoredEntry {
	scored := make([]ScoredEntry, 0, len(catalog))
	for _, entry := range catalog {
		if entry == nil {
			continue
		}
		if s := r.score(q, entry, lang); s > 0 {
			scored = append(scored, ScoredEntry{Entry: entry, Score: s})
		}
	}
	slices.SortStableFunc(scored, func(a, b ScoredEntry) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if r.limit > 0 && len(scored) > r.limit {
		scored = scored[:r.limit]
	}
	return scored
}

func (r *Ranker) score(q normalizedQuery, entry *domain.Entry, lang i18n.Language) int {
	w := r.weights
	languages := append([]i18n.Language{lang}, i18n.Others(lang)...)
	score := 0

	for _, l := range languages {
		if q.in(entry.Name(l)) {
			score += w.Name
		}
	}
	for _, l := range languages {
		if q.in(entry.Description(l)) {
			score += w.Description
			break
		}
	}
	if q.in(entry.Category) {
		score += w.Category
	}
	if q.in(entry.Subcategory) {
		score += w.Subcategory
	}
	for _, tag := range entry.Tags {
		if q.in(tag) {
			score += w.Tag
		}
	}
	for _, l := range languages {
		for _, feature := range entry.Features[l] {
			if q.in(feature) {
				score += w.Feature
			}
		}
	}
	for _, token := range q.tokens {
		for _, l := range languages {
			if strings.Contains(q.lower(entry.Name(l)), token) {
				score += w.NameToken
			}
		}
	}
	return score
}

type normalizedQuery struct {
	full   string
	tokens []string
	caser  cases.Caser
}

// newQuery trims and lower-cases the query. Per-word tokens keep only words of
// at least MinTokenLength runes, so a single word is also its own token.
func newQuery(raw string) normalizedQuery {
	q := normalizedQuery{caser: cases.Lower(language.Und)}
	q.full = q.lower(strings.TrimSpace(raw))
	for _, word := range strings.Fields(q.full) {
		if utf8.RuneCountInString(word) >= MinTokenLength {
			q.tokens = append(q.tokens, word)
		}
	}
	return q
}

func (q normalizedQuery) blank() bool {
	return q.full == ""
}

func (q normalizedQuery) lower(s string) string {
	return q.caser.String(s)
}

// in reports whether field contains the whole query.
func (q normalizedQuery) in(field string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(q.lower(field), q.full)
}

// Normalize returns the query exactly as the ranker compares it. Two queries
// with the same normalized form always rank identically.
func Normalize(query string) string {
	return newQuery(query).full
}
