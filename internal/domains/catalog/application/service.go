package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	types "github.com/Apurer/go-storefront-api/internal/domains/catalog/application/types"
	"github.com/Apurer/go-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-storefront-api/internal/domains/catalog/search"
	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
)

const (
	// DefaultPageSize is used when a listing does not ask for a page size.
	DefaultPageSize = 20
	maxPageSize     = 100
)

// ErrDuplicateEntry is returned when AddEntry targets an existing ID.
var ErrDuplicateEntry = errors.New("catalog entry already exists")

// Service orchestrates the catalog bounded context use cases.
type Service struct {
	repo        ports.Repository
	cache       ports.SearchCache
	ranker      *search.Ranker
	validate    *validator.Validate
	logger      *slog.Logger
	newID       func() string
	defaultLang i18n.Language
	pageSize    int
}

type Option func(*Service)

// WithSearchCache enables caching of ranked results.
func WithSearchCache(cache ports.SearchCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithRanker overrides the default ranker.
func WithRanker(r *search.Ranker) Option {
	return func(s *Service) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithLogger injects the logger used for cache degradation warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultLanguage sets the language used when a search names none.
func WithDefaultLanguage(lang i18n.Language) Option {
	return func(s *Service) {
		if lang.IsSupported() {
			s.defaultLang = lang
		}
	}
}

// WithPageSize sets the default catalog page size.
func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 && size <= maxPageSize {
			s.pageSize = size
		}
	}
}

// WithIDGenerator overrides how entry IDs are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewService wires the catalog service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		ranker:      search.NewRanker(),
		validate:    validator.New(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:       uuid.NewString,
		defaultLang: i18n.Default,
		pageSize:    DefaultPageSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AddEntry creates a new catalog entry.
func (s *Service) AddEntry(ctx context.Context, input types.AddEntryInput) (*types.EntryProjection, error) {
	if err := s.validate.Struct(input.EntryMutationInput); err != nil {
		return nil, mapError(err)
	}
	if input.Price == nil {
		return nil, fmt.Errorf("%w: price is required", ErrInvalidInput)
	}
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = s.newID()
	}
	entry, err := domain.NewEntry(id, input.Text, *input.Price)
	if err != nil {
		return nil, mapError(err)
	}
	if err := applyMutation(entry, input.EntryMutationInput); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, entry)
	if errors.Is(err, ports.ErrAlreadyExists) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, id)
	}
	if err != nil {
		return nil, mapError(err)
	}
	s.invalidate(ctx)
	return saved, nil
}

// UpdateEntry patches an existing entry. Text is merged per language.
func (s *Service) UpdateEntry(ctx context.Context, input types.UpdateEntryInput) (*types.EntryProjection, error) {
	if err := s.validate.Struct(input.EntryMutationInput); err != nil {
		return nil, mapError(err)
	}
	current, err := s.repo.GetByID(ctx, strings.TrimSpace(input.ID))
	if err != nil {
		return nil, mapError(err)
	}
	entry := current.Entity
	if input.Text != nil {
		merged := make(map[i18n.Language]i18n.LocalizedText, len(entry.Text)+len(input.Text))
		for lang, text := range entry.Text {
			merged[lang] = text
		}
		for lang, text := range input.Text {
			merged[lang] = text
		}
		if err := entry.ReplaceText(merged); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Price != nil {
		if err := entry.Reprice(*input.Price); err != nil {
			return nil, mapError(err)
		}
	}
	if err := applyMutation(entry, input.EntryMutationInput); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, entry)
	if err != nil {
		return nil, mapError(err)
	}
	s.invalidate(ctx)
	return saved, nil
}

// GetEntry loads a single entry.
func (s *Service) GetEntry(ctx context.Context, input types.EntryIdentifier) (*types.EntryProjection, error) {
	projection, err := s.repo.GetByID(ctx, strings.TrimSpace(input.ID))
	if err != nil {
		return nil, mapError(err)
	}
	return projection, nil
}

// DeleteEntry removes an entry from the catalog.
func (s *Service) DeleteEntry(ctx context.Context, input types.EntryIdentifier) error {
	if err := s.repo.Delete(ctx, strings.TrimSpace(input.ID)); err != nil {
		return mapError(err)
	}
	s.invalidate(ctx)
	return nil
}

// ListEntries returns one page of the catalog in catalog order.
func (s *Service) ListEntries(ctx context.Context, input types.ListEntriesInput) (*types.EntryPage, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, mapError(err)
	}
	page := max(input.Page, 1)
	size := input.PageSize
	if size == 0 {
		size = s.pageSize
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	start := min((page-1)*size, len(all))
	end := min(start+size, len(all))
	return &types.EntryPage{
		Items:    all[start:end],
		Page:     page,
		PageSize: size,
		Total:    len(all),
	}, nil
}

// Search ranks the catalog against the query. A blank query returns the first
// catalog page unranked.
func (s *Service) Search(ctx context.Context, input types.SearchInput) (*types.SearchResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, mapError(err)
	}
	lang := input.Language
	if !lang.IsSupported() {
		lang = s.defaultLang
	}
	query := search.Normalize(input.Query)
	result := &types.SearchResult{Query: query, Language: lang}

	if query == "" {
		page, err := s.ListEntries(ctx, types.ListEntriesInput{Page: 1})
		if err != nil {
			return nil, err
		}
		result.Entries = entities(page.Items)
		return result, nil
	}

	projections, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	catalog := entities(projections)
	result.Ranked = true

	key := searchKey(lang, query)
	if ids, ok := s.cachedIDs(ctx, key); ok {
		result.Entries = resolve(ids, catalog)
		return result, nil
	}

	result.Entries = s.ranker.Rank(query, catalog, lang)
	s.remember(ctx, key, result.Entries)
	return result, nil
}

func (s *Service) cachedIDs(ctx context.Context, key string) ([]string, bool) {
	if s.cache == nil {
		return nil, false
	}
	ids, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "search cache read failed", slog.String("error", err.Error()))
		return nil, false
	}
	return ids, ok
}

func (s *Service) remember(ctx context.Context, key string, entries []*domain.Entry) {
	if s.cache == nil {
		return
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	if err := s.cache.Set(ctx, key, ids); err != nil {
		s.logger.WarnContext(ctx, "search cache write failed", slog.String("error", err.Error()))
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "search cache invalidation failed", slog.String("error", err.Error()))
	}
}

func applyMutation(entry *domain.Entry, input types.EntryMutationInput) error {
	if input.Category != nil || input.Subcategory != nil {
		category, subcategory := entry.Category, entry.Subcategory
		if input.Category != nil {
			category = *input.Category
		}
		if input.Subcategory != nil {
			subcategory = *input.Subcategory
		}
		entry.Classify(category, subcategory)
	}
	if input.Tags != nil {
		entry.ReplaceTags(*input.Tags)
	}
	for lang := range input.Features {
		if !lang.IsSupported() {
			return fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, lang)
		}
	}
	for _, lang := range i18n.Supported() {
		if phrases, ok := input.Features[lang]; ok {
			if err := entry.ReplaceFeatures(lang, phrases); err != nil {
				return err
			}
		}
	}
	return nil
}

func entities(projections []*types.EntryProjection) []*domain.Entry {
	out := make([]*domain.Entry, 0, len(projections))
	for _, p := range projections {
		if p != nil && p.Entity != nil {
			out = append(out, p.Entity)
		}
	}
	return out
}

// resolve maps cached ids back onto the current catalog, dropping ids that
// no longer exist.
func resolve(ids []string, catalog []*domain.Entry) []*domain.Entry {
	byID := make(map[string]*domain.Entry, len(catalog))
	for _, e := range catalog {
		byID[e.ID] = e
	}
	out := make([]*domain.Entry, 0, len(ids))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

func searchKey(lang i18n.Language, normalizedQuery string) string {
	sum := sha256.Sum256([]byte(normalizedQuery))
	return lang.String() + ":" + hex.EncodeToString(sum[:])
}

var _ ports.Service = (*Service)(nil)
