package ports

import "context"

// SearchCache remembers ranked entry ids per search key.
type SearchCache interface {
	// Get returns the cached ids and whether the key was present.
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, ids []string) error
	// Invalidate drops every cached search, e.g. after a catalog mutation.
	Invalidate(ctx context.Context) error
}
