package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-storefront-api/internal/shared/projection"
)

var (
	ErrNotFound      = errors.New("catalog entry not found")
	ErrAlreadyExists = errors.New("catalog entry already exists")
)

// Repository stores catalog entries. List returns entries in catalog order,
// which is the order entries were first saved in.
type Repository interface {
	// Create inserts entry and fails with ErrAlreadyExists when the ID is taken.
	Create(ctx context.Context, entry *domain.Entry) (*projection.Projection[*domain.Entry], error)
	Save(ctx context.Context, entry *domain.Entry) (*projection.Projection[*domain.Entry], error)
	GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Entry], error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*projection.Projection[*domain.Entry], error)
}
