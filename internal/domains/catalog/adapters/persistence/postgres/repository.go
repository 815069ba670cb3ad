package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
	"github.com/Apurer/go-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists catalog entries in PostgreSQL using GORM. Localized
// text and features are stored as JSON columns keyed by language tag.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed catalog. Schema is owned by platform/migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type localizedTextRecord struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type entryRecord struct {
	ID          string                         `gorm:"primaryKey;column:id;size:64"`
	Text        map[string]localizedTextRecord `gorm:"column:text;type:jsonb;serializer:json"`
	Category    string                         `gorm:"column:category;index"`
	Subcategory string                         `gorm:"column:subcategory"`
	Tags        pq.StringArray                 `gorm:"column:tags;type:text[]"`
	Features    map[string][]string            `gorm:"column:features;type:jsonb;serializer:json"`
	Price       decimal.Decimal                `gorm:"column:price;type:numeric(12,2)"`
	CreatedAt   time.Time                      `gorm:"column:created_at;index"`
	UpdatedAt   time.Time                      `gorm:"column:updated_at"`
}

func (entryRecord) TableName() string { return "catalog_entries" }

func newEntryRecord(e *domain.Entry) entryRecord {
	rec := entryRecord{
		ID:          e.ID,
		Text:        make(map[string]localizedTextRecord, len(e.Text)),
		Category:    e.Category,
		Subcategory: e.Subcategory,
		Tags:        pq.StringArray(append([]string{}, e.Tags...)),
		Features:    make(map[string][]string, len(e.Features)),
		Price:       e.Price,
	}
	for lang, text := range e.Text {
		rec.Text[lang.String()] = localizedTextRecord{Name: text.Name, Description: text.Description}
	}
	for lang, phrases := range e.Features {
		rec.Features[lang.String()] = append([]string{}, phrases...)
	}
	return rec
}

func (r *entryRecord) toDomain() (*domain.Entry, error) {
	text := make(map[i18n.Language]i18n.LocalizedText, len(r.Text))
	for lang, t := range r.Text {
		text[i18n.Language(lang)] = i18n.LocalizedText{Name: t.Name, Description: t.Description}
	}
	entry, err := domain.NewEntry(r.ID, text, r.Price)
	if err != nil {
		return nil, fmt.Errorf("decode catalog entry %s: %w", r.ID, err)
	}
	entry.Classify(r.Category, r.Subcategory)
	entry.ReplaceTags(r.Tags)
	for lang, phrases := range r.Features {
		if err := entry.ReplaceFeatures(i18n.Language(lang), phrases); err != nil {
			return nil, fmt.Errorf("decode catalog entry %s: %w", r.ID, err)
		}
	}
	return entry, nil
}

// Create inserts an entry, reporting ErrAlreadyExists when the ID is taken.
func (r *Repository) Create(ctx context.Context, entry *domain.Entry) (*projection.Projection[*domain.Entry], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, errors.New("cannot create nil catalog entry")
	}
	record := newEntryRecord(entry)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrAlreadyExists
	}
	return r.GetByID(ctx, entry.ID)
}

// Save inserts or updates an entry. CreatedAt, and therefore catalog order, is kept on update.
func (r *Repository) Save(ctx context.Context, entry *domain.Entry) (*projection.Projection[*domain.Entry], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, errors.New("cannot save nil catalog entry")
	}
	record := newEntryRecord(entry)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"text", "category", "subcategory", "tags", "features", "price", "updated_at"}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, entry.ID)
}

// GetByID fetches an entry by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Entry], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record entryRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return toProjection(&record)
}

// Delete removes an entry by identifier.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&entryRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns the catalog ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]*projection.Projection[*domain.Entry], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []entryRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Entry], 0, len(records))
	for i := range records {
		p, err := toProjection(&records[i])
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toProjection(record *entryRecord) (*projection.Projection[*domain.Entry], error) {
	entry, err := record.toDomain()
	if err != nil {
		return nil, err
	}
	return projection.New(entry, record.CreatedAt, record.UpdatedAt), nil
}
