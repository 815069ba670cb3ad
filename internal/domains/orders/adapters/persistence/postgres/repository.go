package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
	"github.com/Apurer/go-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their timelines in PostgreSQL. Every write
// runs in one transaction so an order row never disagrees with its timeline.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed order store. Schema is owned by platform/migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type lineItemRecord struct {
	EntryID   string          `json:"entryId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type orderRecord struct {
	ID              string           `gorm:"primaryKey;column:id;size:64"`
	TrackingCode    string           `gorm:"column:tracking_code;size:32;uniqueIndex"`
	Status          string           `gorm:"column:status;type:varchar(32);index"`
	CustomerName    string           `gorm:"column:customer_name"`
	CustomerPhone   string           `gorm:"column:customer_phone"`
	CustomerAddress string           `gorm:"column:customer_address"`
	Items           []lineItemRecord `gorm:"column:items;type:jsonb;serializer:json"`
	DeliveryFee     decimal.Decimal  `gorm:"column:delivery_fee;type:numeric(12,2)"`
	AmountDue       decimal.Decimal  `gorm:"column:amount_due;type:numeric(12,2)"`
	PlacedAt        time.Time        `gorm:"column:placed_at"`
	StatusChangedAt time.Time        `gorm:"column:status_changed_at"`
	CreatedAt       time.Time        `gorm:"column:created_at;index"`
	UpdatedAt       time.Time        `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type timelineRecord struct {
	ID         int64             `gorm:"primaryKey;column:id;autoIncrement"`
	OrderID    string            `gorm:"column:order_id;size:64;uniqueIndex:idx_order_timeline_seq"`
	Seq        int               `gorm:"column:seq;uniqueIndex:idx_order_timeline_seq"`
	Status     string            `gorm:"column:status;type:varchar(32)"`
	Message    map[string]string `gorm:"column:message;type:jsonb;serializer:json"`
	OccurredAt time.Time         `gorm:"column:occurred_at"`
}

func (timelineRecord) TableName() string { return "order_timeline" }

func newOrderRecord(o *domain.Order) orderRecord {
	rec := orderRecord{
		ID:              o.ID,
		TrackingCode:    o.TrackingCode,
		Status:          o.Status.String(),
		CustomerName:    o.Customer.Name,
		CustomerPhone:   o.Customer.Phone,
		CustomerAddress: o.Customer.Address,
		Items:           make([]lineItemRecord, 0, len(o.Items)),
		DeliveryFee:     o.DeliveryFee,
		AmountDue:       o.AmountDue,
		PlacedAt:        o.CreatedAt,
		StatusChangedAt: o.StatusChangedAt,
	}
	for _, item := range o.Items {
		rec.Items = append(rec.Items, lineItemRecord{
			EntryID:   item.EntryID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return rec
}

func (r *orderRecord) toDomain() (*domain.Order, error) {
	status, err := domain.ParseStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("decode order %s: %w", r.ID, err)
	}
	order := &domain.Order{
		ID:              r.ID,
		TrackingCode:    r.TrackingCode,
		Status:          status,
		Customer:        domain.Customer{Name: r.CustomerName, Phone: r.CustomerPhone, Address: r.CustomerAddress},
		Items:           make([]domain.LineItem, 0, len(r.Items)),
		DeliveryFee:     r.DeliveryFee,
		AmountDue:       r.AmountDue,
		CreatedAt:       r.PlacedAt.UTC(),
		StatusChangedAt: r.StatusChangedAt.UTC(),
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.LineItem{
			EntryID:   item.EntryID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return order, nil
}

func newTimelineRecord(entry domain.TimelineEntry, seq int) timelineRecord {
	message := make(map[string]string, len(entry.Message))
	for lang, text := range entry.Message {
		message[lang.String()] = text
	}
	return timelineRecord{
		OrderID:    entry.OrderID,
		Seq:        seq,
		Status:     entry.Status.String(),
		Message:    message,
		OccurredAt: entry.Timestamp,
	}
}

func (r *timelineRecord) toDomain() (domain.TimelineEntry, error) {
	status, err := domain.ParseStatus(r.Status)
	if err != nil {
		return domain.TimelineEntry{}, fmt.Errorf("decode timeline entry %d: %w", r.ID, err)
	}
	message := make(i18n.LocalizedMessage, len(r.Message))
	for lang, text := range r.Message {
		message[i18n.Language(lang)] = text
	}
	return domain.TimelineEntry{
		OrderID:   r.OrderID,
		Status:    status,
		Message:   message,
		Timestamp: r.OccurredAt.UTC(),
	}, nil
}

// Create inserts the order and its first timeline entry in one transaction.
func (r *Repository) Create(ctx context.Context, order *domain.Order, first domain.TimelineEntry) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("cannot create nil order")
	}
	if err := domain.CheckInvariant(order, domain.Timeline{first}); err != nil {
		return nil, err
	}
	record := newOrderRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		entry := newTimelineRecord(first, 1)
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return toProjection(&record)
}

// ApplyTransition locks the order row, hands the current order to fn, and
// writes the new status with its timeline entry in the same transaction.
func (r *Repository) ApplyTransition(ctx context.Context, id string, fn ports.TransitionFunc) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var updated orderRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ports.NotFoundError{Field: "id", Value: id}
			}
			return err
		}
		current, err := record.toDomain()
		if err != nil {
			return err
		}
		var latestRecord timelineRecord
		if err := tx.Where("order_id = ?", id).Order("seq DESC").First(&latestRecord).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %s has no timeline", domain.ErrTimelineDiverged, id)
			}
			return err
		}
		latest, err := latestRecord.toDomain()
		if err != nil {
			return err
		}

		result, err := fn(current)
		if err != nil {
			return err
		}
		if result.Order == nil || result.Order.ID != id {
			return fmt.Errorf("%w: transition returned a different order", domain.ErrTimelineDiverged)
		}
		tail, err := domain.Timeline{latest}.Append(result.Entry)
		if err != nil {
			return err
		}
		if err := domain.CheckInvariant(result.Order, tail); err != nil {
			return err
		}

		if err := tx.Model(&record).Updates(map[string]any{
			"status":            result.Order.Status.String(),
			"status_changed_at": result.Order.StatusChangedAt,
			"updated_at":        time.Now().UTC(),
		}).Error; err != nil {
			return err
		}
		entry := newTimelineRecord(result.Entry, latestRecord.Seq+1)
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.First(&updated, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return toProjection(&updated)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Order], error) {
	return r.first(ctx, "id", id)
}

// GetByTrackingCode fetches an order by its customer-facing code.
func (r *Repository) GetByTrackingCode(ctx context.Context, code string) (*projection.Projection[*domain.Order], error) {
	return r.first(ctx, "tracking_code", code)
}

func (r *Repository) first(ctx context.Context, column, value string) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, column+" = ?", value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ports.NotFoundError{Field: notFoundField(column), Value: value}
		}
		return nil, err
	}
	return toProjection(&record)
}

// Timeline returns the order's entries, oldest first.
func (r *Repository) Timeline(ctx context.Context, orderID string) (domain.Timeline, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []timelineRecord
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("seq ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, &ports.NotFoundError{Field: "id", Value: orderID}
		}
	}
	timeline := make(domain.Timeline, 0, len(records))
	for i := range records {
		entry, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		timeline = append(timeline, entry)
	}
	return timeline, nil
}

// List returns every order, oldest first.
func (r *Repository) List(ctx context.Context) ([]*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Order], 0, len(records))
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
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func notFoundField(column string) string {
	if column == "tracking_code" {
		return "trackingCode"
	}
	return column
}

func toProjection(record *orderRecord) (*projection.Projection[*domain.Order], error) {
	order, err := record.toDomain()
	if err != nil {
		return nil, err
	}
	return projection.New(order, record.CreatedAt, record.UpdatedAt), nil
}
