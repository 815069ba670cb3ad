package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters never automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&catalogEntryRecord{},
		&orderRecord{},
		&orderTimelineRecord{},
		&orderIdempotencyRecord{},
	)
}

// Catalog schema mirrors the catalog Postgres adapter.
type catalogEntryRecord struct {
	ID          string          `gorm:"primaryKey;column:id;size:64"`
	Text        map[string]any  `gorm:"column:text;type:jsonb;serializer:json"`
	Category    string          `gorm:"column:category;index"`
	Subcategory string          `gorm:"column:subcategory"`
	Tags        pq.StringArray  `gorm:"column:tags;type:text[]"`
	Features    map[string]any  `gorm:"column:features;type:jsonb;serializer:json"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	CreatedAt   time.Time       `gorm:"column:created_at;index"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (catalogEntryRecord) TableName() string { return "catalog_entries" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID              string          `gorm:"primaryKey;column:id;size:64"`
	TrackingCode    string          `gorm:"column:tracking_code;size:32;uniqueIndex"`
	Status          string          `gorm:"column:status;type:varchar(32);index"`
	CustomerName    string          `gorm:"column:customer_name"`
	CustomerPhone   string          `gorm:"column:customer_phone"`
	CustomerAddress string          `gorm:"column:customer_address"`
	Items           []any           `gorm:"column:items;type:jsonb;serializer:json"`
	DeliveryFee     decimal.Decimal `gorm:"column:delivery_fee;type:numeric(12,2)"`
	AmountDue       decimal.Decimal `gorm:"column:amount_due;type:numeric(12,2)"`
	PlacedAt        time.Time       `gorm:"column:placed_at"`
	StatusChangedAt time.Time       `gorm:"column:status_changed_at"`
	CreatedAt       time.Time       `gorm:"column:created_at;index"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Timeline rows are append-only; (order_id, seq) orders them.
type orderTimelineRecord struct {
	ID         int64             `gorm:"primaryKey;column:id;autoIncrement"`
	OrderID    string            `gorm:"column:order_id;size:64;uniqueIndex:idx_order_timeline_seq"`
	Seq        int               `gorm:"column:seq;uniqueIndex:idx_order_timeline_seq"`
	Status     string            `gorm:"column:status;type:varchar(32)"`
	Message    map[string]string `gorm:"column:message;type:jsonb;serializer:json"`
	OccurredAt time.Time         `gorm:"column:occurred_at"`
}

func (orderTimelineRecord) TableName() string { return "order_timeline" }

// Idempotency schema mirrors the checkout idempotency store.
type orderIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderIdempotencyRecord) TableName() string { return "order_idempotency_keys" }
