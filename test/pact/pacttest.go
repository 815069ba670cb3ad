//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "storefront-api"
	ConsumerName = "storefront-web"

	StateCatalogMugs    = "catalog contains the love and magic mugs"
	StateOrderPending   = "order pact-order-1 is pending"
	StateOrderCancelled = "order pact-order-2 is cancelled"
	StateNoOrders       = "no orders exist"
)

const (
	PendingOrderID      = "pact-order-1"
	PendingTrackingCode = "SF-PACT000001"

	CancelledOrderID      = "pact-order-2"
	CancelledTrackingCode = "SF-PACT000002"

	MissingTrackingCode = "SF-0000000000"
)

// CatalogEntry describes a catalog entry seeded for contract interactions.
type CatalogEntry struct {
	ID     string
	NameEN string
	NameBN string
	Tags   []string
	Price  string
}

// ExampleCatalog returns the entries behind StateCatalogMugs, in catalog order.
func ExampleCatalog() []CatalogEntry {
	return []CatalogEntry{
		{ID: "love-mug", NameEN: "Love Mug", NameBN: "ভালোবাসার মগ", Tags: []string{"love", "mug"}, Price: "350.50"},
		{ID: "magic-mug", NameEN: "Magic Mug", NameBN: "জাদুর মগ", Tags: []string{"magic"}, Price: "420"},
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
