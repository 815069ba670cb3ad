package application

import (
	"context"
	"fmt"

	"github.com/Apurer/go-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-storefront-api/internal/domains/orders/ports"
)

// AuditFinding describes one order whose stored timeline does not match it.
type AuditFinding struct {
	OrderID string
	Status  domain.Status
	Err     error
}

// AuditTimelines checks every stored order against its timeline and returns
// the orders that diverge. It stops only on repository failures.
func AuditTimelines(ctx context.Context, repo ports.Repository) ([]AuditFinding, int, error) {
	orders, err := repo.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	findings := []AuditFinding{}
	for _, proj := range orders {
		order := proj.Entity
		timeline, err := repo.Timeline(ctx, order.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("load timeline of order %s: %w", order.ID, err)
		}
		if err := domain.CheckInvariant(order, timeline); err != nil {
			findings = append(findings, AuditFinding{OrderID: order.ID, Status: order.Status, Err: err})
		}
	}
	return findings, len(orders), nil
}
