package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/converter"
	"go.temporal.io/sdk/testsuite"

	"github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/messages"
	orderapp "github.com/Apurer/go-storefront-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/go-storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-storefront-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-storefront-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-storefront-api/internal/platform/temporal/activities/orders"
)

type staticCatalog struct{}

func (staticCatalog) LookupEntry(_ context.Context, id string) (*orderports.CatalogItem, error) {
	if id != "love-mug" {
		return nil, orderports.ErrUnknownEntry
	}
	return &orderports.CatalogItem{ID: id, Name: "Love Mug", UnitPrice: decimal.NewFromInt(350)}, nil
}

func newWorkflowEnv(t *testing.T) (*testsuite.TestWorkflowEnvironment, *memory.Repository) {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	repo := memory.NewRepository()
	svc := orderapp.NewService(repo, staticCatalog{}, messages.NewProvider())
	acts := orderactivities.NewActivities(svc, repo)
	env.RegisterActivityWithOptions(acts.PersistOrder, activity.RegisterOptions{Name: orderactivities.PersistOrderActivityName})
	env.RegisterActivityWithOptions(acts.VerifyOrderTimeline, activity.RegisterOptions{Name: orderactivities.VerifyOrderTimelineActivityName})
	return env, repo
}

func checkout(entryID string) ordertypes.PlaceOrderInput {
	return ordertypes.PlaceOrderInput{
		Customer: ordertypes.CustomerInput{Name: "Rahim", Phone: "01700000000", Address: "Dhaka"},
		Items:    []ordertypes.LineItemInput{{EntryID: entryID, Quantity: 2}},
	}
}

func TestOrderPlacementWorkflow_PersistsPendingOrder(t *testing.T) {
	env, repo := newWorkflowEnv(t)

	env.ExecuteWorkflow(OrderPlacementWorkflow, OrderPlacementWorkflowInput{Command: checkout("love-mug"), TraceID: "trace-1"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var projection ordertypes.OrderProjection
	require.NoError(t, env.GetWorkflowResult(&projection))
	require.NotNil(t, projection.Entity)
	assert.Equal(t, domain.StatusPending, projection.Entity.Status)
	assert.True(t, decimal.NewFromInt(700).Equal(projection.Entity.AmountDue))

	stored, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestOrderPlacementWorkflow_RejectsUnknownEntryWithoutRetry(t *testing.T) {
	env, repo := newWorkflowEnv(t)
	attempts := 0
	env.SetOnActivityStartedListener(func(info *activity.Info, _ context.Context, _ converter.EncodedValues) {
		if info.ActivityType.Name == orderactivities.PersistOrderActivityName {
			attempts++
		}
	})

	env.ExecuteWorkflow(OrderPlacementWorkflow, OrderPlacementWorkflowInput{Command: checkout("missing")})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	assert.Equal(t, 1, attempts)

	stored, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}
