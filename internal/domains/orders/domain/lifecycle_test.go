package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_PendingToDeliveredIsAccepted(t *testing.T) {
	order, timeline := newPendingOrder(t)
	now := orderCreatedAt.Add(time.Hour)

	result, err := Transition(order, StatusDelivered, stubMessages{}, now)
	require.NoError(t, err)

	assert.Equal(t, StatusDelivered, result.Order.Status)
	assert.Equal(t, now, result.Order.StatusChangedAt)
	assert.Equal(t, StatusDelivered, result.Entry.Status)
	assert.Equal(t, order.ID, result.Entry.OrderID)
	assert.Equal(t, "status delivered", result.Entry.Message["en"])

	timeline, err = timeline.Append(result.Entry)
	require.NoError(t, err)
	assert.Len(t, timeline, 2)
	require.NoError(t, CheckInvariant(result.Order, timeline))
}

func TestTransition_DoesNotMutateInput(t *testing.T) {
	order, _ := newPendingOrder(t)

	_, err := Transition(order, StatusShipped, stubMessages{}, orderCreatedAt.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, orderCreatedAt, order.StatusChangedAt)
}

func TestTransition_BackwardAndRepeatedMovesAreAccepted(t *testing.T) {
	order, _ := newPendingOrder(t)
	steps := []Status{StatusShipped, StatusConfirmed, StatusConfirmed, StatusPending}

	current := order
	for i, status := range steps {
		result, err := Transition(current, status, stubMessages{}, orderCreatedAt.Add(time.Duration(i+1)*time.Minute))
		require.NoError(t, err, status)
		current = result.Order
	}
	assert.Equal(t, StatusPending, current.Status)
}

func TestTransition_CancelledIsTerminal(t *testing.T) {
	order, timeline := newPendingOrder(t)
	cancelled, err := Transition(order, StatusCancelled, stubMessages{}, orderCreatedAt.Add(time.Minute))
	require.NoError(t, err)
	timeline, err = timeline.Append(cancelled.Entry)
	require.NoError(t, err)

	for _, requested := range append(Statuses(), Status("bogus")) {
		result, err := Transition(cancelled.Order, requested, stubMessages{}, orderCreatedAt.Add(time.Hour))
		require.ErrorIs(t, err, ErrTerminalState, requested)

		var terminalErr *TerminalStateError
		require.ErrorAs(t, err, &terminalErr)
		assert.Equal(t, order.ID, terminalErr.OrderID)
		assert.Equal(t, StatusCancelled, terminalErr.Status)
		assert.Nil(t, result.Order)
	}
	assert.Equal(t, StatusCancelled, cancelled.Order.Status)
	assert.Len(t, timeline, 2)
}

func TestTransition_UnknownStatusIsValidationError(t *testing.T) {
	order, _ := newPendingOrder(t)

	_, err := Transition(order, Status("lost"), stubMessages{}, orderCreatedAt.Add(time.Minute))
	require.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrTerminalState)
	assert.Equal(t, StatusPending, order.Status)
}

func TestTransition_ClampsClockSkew(t *testing.T) {
	order, timeline := newPendingOrder(t)

	result, err := Transition(order, StatusConfirmed, stubMessages{}, orderCreatedAt.Add(-time.Hour))
	require.NoError(t, err)

	assert.Equal(t, orderCreatedAt, result.Entry.Timestamp)
	_, err = timeline.Append(result.Entry)
	require.NoError(t, err)
}

func TestTransition_TimelineInvariantHoldsForAnySequence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	candidates := append(Statuses(), Status("unknown"), Status(""))

	for run := 0; run < 50; run++ {
		order, timeline := newPendingOrder(t)
		now := orderCreatedAt
		for step := 0; step < 20; step++ {
			// occasionally step the clock backwards
			now = now.Add(time.Duration(rng.Intn(120)-20) * time.Second)
			requested := candidates[rng.Intn(len(candidates))]

			result, err := Transition(order, requested, stubMessages{}, now)
			if err != nil {
				assert.True(t, order.Status.IsTerminal() || !requested.IsValid(), "unexpected rejection of %s -> %s", order.Status, requested)
				require.NoError(t, CheckInvariant(order, timeline))
				continue
			}
			timeline, err = timeline.Append(result.Entry)
			require.NoError(t, err)
			order = result.Order
			require.NoError(t, CheckInvariant(order, timeline))
		}
	}
}
