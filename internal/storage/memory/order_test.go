package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rincon-pacifico/orders-api/internal/domain/order"
)

func newTestOrder(phone string) *order.Order {
	return &order.Order{
		CustomerName:    "Ana Morales",
		CustomerPhone:   phone,
		CustomerAddress: "Av. del Mar 12",
		TotalAmount:     decimal.RequireFromString("85.00"),
		Status:          order.StatusPending,
		Items: []order.Item{
			{MenuItemID: "ceviche-pacifico", Quantity: 1, Price: decimal.RequireFromString("85.00")},
		},
	}
}

func TestListByPhoneNewestFirst(t *testing.T) {
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	repo := NewOrderRepository()
	clock := base
	repo.now = func() time.Time { return clock }

	ctx := context.Background()

	// Created in chronological order: oldest gets the smallest ID.
	for _, offset := range []time.Duration{0, time.Minute, time.Hour} {
		clock = base.Add(offset)
		require.NoError(t, repo.Create(ctx, newTestOrder("555-0101")))
	}

	got, err := repo.ListByPhone(ctx, "555-0101")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, base.Add(time.Hour), got[0].CreatedAt)
	assert.Equal(t, base.Add(time.Minute), got[1].CreatedAt)
	assert.Equal(t, base, got[2].CreatedAt)
	for i := 1; i < len(got); i++ {
		assert.Truef(t, !got[i-1].CreatedAt.Before(got[i].CreatedAt),
			"order %d created before its successor", i-1)
	}
}

func TestListByPhoneTimestampTieBreaksOnID(t *testing.T) {
	at := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	repo := NewOrderRepository()
	repo.now = func() time.Time { return at }

	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newTestOrder("555-0101")))
	require.NoError(t, repo.Create(ctx, newTestOrder("555-0101")))

	got, err := repo.ListByPhone(ctx, "555-0101")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Same timestamp: the later insert (higher ID) still comes first.
	assert.Greater(t, got[0].ID, got[1].ID)
}

func TestListByPhoneFiltersByPhone(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestOrder("555-0101")))
	require.NoError(t, repo.Create(ctx, newTestOrder("555-0202")))

	got, err := repo.ListByPhone(ctx, "555-0101")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "555-0101", got[0].CustomerPhone)

	got, err = repo.ListByPhone(ctx, "555-0000")
	require.NoError(t, err)
	assert.Empty(t, got)
}
