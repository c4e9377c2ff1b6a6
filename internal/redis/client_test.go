package redis

import (
	"context"
	"testing"
	"time"

	"pizzeria/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Initialize("redis://"+mr.Addr(), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestStoreAndGetStatusHistory(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	require.NoError(t, client.StoreStatusHistory(ctx, 7, []models.StatusChangeRecord{
		{OrderID: 7, OldStatus: models.OrderPending, NewStatus: models.OrderConfirmed, ChangedAt: now, Automatic: true},
		{OrderID: 7, OldStatus: models.OrderConfirmed, NewStatus: models.OrderPreparing, ChangedAt: now.Add(6 * time.Minute)},
	}))

	records, found, err := client.GetStatusHistory(ctx, 7)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, records, 2)
	assert.Equal(t, models.OrderConfirmed, records[0].NewStatus)
	assert.Equal(t, models.OrderPreparing, records[1].NewStatus)
	assert.True(t, records[0].Automatic)

	assert.Equal(t, time.Hour, mr.TTL(historyKey(7)))
}

func TestInvalidateStatusHistory(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.StoreStatusHistory(ctx, 11, []models.StatusChangeRecord{
		{OrderID: 11, OldStatus: models.OrderReady, NewStatus: models.OrderCompleted},
	}))
	require.NoError(t, client.InvalidateStatusHistory(ctx, 11))
	assert.False(t, mr.Exists(historyKey(11)))

	require.NoError(t, client.InvalidateStatusHistory(ctx, 12))

	_, found, err := client.GetStatusHistory(ctx, 11)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreStatusHistoryReportsFailure(t *testing.T) {
	client, mr := newTestClient(t)
	mr.SetError("server unavailable")

	err := client.StoreStatusHistory(context.Background(), 5, []models.StatusChangeRecord{{OrderID: 5}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store status history")
}

func TestGetStatusHistoryMiss(t *testing.T) {
	client, _ := newTestClient(t)

	records, found, err := client.GetStatusHistory(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, records)
}

func TestStoreStatusHistoryReplaces(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.StoreStatusHistory(ctx, 3, []models.StatusChangeRecord{{OrderID: 3, NewStatus: models.OrderCancelled}}))
	require.NoError(t, client.StoreStatusHistory(ctx, 3, []models.StatusChangeRecord{
		{OrderID: 3, OldStatus: models.OrderPending, NewStatus: models.OrderConfirmed},
	}))

	records, found, err := client.GetStatusHistory(ctx, 3)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, records, 1)
	assert.Equal(t, models.OrderConfirmed, records[0].NewStatus)
}
