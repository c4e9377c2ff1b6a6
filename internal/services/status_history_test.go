package services

import (
	"context"
	"errors"
	"testing"

	"pizzeria/internal/models"
	"pizzeria/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistoryCache struct {
	lists   map[uint][]models.StatusChangeRecord
	readErr error
}

func newFakeHistoryCache() *fakeHistoryCache {
	return &fakeHistoryCache{lists: map[uint][]models.StatusChangeRecord{}}
}

func (c *fakeHistoryCache) InvalidateStatusHistory(_ context.Context, orderID uint) error {
	delete(c.lists, orderID)
	return nil
}

// readingHistoryRepo queries the history right after each durable write,
// before Record gets to touch the cache.
type readingHistoryRepo struct {
	*fakeHistoryRepo
	history *StatusHistory
	t       *testing.T
}

func (r *readingHistoryRepo) Create(ctx context.Context, record *models.StatusChangeRecord) error {
	if err := r.fakeHistoryRepo.Create(ctx, record); err != nil {
		return err
	}
	_, err := r.history.Query(ctx, record.OrderID)
	require.NoError(r.t, err)
	return nil
}

func (c *fakeHistoryCache) GetStatusHistory(_ context.Context, orderID uint) ([]models.StatusChangeRecord, bool, error) {
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	list, ok := c.lists[orderID]
	return list, ok, nil
}

func (c *fakeHistoryCache) StoreStatusHistory(_ context.Context, orderID uint, records []models.StatusChangeRecord) error {
	c.lists[orderID] = append([]models.StatusChangeRecord(nil), records...)
	return nil
}

func TestStatusHistoryWarmsCacheOnMiss(t *testing.T) {
	repo := &fakeHistoryRepo{}
	cache := newFakeHistoryCache()
	h := NewStatusHistory(repo, cache, logging.Discard())
	ctx := context.Background()

	require.NoError(t, h.Record(ctx, &models.StatusChangeRecord{OrderID: 4, OldStatus: models.OrderPending, NewStatus: models.OrderConfirmed}))
	assert.NotContains(t, cache.lists, uint(4))

	first, err := h.Query(ctx, 4)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, repo.reads)

	cached, err := h.Query(ctx, 4)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, 1, repo.reads)

	require.NoError(t, h.Record(ctx, &models.StatusChangeRecord{OrderID: 4, OldStatus: models.OrderConfirmed, NewStatus: models.OrderPreparing}))
	assert.NotContains(t, cache.lists, uint(4))

	second, err := h.Query(ctx, 4)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, models.OrderPreparing, second[1].NewStatus)
	assert.Equal(t, 2, repo.reads)
}

func TestStatusHistoryReadDuringRecordKeepsSingleEntry(t *testing.T) {
	repo := &readingHistoryRepo{fakeHistoryRepo: &fakeHistoryRepo{}, t: t}
	cache := newFakeHistoryCache()
	h := NewStatusHistory(repo, cache, logging.Discard())
	repo.history = h
	ctx := context.Background()

	require.NoError(t, h.Record(ctx, &models.StatusChangeRecord{OrderID: 9, OldStatus: models.OrderPending, NewStatus: models.OrderConfirmed}))

	records, err := h.Query(ctx, 9)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.OrderConfirmed, records[0].NewStatus)

	require.NoError(t, h.Record(ctx, &models.StatusChangeRecord{OrderID: 9, OldStatus: models.OrderConfirmed, NewStatus: models.OrderPreparing}))

	records, err = h.Query(ctx, 9)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.OrderPreparing, records[1].NewStatus)
}

func TestStatusHistoryFallsBackOnCacheError(t *testing.T) {
	repo := &fakeHistoryRepo{}
	cache := newFakeHistoryCache()
	cache.readErr = errors.New("connection reset")
	h := NewStatusHistory(repo, cache, logging.Discard())
	ctx := context.Background()

	require.NoError(t, h.Record(ctx, &models.StatusChangeRecord{OrderID: 2, NewStatus: models.OrderCancelled}))

	records, err := h.Query(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
