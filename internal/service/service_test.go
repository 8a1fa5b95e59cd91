package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ryutta/qiita-list/internal/models"
)

type fakeRetriever struct {
	stocked   []models.Item
	stocksErr error
	liked     []models.Item
}

func (f *fakeRetriever) GetAllStocks(ctx context.Context, userID string) ([]models.Item, error) {
	return f.stocked, f.stocksErr
}

func (f *fakeRetriever) GetAllLikes(ctx context.Context, userID string) []models.Item {
	return f.liked
}

type fakeMutator struct {
	mu       sync.Mutex
	unliked  []string
	unstocks []string
	failIDs  map[string]bool
}

func (f *fakeMutator) Unlike(ctx context.Context, itemID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unliked = append(f.unliked, itemID)
	if f.failIDs["unlike:"+itemID] {
		return false, errors.New("unlike rejected")
	}
	return true, nil
}

func (f *fakeMutator) Unstock(ctx context.Context, itemID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unstocks = append(f.unstocks, itemID)
	if f.failIDs["unstock:"+itemID] {
		return false, errors.New("unstock rejected")
	}
	return true, nil
}

func TestFetchAll_MergesBothSources(t *testing.T) {
	svc := NewCollectionService(&fakeRetriever{
		stocked: []models.Item{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}},
		liked:   []models.Item{{ID: "b", Title: "B"}, {ID: "c", Title: "C"}},
	}, &fakeMutator{}, nil, nil)

	col := svc.FetchAll(context.Background(), "alice")

	require.Equal(t, 3, col.Len())
	b, _ := col.Get("b")
	assert.True(t, b.Stocked)
	assert.True(t, b.Liked)
}

func TestFetchAll_StocksFailureDegradesToLikesOnly(t *testing.T) {
	svc := NewCollectionService(&fakeRetriever{
		stocksErr: errors.New("connect timeout"),
		liked:     []models.Item{{ID: "x", Title: "X"}},
	}, &fakeMutator{}, nil, nil)

	col := svc.FetchAll(context.Background(), "alice")

	require.Equal(t, 1, col.Len())
	x, _ := col.Get("x")
	assert.True(t, x.Liked)
	assert.False(t, x.Stocked)
}

func TestRemove_BothActionsForDualItem(t *testing.T) {
	mut := &fakeMutator{}
	svc := NewCollectionService(&fakeRetriever{}, mut, nil, nil)
	col := models.Merge(
		[]models.Item{{ID: "a", Title: "Dual"}},
		[]models.Item{{ID: "a"}},
	)

	report := svc.Remove(context.Background(), col, []string{"a"})

	require.Len(t, report.Items, 1)
	rep := report.Items[0]
	assert.True(t, rep.Unlike.Attempted)
	assert.True(t, rep.Unlike.Succeeded)
	assert.True(t, rep.Unstock.Attempted)
	assert.True(t, rep.Unstock.Succeeded)
	assert.True(t, rep.Removed())
	assert.Empty(t, col.Items(), "fully cleared item leaves the displayable set")
}

func TestRemove_PartialFailureKeepsRemainingFlag(t *testing.T) {
	mut := &fakeMutator{failIDs: map[string]bool{"unstock:a": true}}
	svc := NewCollectionService(&fakeRetriever{}, mut, nil, nil)
	col := models.Merge(
		[]models.Item{{ID: "a", Title: "Dual"}},
		[]models.Item{{ID: "a"}},
	)

	report := svc.Remove(context.Background(), col, []string{"a"})

	rep := report.Items[0]
	assert.True(t, rep.Unlike.Succeeded)
	assert.False(t, rep.Unstock.Succeeded)
	assert.False(t, rep.Removed())

	it, _ := col.Get("a")
	assert.True(t, it.Stocked, "failed action leaves its flag untouched")
	assert.False(t, it.Liked, "sibling success is never rolled back")
	assert.Len(t, col.Items(), 1)
}

func TestRemove_OnlyRelevantActionsAttempted(t *testing.T) {
	mut := &fakeMutator{}
	svc := NewCollectionService(&fakeRetriever{}, mut, nil, nil)
	col := models.Merge([]models.Item{{ID: "s", Title: "StockOnly"}}, nil)

	report := svc.Remove(context.Background(), col, []string{"s"})

	rep := report.Items[0]
	assert.True(t, rep.Unstock.Attempted)
	assert.False(t, rep.Unlike.Attempted)
	assert.Empty(t, mut.unliked)
}

func TestRemove_UnknownAndInactiveIDsSkipped(t *testing.T) {
	mut := &fakeMutator{}
	svc := NewCollectionService(&fakeRetriever{}, mut, nil, nil)
	col := models.Merge([]models.Item{{ID: "a", Title: "A"}}, nil)
	col.ClearStocked("a")

	report := svc.Remove(context.Background(), col, []string{"a", "missing"})

	assert.Empty(t, report.Items)
	assert.Empty(t, mut.unstocks)
}

func TestRemove_ManyItemsAllProcessed(t *testing.T) {
	mut := &fakeMutator{}
	svc := NewCollectionService(&fakeRetriever{}, mut, nil, nil)

	var stocked []models.Item
	var ids []string
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		stocked = append(stocked, models.Item{ID: id, Title: "t-" + id})
		ids = append(ids, id)
	}
	col := models.Merge(stocked, nil)

	report := svc.Remove(context.Background(), col, ids)

	assert.Len(t, report.Items, 8)
	assert.Len(t, mut.unstocks, 8)
	assert.Empty(t, col.Items())
}
