package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_StockedOnly(t *testing.T) {
	c := Merge([]Item{{ID: "a", Title: "Foo"}}, nil)

	require.Equal(t, 1, c.Len())
	it, ok := c.Get("a")
	require.True(t, ok)
	assert.True(t, it.Stocked)
	assert.False(t, it.Liked)
}

func TestMerge_UnionOfIDs(t *testing.T) {
	tests := []struct {
		name    string
		stocked []Item
		liked   []Item
		want    int
	}{
		{"disjoint", []Item{{ID: "a", Title: "A"}}, []Item{{ID: "b", Title: "B"}}, 2},
		{"overlap", []Item{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}, []Item{{ID: "b", Title: "B"}}, 2},
		{"identical", []Item{{ID: "a", Title: "A"}}, []Item{{ID: "a", Title: "A"}}, 1},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Merge(tt.stocked, tt.liked)
			assert.Equal(t, tt.want, c.Len())
		})
	}
}

func TestMerge_BothFlagsOnOverlap(t *testing.T) {
	c := Merge(
		[]Item{{ID: "a", Title: "Shared", LikesCount: 7}},
		[]Item{{ID: "a", Title: ""}},
	)

	it, ok := c.Get("a")
	require.True(t, ok)
	assert.True(t, it.Stocked)
	assert.True(t, it.Liked)
	// the liked pass must not overwrite fields already present
	assert.Equal(t, "Shared", it.Title)
	assert.Equal(t, 7, it.LikesCount)
}

func TestMerge_DisplayOrderIsFirstSeen(t *testing.T) {
	c := Merge(
		[]Item{{ID: "s1", Title: "S1"}, {ID: "s2", Title: "S2"}},
		[]Item{{ID: "l1", Title: "L1"}, {ID: "s1", Title: "S1"}},
	)

	var ids []string
	for _, it := range c.Items() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"s1", "s2", "l1"}, ids)
}

func TestMerge_SkipsInvalidItems(t *testing.T) {
	c := Merge([]Item{{ID: "", Title: ""}}, []Item{{ID: "a", Title: "A"}})
	assert.Equal(t, 1, c.Len())
}

func TestCollection_ItemsExcludesRemoved(t *testing.T) {
	c := Merge([]Item{{ID: "a", Title: "A"}}, []Item{{ID: "a"}, {ID: "b", Title: "B"}})

	c.ClearStocked("a")
	assert.Len(t, c.Items(), 2, "still liked, must stay visible")

	c.ClearLiked("a")
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
}

func TestCollection_Search(t *testing.T) {
	stocked := []Item{
		{ID: "a", Title: "Understanding Goroutines", URL: "https://qiita.com/u/items/a"},
		{ID: "b", Title: "Docker Basics", Tags: []Tag{{Name: "Container", Slug: "container"}}},
	}
	c := Merge(stocked, nil)

	tests := []struct {
		query string
		want  []string
	}{
		{"goroutines", []string{"a"}},
		{"CONTAINER", []string{"b"}},
		{"qiita.com", []string{"a"}},
		{"", []string{"a", "b"}},
		{"nothing-matches", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var ids []string
			for _, it := range c.Search(tt.query) {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestItemReport_Removed(t *testing.T) {
	tests := []struct {
		name   string
		report ItemReport
		want   bool
	}{
		{"both succeeded", ItemReport{
			Unstock: ActionResult{Attempted: true, Succeeded: true},
			Unlike:  ActionResult{Attempted: true, Succeeded: true},
		}, true},
		{"only unlike attempted and succeeded", ItemReport{
			Unlike: ActionResult{Attempted: true, Succeeded: true},
		}, true},
		{"unstock failed", ItemReport{
			Unstock: ActionResult{Attempted: true},
			Unlike:  ActionResult{Attempted: true, Succeeded: true},
		}, false},
		{"nothing attempted", ItemReport{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.Removed())
		})
	}
}
