package models

import "strings"

// Collection holds items keyed by id while preserving first-seen order
// for display and selection.
type Collection struct {
	byID  map[string]*Item
	order []string
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{byID: make(map[string]*Item)}
}

// Merge builds a collection from the two source sequences. Stocked items
// are inserted first and keep their arrival order; liked items either flip
// the Liked flag on an existing entry in place or are appended as new
// entries. Ids stay unique and flags are the OR of both sources.
func Merge(stocked, liked []Item) *Collection {
	c := NewCollection()
	for _, it := range stocked {
		it.Stocked = true
		c.upsert(it)
	}
	for _, it := range liked {
		it.Liked = true
		c.upsert(it)
	}
	return c
}

func (c *Collection) upsert(it Item) {
	if !it.Valid() {
		return
	}
	if existing, ok := c.byID[it.ID]; ok {
		existing.Stocked = existing.Stocked || it.Stocked
		existing.Liked = existing.Liked || it.Liked
		return
	}
	copied := it
	c.byID[it.ID] = &copied
	c.order = append(c.order, it.ID)
}

// Get returns the item with the given id
func (c *Collection) Get(id string) (*Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// Len returns the number of items, active or not
func (c *Collection) Len() int {
	return len(c.order)
}

// Items returns the active items in display order
func (c *Collection) Items() []Item {
	out := make([]Item, 0, len(c.order))
	for _, id := range c.order {
		if it := c.byID[id]; it.Active() {
			out = append(out, *it)
		}
	}
	return out
}

// Search returns the active items whose title, URL or tag names contain
// the query, case-insensitively. An empty query matches everything.
func (c *Collection) Search(query string) []Item {
	all := c.Items()
	if query == "" {
		return all
	}
	q := strings.ToLower(query)
	var matched []Item
	for _, it := range all {
		if strings.Contains(strings.ToLower(it.Title), q) ||
			strings.Contains(strings.ToLower(it.URL), q) {
			matched = append(matched, it)
			continue
		}
		for _, tag := range it.Tags {
			if strings.Contains(strings.ToLower(tag.Name), q) {
				matched = append(matched, it)
				break
			}
		}
	}
	return matched
}

// ClearStocked drops the stocked flag on the item with the given id
func (c *Collection) ClearStocked(id string) {
	if it, ok := c.byID[id]; ok {
		it.Stocked = false
	}
}

// ClearLiked drops the liked flag on the item with the given id
func (c *Collection) ClearLiked(id string) {
	if it, ok := c.byID[id]; ok {
		it.Liked = false
	}
}
