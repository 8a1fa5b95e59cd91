package models

// UnknownAuthor is used when an item's author cannot be resolved
const UnknownAuthor = "unknown"

// Tag is a single label attached to an item
type Tag struct {
	Name string
	Slug string
}

// Item represents one content item together with its membership flags.
// All three acquisition paths normalize into this shape; fields that a
// weaker source cannot resolve keep their zero value (AuthorID falls back
// to UnknownAuthor).
type Item struct {
	ID         string
	Title      string
	URL        string
	AuthorID   string
	Tags       []Tag
	LikesCount int
	CreatedAt  string
	Stocked    bool
	Liked      bool
}

// Valid reports whether the item carries enough identity to be displayed
func (i Item) Valid() bool {
	return i.ID != "" || i.Title != ""
}

// Active reports whether the item still belongs to the displayable set.
// An item with both flags cleared has been fully removed.
func (i Item) Active() bool {
	return i.Stocked || i.Liked
}

// TagNames returns the ordered tag names
func (i Item) TagNames() []string {
	names := make([]string, 0, len(i.Tags))
	for _, t := range i.Tags {
		names = append(names, t.Name)
	}
	return names
}
