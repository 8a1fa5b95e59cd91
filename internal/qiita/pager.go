package qiita

import (
	"context"

	"github.com/Ryutta/qiita-list/internal/config"
	"github.com/Ryutta/qiita-list/internal/models"
)

// PageFunc fetches one page of items. The bool result signals a definitive
// last page; an empty page is always terminal regardless of it.
type PageFunc func(ctx context.Context, page int) ([]models.Item, bool, error)

// Pager drives a PageFunc from page 1 upward and concatenates the results.
type Pager struct {
	MaxPages int
}

// NewPager creates a pager with the given hard page ceiling. Zero or
// negative falls back to the configured default.
func NewPager(maxPages int) *Pager {
	if maxPages <= 0 {
		maxPages = config.DefaultMaxPages
	}
	return &Pager{MaxPages: maxPages}
}

// Collect accumulates pages until an empty page, an explicit last-page
// signal, an error, or the page ceiling. The second result reports whether
// the ceiling cut the run short; that is a signal, not an error. On error
// the items gathered so far are still returned; the caller decides whether
// partial data is acceptable. The pager itself never retries.
func (p *Pager) Collect(ctx context.Context, fn PageFunc) ([]models.Item, bool, error) {
	var all []models.Item
	for page := 1; ; page++ {
		if page > p.MaxPages {
			return all, true, nil
		}
		items, last, err := fn(ctx, page)
		if err != nil {
			return all, false, err
		}
		all = append(all, items...)
		if last || len(items) == 0 {
			return all, false, nil
		}
	}
}
