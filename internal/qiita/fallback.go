package qiita

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Ryutta/qiita-list/internal/models"
)

// likeSource is one self-contained way of acquiring liked items. The bool
// result of FetchPage flags a definitive last page; ErrNotApplicable (alone
// or wrapped) means the source cannot serve this user at all.
type likeSource interface {
	Name() string
	FetchPage(ctx context.Context, userID string, page int) ([]models.Item, bool, error)
}

// apiLikeSource serves liked items from the documented endpoint. The
// endpoint does not exist on every deployment, so any non-2xx answer makes
// the source not applicable rather than failing hard.
type apiLikeSource struct {
	c *Client
}

func newAPILikeSource(c *Client) *apiLikeSource {
	return &apiLikeSource{c: c}
}

func (s *apiLikeSource) Name() string { return "api" }

func (s *apiLikeSource) FetchPage(ctx context.Context, userID string, page int) ([]models.Item, bool, error) {
	items, err := s.c.FetchLikesPage(ctx, userID, page)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			if se.Unauthorized() {
				s.c.logger.Warn("likes endpoint rejected the credential; the token may be missing a scope", "status", se.Code)
			}
			return nil, false, fmt.Errorf("likes endpoint status %d: %w", se.Code, ErrNotApplicable)
		}
		return nil, false, err
	}
	return items, false, nil
}

// Coordinator tries like sources in fixed priority order and runs the
// stocked-items retrieval. The policy: prefer the most structured source
// and degrade only when a stronger one is unavailable, never when it
// definitively answers "nothing there". Zero is a valid final answer from
// any source that applied.
type Coordinator struct {
	client  *Client
	pager   *Pager
	sources []likeSource
	logger  *slog.Logger
}

// NewCoordinator builds the default priority chain: documented API, then
// internal query, then HTML scrape.
func NewCoordinator(client *Client) *Coordinator {
	return &Coordinator{
		client: client,
		pager:  NewPager(client.cfg.MaxPages),
		sources: []likeSource{
			newAPILikeSource(client),
			newInternalQuerySource(client),
			newScrapeSource(client),
		},
		logger: client.logger,
	}
}

// GetAllLikes retrieves the user's liked items. A source that proves not
// applicable before producing anything passes the turn to the next one; a
// source that produced items, or definitively produced none, is final. An
// error after partial accumulation keeps the partial data, which beats
// returning none, and is logged, never fatal.
func (co *Coordinator) GetAllLikes(ctx context.Context, userID string) []models.Item {
	for _, src := range co.sources {
		items, ceilingHit, err := co.pager.Collect(ctx, func(ctx context.Context, page int) ([]models.Item, bool, error) {
			return src.FetchPage(ctx, userID, page)
		})
		if errors.Is(err, ErrNotApplicable) && len(items) == 0 {
			co.logger.Debug("like source not applicable, falling back", "source", src.Name())
			continue
		}
		if err != nil {
			co.logger.Warn("like source ended early, keeping partial result", "source", src.Name(), "items", len(items), "error", err)
		}
		if ceilingHit {
			co.logger.Warn("page ceiling reached for likes", "source", src.Name(), "max_pages", co.pager.MaxPages)
		}
		co.logger.Debug("liked items retrieved", "source", src.Name(), "count", len(items))
		return items
	}
	return nil
}

// GetAllStocks retrieves the user's stocked items. Only the documented API
// serves stocks; there is no fallback. The error, if any, accompanies
// whatever was accumulated so the caller can degrade to a partial or empty
// contribution instead of aborting the run.
func (co *Coordinator) GetAllStocks(ctx context.Context, userID string) ([]models.Item, error) {
	items, ceilingHit, err := co.pager.Collect(ctx, func(ctx context.Context, page int) ([]models.Item, bool, error) {
		pageItems, ferr := co.client.FetchStocksPage(ctx, userID, page)
		return pageItems, false, ferr
	})
	if ceilingHit {
		co.logger.Warn("page ceiling reached for stocks", "max_pages", co.pager.MaxPages)
	}
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Unauthorized() {
			co.logger.Warn("stocks endpoint rejected the credential; set QIITA_ACCESS_TOKEN or pass --token", "status", se.Code)
		}
		return items, fmt.Errorf("fetching stocks: %w", err)
	}
	return items, nil
}
