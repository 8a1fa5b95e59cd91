package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Ryutta/qiita-list/internal/models"
	"github.com/Ryutta/qiita-list/internal/repository"
)

// mutation concurrency; each selected item targets distinct resources so
// items are independent, only the per-item action order matters
const removeConcurrency = 4

// Retriever acquires the two source collections
type Retriever interface {
	GetAllStocks(ctx context.Context, userID string) ([]models.Item, error)
	GetAllLikes(ctx context.Context, userID string) []models.Item
}

// Mutator applies removal actions against the platform
type Mutator interface {
	Unstock(ctx context.Context, itemID string) (bool, error)
	Unlike(ctx context.Context, itemID string) (bool, error)
}

// CollectionService provides the merged working collection and the
// operations the CLI surfaces run against it.
type CollectionService struct {
	retriever Retriever
	mutator   Mutator
	audit     repository.AuditLog
	logger    *slog.Logger
}

// NewCollectionService creates a new collection service. The audit log is
// optional; nil disables retention.
func NewCollectionService(retriever Retriever, mutator Mutator, audit repository.AuditLog, logger *slog.Logger) *CollectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectionService{
		retriever: retriever,
		mutator:   mutator,
		audit:     audit,
		logger:    logger,
	}
}

// FetchAll retrieves stocked and liked items independently and merges them.
// A dead source degrades to an empty contribution; nothing here is fatal.
func (s *CollectionService) FetchAll(ctx context.Context, userID string) *models.Collection {
	stocked, err := s.retriever.GetAllStocks(ctx, userID)
	if err != nil {
		s.logger.Warn("stocked items retrieval degraded", "user", userID, "kept", len(stocked), "error", err)
	}
	liked := s.retriever.GetAllLikes(ctx, userID)

	s.logger.Info("collections retrieved", "user", userID, "stocked", len(stocked), "liked", len(liked))
	return models.Merge(stocked, liked)
}

// Remove applies unstock/unlike to each selected item. Actions on one item
// are independent of each other and of other items; a failure never blocks
// or rolls back anything else. Successful actions clear the matching flag
// in the collection, and fully cleared items leave the displayable set.
func (s *CollectionService) Remove(ctx context.Context, col *models.Collection, ids []string) models.Report {
	runID := uuid.NewString()
	results := make([]models.ItemReport, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(removeConcurrency)
	for i, id := range ids {
		item, ok := col.Get(id)
		if !ok || !item.Active() {
			continue
		}
		i, id, snapshot := i, id, *item
		g.Go(func() error {
			rep := models.ItemReport{ItemID: id, Title: snapshot.Title}
			if snapshot.Liked {
				rep.Unlike.Attempted = true
				ok, err := s.mutator.Unlike(gctx, id)
				rep.Unlike.Succeeded = ok
				if err != nil && !ok {
					s.logger.Warn("unlike did not confirm", "item", id, "error", err)
				}
			}
			if snapshot.Stocked {
				rep.Unstock.Attempted = true
				ok, err := s.mutator.Unstock(gctx, id)
				rep.Unstock.Succeeded = ok
				if err != nil && !ok {
					s.logger.Warn("unstock did not confirm", "item", id, "error", err)
				}
			}
			results[i] = rep
			return nil
		})
	}
	g.Wait()

	var report models.Report
	for _, rep := range results {
		if rep.ItemID == "" {
			continue
		}
		if rep.Unlike.Attempted && rep.Unlike.Succeeded {
			col.ClearLiked(rep.ItemID)
		}
		if rep.Unstock.Attempted && rep.Unstock.Succeeded {
			col.ClearStocked(rep.ItemID)
		}
		if s.audit != nil {
			if err := s.audit.Record(runID, rep); err != nil {
				s.logger.Warn("audit record failed", "item", rep.ItemID, "error", err)
			}
		}
		report.Items = append(report.Items, rep)
	}
	return report
}
