package repository

import (
	"time"

	"github.com/Ryutta/qiita-list/internal/models"
)

// Removal is one recorded removal action
type Removal struct {
	ID        int
	RunID     string
	ItemID    string
	Title     string
	Action    models.Action
	Succeeded bool
	RemovedAt time.Time
}

// AuditLog records removal actions for later inspection. Retention is the
// caller's choice; the retrieval and mutation paths work without one.
type AuditLog interface {
	Record(runID string, report models.ItemReport) error
	List(limit int) ([]Removal, error)
	Close() error
}
