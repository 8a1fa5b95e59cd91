package repository

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Ryutta/qiita-list/internal/models"
)

// SQLiteAuditLog implements AuditLog using SQLite
type SQLiteAuditLog struct {
	db *sql.DB
}

// NewSQLiteAuditLog opens (and if needed initializes) the audit database
func NewSQLiteAuditLog(dbPath string) (*SQLiteAuditLog, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteAuditLog{db: db}, nil
}

func initSchema(db *sql.DB) error {
	createTables := `
	CREATE TABLE IF NOT EXISTS removals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		title TEXT,
		action TEXT NOT NULL,
		succeeded INTEGER NOT NULL,
		removed_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_removals_run ON removals(run_id);
	CREATE INDEX IF NOT EXISTS idx_removals_item ON removals(item_id);
	`
	_, err := db.Exec(createTables)
	return err
}

// Record stores one attempted action per row for the given report
func (r *SQLiteAuditLog) Record(runID string, report models.ItemReport) error {
	now := time.Now().UTC().Format(time.RFC3339)

	write := func(action models.Action, res models.ActionResult) error {
		if !res.Attempted {
			return nil
		}
		_, err := r.db.Exec(
			`INSERT INTO removals(run_id, item_id, title, action, succeeded, removed_at) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, report.ItemID, report.Title, string(action), res.Succeeded, now,
		)
		return err
	}

	if err := write(models.ActionUnstock, report.Unstock); err != nil {
		return fmt.Errorf("recording unstock: %w", err)
	}
	if err := write(models.ActionUnlike, report.Unlike); err != nil {
		return fmt.Errorf("recording unlike: %w", err)
	}
	return nil
}

// List returns the most recent removals, newest first
func (r *SQLiteAuditLog) List(limit int) ([]Removal, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`
		SELECT id, run_id, item_id, title, action, succeeded, removed_at
		FROM removals
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var removals []Removal
	for rows.Next() {
		var rec Removal
		var action, removedAt string
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.ItemID, &rec.Title, &action, &rec.Succeeded, &removedAt); err != nil {
			return nil, err
		}
		rec.Action = models.Action(action)
		if ts, perr := time.Parse(time.RFC3339, removedAt); perr == nil {
			rec.RemovedAt = ts
		}
		removals = append(removals, rec)
	}
	return removals, rows.Err()
}

// Close closes the database connection
func (r *SQLiteAuditLog) Close() error {
	return r.db.Close()
}
