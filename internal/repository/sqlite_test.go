package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ryutta/qiita-list/internal/models"
)

func testAuditLog(t *testing.T) *SQLiteAuditLog {
	t.Helper()
	log, err := NewSQLiteAuditLog(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func TestSQLiteAuditLog_RecordAndList(t *testing.T) {
	log := testAuditLog(t)

	err := log.Record("run-1", models.ItemReport{
		ItemID:  "abc",
		Title:   "First",
		Unstock: models.ActionResult{Attempted: true, Succeeded: true},
		Unlike:  models.ActionResult{Attempted: true, Succeeded: false},
	})
	require.NoError(t, err)

	removals, err := log.List(10)
	require.NoError(t, err)
	require.Len(t, removals, 2, "one row per attempted action")

	// newest first: unlike was written last
	assert.Equal(t, models.ActionUnlike, removals[0].Action)
	assert.False(t, removals[0].Succeeded)
	assert.Equal(t, models.ActionUnstock, removals[1].Action)
	assert.True(t, removals[1].Succeeded)
	assert.Equal(t, "run-1", removals[0].RunID)
	assert.Equal(t, "abc", removals[0].ItemID)
	assert.False(t, removals[0].RemovedAt.IsZero())
}

func TestSQLiteAuditLog_UnattemptedActionsNotRecorded(t *testing.T) {
	log := testAuditLog(t)

	err := log.Record("run-2", models.ItemReport{
		ItemID: "only-liked",
		Unlike: models.ActionResult{Attempted: true, Succeeded: true},
	})
	require.NoError(t, err)

	removals, err := log.List(10)
	require.NoError(t, err)
	require.Len(t, removals, 1)
	assert.Equal(t, models.ActionUnlike, removals[0].Action)
}

func TestSQLiteAuditLog_ListLimit(t *testing.T) {
	log := testAuditLog(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, log.Record("run-3", models.ItemReport{
			ItemID:  "item",
			Unstock: models.ActionResult{Attempted: true, Succeeded: true},
		}))
	}

	removals, err := log.List(3)
	require.NoError(t, err)
	assert.Len(t, removals, 3)
}
