package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/agenttools/orm"
	"github.com/va6996/agenttools/tools"
)

func seedAudit(t *testing.T) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "audit.db")
	t.Setenv("AUDIT_DRIVER", "sqlite")
	t.Setenv("AUDIT_DSN", dsn)

	db, err := orm.Open("sqlite", dsn)
	require.NoError(t, err)
	store := orm.NewInvocationStore(db)

	ctx := context.Background()
	require.NoError(t, store.Record(ctx, tools.Invocation{
		RequestID: "req-1",
		Tool:      "get_books",
		Args:      map[string]interface{}{"book_title": "Dom Casmurro"},
		Duration:  12 * time.Millisecond,
	}))
	require.NoError(t, store.Record(ctx, tools.Invocation{
		RequestID: "req-2",
		Tool:      "get_news",
		Args:      map[string]interface{}{"topic": "eleições"},
		Err:       errors.New("upstream down"),
	}))
	require.NoError(t, db.Create(&orm.Invocation{
		RequestID: "req-0",
		Tool:      "get_books",
		Outcome:   orm.OutcomeOK,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}).Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestAuditListCommand(t *testing.T) {
	seedAudit(t)

	t.Run("All", func(t *testing.T) {
		out, err := run(t, "audit", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "req-1\tget_books\tok\t12ms\t{\"book_title\":\"Dom Casmurro\"}")
		assert.Contains(t, out, "req-2\tget_news\terror\t")
		assert.Contains(t, out, "\tupstream down\n")
		assert.Contains(t, out, "req-0")
	})

	t.Run("ByToolWithLimit", func(t *testing.T) {
		out, err := run(t, "audit", "list", "--tool", "get_books", "--limit", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "req-1")
		assert.NotContains(t, out, "req-0")
		assert.NotContains(t, out, "get_news")
	})
}

func TestAuditCleanupCommand(t *testing.T) {
	seedAudit(t)

	out, err := run(t, "audit", "cleanup", "--older-than", "24h")
	require.NoError(t, err)
	assert.Equal(t, "deleted 1 invocation(s)\n", out)

	out, err = run(t, "audit", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "req-0")
	assert.Contains(t, out, "req-1")

	_, err = run(t, "audit", "cleanup", "--older-than", "0s")
	assert.ErrorContains(t, err, "--older-than must be positive")
}

func TestAuditNotConfigured(t *testing.T) {
	t.Setenv("AUDIT_DRIVER", "")

	_, err := run(t, "audit", "list")
	assert.ErrorContains(t, err, "audit log not configured")
}
