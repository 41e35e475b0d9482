// Package testutil wires an in-memory sqlite database for package tests.
package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/scienceol/labmate/pkg/middleware/db"
	"github.com/scienceol/labmate/pkg/repo/migrate"
	"github.com/stretchr/testify/require"
)

// SetupDB opens a fresh shared-cache sqlite database named after the test
// and migrates every table. The database is closed on cleanup.
func SetupDB(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db.InitDB(ctx, &db.Config{
		Driver:  db.DriverSQLite,
		Path:    "file:" + name + "?mode=memory&cache=shared",
		LogConf: db.LogConf{Level: "silent"},
	})
	t.Cleanup(func() { db.CloseDB(ctx) })
	require.NoError(t, migrate.Table(ctx))
}
