// Package dbtest opens throwaway in-memory databases with the giveaway schema.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/disgoorg/keybot/keybot/database"
	"github.com/stretchr/testify/require"
)

var seq atomic.Int64

// Open returns a fresh SQLite database that is closed when t finishes.
func Open(t testing.TB) *database.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	ctx := context.Background()
	db, err := database.New(ctx, database.DBConfig{
		Driver: database.DriverSQLite,
		Path:   dsn,
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.InitializeSchema(ctx))
	return db
}
