//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformpg "strive/internal/platform/postgres"
	"strive/pkg/testutil/containers"
)

// The server applies the schema on every postgres startup, so EnsureSchema
// must be safe to run against a database that already has the tables.
func TestEnsureSchemaIdempotent(t *testing.T) {
	pg := containers.GetManager().GetPostgres(t)
	ctx := context.Background()

	require.NoError(t, platformpg.EnsureSchema(ctx, pg.DB))
	require.NoError(t, platformpg.EnsureSchema(ctx, pg.DB))

	for _, table := range []string{"goals", "communities", "posts"} {
		var exists bool
		err := pg.DB.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)",
			table,
		).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist after EnsureSchema", table)
	}
}
