package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// Runs only against a local database: AGENCY_TEST_PG_DSN=postgres://...
func TestPostgresStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("AGENCY_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("AGENCY_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	s, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Reset(ctx))

	_, err = s.Load(ctx)
	require.ErrorIs(t, err, ErrNoSnapshot)

	want := sampleState()
	require.NoError(t, s.Save(ctx, want))
	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assertSameState(t, want, got)
	require.NoError(t, s.Reset(ctx))
}

func TestMigratorRequiresDSN(t *testing.T) {
	_, err := NewMigrator("")
	require.Error(t, err)
	_, err = OpenPostgres(context.Background(), "")
	require.Error(t, err)
}
