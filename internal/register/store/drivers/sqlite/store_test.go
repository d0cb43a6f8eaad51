package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lberndt/gatehouse/internal/register/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "gatehouse_test.db")
	s, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestWithTx_RollbackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sentinel := require.Error
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tokens().CreateToken(ctx, "tx-token", nil); err != nil {
			return err
		}
		return context.Canceled // force a rollback
	})
	sentinel(t, err)

	exists, err := s.Tokens().TokenExists(ctx, "tx-token")
	require.NoError(t, err)
	require.False(t, exists, "rolled back insert must not be visible")
}

func TestWithTx_Commit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Tokens().CreateToken(ctx, "tx-token", nil)
	})
	require.NoError(t, err)

	exists, err := s.Tokens().TokenExists(ctx, "tx-token")
	require.NoError(t, err)
	require.True(t, exists)
}
