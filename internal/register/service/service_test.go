package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lberndt/gatehouse/internal/register/store"
	"github.com/lberndt/gatehouse/internal/register/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

// newServiceStore opens a migrated throwaway SQLite database for a test.
func newServiceStore(t *testing.T) store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "gatehouse_service_test.db")
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

// fakeAccountCreator records creation calls and optionally fails them.
type fakeAccountCreator struct {
	created []string
	err     error
}

func (f *fakeAccountCreator) CreateAccount(_ context.Context, username, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, username)
	return nil
}

var errAccountBackendDown = errors.New("homeserver unreachable")
