package sqlite

import (
	"context"
	"testing"

	"github.com/lberndt/gatehouse/internal/register/store"
	"github.com/stretchr/testify/require"
)

func TestSecrets_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Secrets().GetSecret(context.Background(), "SECRET_KEY")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSecrets_SetAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Secrets().SetSecret(ctx, "SECRET_KEY", "v1"))

	got, err := s.Secrets().GetSecret(ctx, "SECRET_KEY")
	require.NoError(t, err)
	require.Equal(t, "v1", got)

	// Upsert replaces in place.
	require.NoError(t, s.Secrets().SetSecret(ctx, "SECRET_KEY", "v2"))
	got, err = s.Secrets().GetSecret(ctx, "SECRET_KEY")
	require.NoError(t, err)
	require.Equal(t, "v2", got)
}

func TestSecrets_ClaimFirstWriterWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Secrets().ClaimSecret(ctx, "SECRET_KEY", "first"))

	// A losing claim is a silent no-op; the stored value survives.
	require.NoError(t, s.Secrets().ClaimSecret(ctx, "SECRET_KEY", "second"))

	got, err := s.Secrets().GetSecret(ctx, "SECRET_KEY")
	require.NoError(t, err)
	require.Equal(t, "first", got)
}
