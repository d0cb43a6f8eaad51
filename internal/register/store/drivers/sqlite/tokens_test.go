package sqlite

import (
	"context"
	"testing"

	"github.com/lberndt/gatehouse/internal/register/domain"
	"github.com/lberndt/gatehouse/internal/register/store"
	"github.com/stretchr/testify/require"
)

func TestTokens_CreateAndExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ip := "192.0.2.10"
	require.NoError(t, s.Tokens().CreateToken(ctx, "abc", &ip))

	exists, err := s.Tokens().TokenExists(ctx, "abc")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = s.Tokens().TokenExists(ctx, "never-minted")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestTokens_CreateDuplicateValue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Tokens().CreateToken(ctx, "abc", nil))
	err := s.Tokens().CreateToken(ctx, "abc", nil)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestTokens_IsUsedFailsClosed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A value that was never minted reads as used.
	used, err := s.Tokens().IsTokenUsed(ctx, "never-minted")
	require.NoError(t, err)
	require.True(t, used)

	require.NoError(t, s.Tokens().CreateToken(ctx, "abc", nil))
	used, err = s.Tokens().IsTokenUsed(ctx, "abc")
	require.NoError(t, err)
	require.False(t, used)
}

func TestTokens_MarkUsedIsOneWayAndIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Tokens().CreateToken(ctx, "abc", nil))

	won, err := s.Tokens().MarkTokenUsed(ctx, "abc", "alice")
	require.NoError(t, err)
	require.True(t, won)

	first, err := s.Tokens().ListTokens(ctx, domain.FilterUsed)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.NotNil(t, first[0].UsedAt)
	require.NotNil(t, first[0].UsedBy)
	require.Equal(t, "alice", *first[0].UsedBy)

	// A second attempt loses and leaves the original attribution in place.
	won, err = s.Tokens().MarkTokenUsed(ctx, "abc", "mallory")
	require.NoError(t, err)
	require.False(t, won)

	second, err := s.Tokens().ListTokens(ctx, domain.FilterUsed)
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, *first[0].UsedAt, *second[0].UsedAt)
	require.Equal(t, "alice", *second[0].UsedBy)
}

func TestTokens_MarkUsedUnknownValue(t *testing.T) {
	s := newTestStore(t)

	won, err := s.Tokens().MarkTokenUsed(context.Background(), "never-minted", "alice")
	require.NoError(t, err)
	require.False(t, won)
}

func TestTokens_ListFiltered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, v := range []string{"t1", "t2", "t3"} {
		require.NoError(t, s.Tokens().CreateToken(ctx, v, nil))
	}
	_, err := s.Tokens().MarkTokenUsed(ctx, "t2", "alice")
	require.NoError(t, err)

	all, err := s.Tokens().ListTokens(ctx, domain.FilterAll)
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Newest first; equal created_at ties break on id.
	require.Equal(t, "t3", all[0].Value)
	require.Equal(t, "t1", all[2].Value)

	used, err := s.Tokens().ListTokens(ctx, domain.FilterUsed)
	require.NoError(t, err)
	require.Len(t, used, 1)
	require.Equal(t, "t2", used[0].Value)

	unused, err := s.Tokens().ListTokens(ctx, domain.FilterUnused)
	require.NoError(t, err)
	require.Len(t, unused, 2)
}

func TestTokens_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Tokens().CreateToken(ctx, "abc", nil))
	all, err := s.Tokens().ListTokens(ctx, domain.FilterAll)
	require.NoError(t, err)
	require.Len(t, all, 1)

	ok, err := s.Tokens().DeleteToken(ctx, all[0].ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Tokens().DeleteToken(ctx, all[0].ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTokens_Stats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stats, err := s.Tokens().TokenStats(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.TokenStats{}, stats)

	for _, v := range []string{"t1", "t2", "t3"} {
		require.NoError(t, s.Tokens().CreateToken(ctx, v, nil))
	}
	_, err = s.Tokens().MarkTokenUsed(ctx, "t1", "alice")
	require.NoError(t, err)

	stats, err = s.Tokens().TokenStats(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.TokenStats{Total: 3, Used: 1, Unused: 2}, stats)
}
