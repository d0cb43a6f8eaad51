package service

import (
	"context"
	"log/slog"

	"github.com/lberndt/gatehouse/internal/register/domain"
	"github.com/lberndt/gatehouse/internal/register/store"
	"github.com/lberndt/gatehouse/pkg/cryptox"
	"github.com/lberndt/gatehouse/pkg/slogx"
)

// InviteService manages the persisted invitation tokens: minting, listing,
// deletion, and the exists/used checks the registration flow relies on.
type InviteService struct {
	Store store.Store
}

// Mint generates a new single-use invitation token and persists it unused.
// originIP records where the minting request came from, when known.
func (s *InviteService) Mint(ctx context.Context, originIP *string) (string, error) {
	log := slogx.FromContext(ctx)

	// 1. Generate the random value: 256 bits, URL-safe. Uniqueness is by
	// construction; the UNIQUE column is defense in depth.
	value, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return "", err
	}

	// 2. Persist as unused.
	if err := s.Store.Tokens().CreateToken(ctx, value, originIP); err != nil {
		log.Error("failed to persist invite token", slog.Any("error", err))
		return "", err
	}

	log.Info("invite token minted")
	return value, nil
}

// Exists reports plain presence of a token value.
func (s *InviteService) Exists(ctx context.Context, value string) (bool, error) {
	return s.Store.Tokens().TokenExists(ctx, value)
}

// IsUsed reports whether a token has been spent. Absent tokens read as used
// (fail closed), which is why Exists stays a separate question.
func (s *InviteService) IsUsed(ctx context.Context, value string) (bool, error) {
	return s.Store.Tokens().IsTokenUsed(ctx, value)
}

// List returns tokens matching the filter, newest first.
func (s *InviteService) List(
	ctx context.Context,
	filter domain.TokenFilter,
) ([]domain.InviteToken, error) {
	return s.Store.Tokens().ListTokens(ctx, filter)
}

// Delete removes a token row. Returns false when the id does not exist.
func (s *InviteService) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := s.Store.Tokens().DeleteToken(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		slogx.FromContext(ctx).Info("invite token deleted", slog.Int64("token_id", id))
	}
	return ok, nil
}

// Stats counts total/used/unused tokens.
func (s *InviteService) Stats(ctx context.Context) (domain.TokenStats, error) {
	return s.Store.Tokens().TokenStats(ctx)
}
