package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lberndt/gatehouse/internal/register/store"
	"github.com/lberndt/gatehouse/pkg/slogx"
)

var (
	// ErrTokenNotFound reports an invitation token that was never minted
	// (or has been deleted).
	ErrTokenNotFound = errors.New("invitation token not found")

	// ErrTokenAlreadyUsed reports an invitation token that was spent by an
	// earlier redemption.
	ErrTokenAlreadyUsed = errors.New("invitation token already used")

	// ErrAccountCreation wraps a downstream account-creation failure. The
	// invitation token stays unused so the invitee can retry.
	ErrAccountCreation = errors.New("downstream account creation failed")
)

// RegistrationFlow orchestrates a redemption: token checks, downstream
// account creation, the one-way used flip, and the success token for the
// confirmation page.
type RegistrationFlow struct {
	Store    store.Store
	Accounts AccountCreator
	Success  *SuccessService
}

// CheckToken classifies a token value before showing the registration form:
// nil when redeemable, ErrTokenNotFound or ErrTokenAlreadyUsed otherwise.
func (f *RegistrationFlow) CheckToken(ctx context.Context, value string) error {
	exists, err := f.Store.Tokens().TokenExists(ctx, value)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTokenNotFound
	}

	used, err := f.Store.Tokens().IsTokenUsed(ctx, value)
	if err != nil {
		return err
	}
	if used {
		return ErrTokenAlreadyUsed
	}
	return nil
}

// Redeem spends an invitation token on a new account and returns the success
// token gating the confirmation page.
//
// The pre-check narrows the race window but the atomic mark is the actual
// guarantee: when two redemptions pass the pre-check concurrently, only the
// winner of MarkTokenUsed reports success.
func (f *RegistrationFlow) Redeem(
	ctx context.Context,
	value, username, password string,
) (string, error) {
	log := slogx.FromContext(ctx)

	// 1. Re-check the token immediately before the privileged action.
	if err := f.CheckToken(ctx, value); err != nil {
		log.Warn("redemption rejected", slog.Any("reason", err))
		return "", err
	}

	// 2. Create the downstream account. On failure the token stays unused.
	if err := f.Accounts.CreateAccount(ctx, username, password); err != nil {
		return "", errors.Join(ErrAccountCreation, err)
	}

	// 3. Spend the token. Losing here means a concurrent redemption won
	// between the pre-check and now; report it as already used.
	won, err := f.Store.Tokens().MarkTokenUsed(ctx, value, username)
	if err != nil {
		log.Error("failed to mark token used", slog.Any("error", err))
		return "", err
	}
	if !won {
		log.Warn("lost redemption race after account creation",
			slog.String("username", username),
		)
		return "", ErrTokenAlreadyUsed
	}

	log.Info("registration completed", slog.String("username", username))

	// 4. Hand back the token for the one confirmation view.
	return f.Success.Issue(username), nil
}
