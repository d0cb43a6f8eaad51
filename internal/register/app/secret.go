package app

import (
	"context"
	"fmt"

	"github.com/lberndt/gatehouse/internal/register/store"
	"github.com/lberndt/gatehouse/pkg/cryptox"
)

// secretKeyName is the app_secrets row holding the token signing secret.
const secretKeyName = "SECRET_KEY"

// EnsureSecretKey returns the persisted signing secret, generating and
// storing one on first run. The secret is never regenerated afterwards:
// rotating it would invalidate every outstanding session and success token.
//
// The write is claim-once and the re-read happens in the same transaction,
// so two processes racing over a fresh database (init-db against serve, or
// two server instances) converge on whichever secret was persisted first;
// the loser's candidate is discarded, never signed with.
func EnsureSecretKey(ctx context.Context, st store.Store) (string, error) {
	candidate, err := cryptox.GenerateHex(cryptox.SecretSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate signing secret: %w", err)
	}

	var secret string
	err = st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Secrets().ClaimSecret(ctx, secretKeyName, candidate); err != nil {
			return err
		}
		secret, err = tx.Secrets().GetSecret(ctx, secretKeyName)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to persist signing secret: %w", err)
	}
	return secret, nil
}
