package sqlite

import (
	"context"
	"time"
)

type secretsRepo struct {
	q querier
}

func (r *secretsRepo) GetSecret(ctx context.Context, key string) (string, error) {
	var value string
	err := r.q.QueryRowContext(ctx,
		`SELECT value FROM app_secrets WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		return "", mapNotFound(err)
	}
	return value, nil
}

func (r *secretsRepo) SetSecret(ctx context.Context, key, value string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO app_secrets (key, value, created_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value, time.Now().Unix(),
	)
	return err
}

func (r *secretsRepo) ClaimSecret(ctx context.Context, key, value string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO app_secrets (key, value, created_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO NOTHING`,
		key, value, time.Now().Unix(),
	)
	return err
}
