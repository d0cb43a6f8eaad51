package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lberndt/gatehouse/internal/register/domain"
)

type tokensRepo struct {
	q querier
}

func (r *tokensRepo) CreateToken(ctx context.Context, value string, ipAddress *string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO tokens (token, used, created_at, ip_address) VALUES (?, 0, ?, ?)`,
		value, time.Now().Unix(), mapOptionalString(ipAddress),
	)
	return mapConstraint(err)
}

func (r *tokensRepo) TokenExists(ctx context.Context, value string) (bool, error) {
	var one int
	err := r.q.QueryRowContext(ctx,
		`SELECT 1 FROM tokens WHERE token = ?`, value,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *tokensRepo) IsTokenUsed(ctx context.Context, value string) (bool, error) {
	var used bool
	err := r.q.QueryRowContext(ctx,
		`SELECT used FROM tokens WHERE token = ?`, value,
	).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		// Fail closed: a token that was never minted reads as spent.
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return used, nil
}

func (r *tokensRepo) MarkTokenUsed(ctx context.Context, value, usedBy string) (bool, error) {
	// The used = 0 guard makes the flip atomic and one-way: only the first
	// writer affects a row, so usedAt/usedBy always reflect the winner.
	res, err := r.q.ExecContext(ctx,
		`UPDATE tokens SET used = 1, used_at = ?, used_by = ? WHERE token = ? AND used = 0`,
		time.Now().Unix(), usedBy, value,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *tokensRepo) ListTokens(
	ctx context.Context,
	filter domain.TokenFilter,
) ([]domain.InviteToken, error) {
	query := `SELECT id, token, used, created_at, used_at, used_by, ip_address
		FROM tokens`
	var args []any

	switch filter {
	case domain.FilterUsed:
		query += ` WHERE used = ?`
		args = append(args, 1)
	case domain.FilterUnused:
		query += ` WHERE used = ?`
		args = append(args, 0)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []domain.InviteToken
	for rows.Next() {
		var (
			t         domain.InviteToken
			createdAt int64
			usedAt    sql.NullInt64
			usedBy    sql.NullString
			ipAddress sql.NullString
		)
		if err := rows.Scan(
			&t.ID, &t.Value, &t.Used, &createdAt, &usedAt, &usedBy, &ipAddress,
		); err != nil {
			return nil, err
		}
		t.CreatedAt = mapEpoch(createdAt)
		t.UsedAt = mapNullEpochPtr(usedAt)
		t.UsedBy = mapNullStringPtr(usedBy)
		t.IPAddress = mapNullStringPtr(ipAddress)
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (r *tokensRepo) DeleteToken(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM tokens WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *tokensRepo) TokenStats(ctx context.Context) (domain.TokenStats, error) {
	var stats domain.TokenStats
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(used), 0) FROM tokens`,
	).Scan(&stats.Total, &stats.Used)
	if err != nil {
		return domain.TokenStats{}, err
	}
	stats.Unused = stats.Total - stats.Used
	return stats, nil
}
