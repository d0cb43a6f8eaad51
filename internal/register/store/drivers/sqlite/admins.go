package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/lberndt/gatehouse/internal/register/domain"
)

type adminsRepo struct {
	q querier
}

func (r *adminsRepo) CreateAdmin(ctx context.Context, username, passwordHash string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO admin_users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, passwordHash, time.Now().Unix(),
	)
	return mapConstraint(err)
}

func (r *adminsRepo) GetAdminByUsername(
	ctx context.Context,
	username string,
) (domain.AdminUser, error) {
	var (
		u         domain.AdminUser
		createdAt int64
		lastLogin sql.NullInt64
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at, last_login
		FROM admin_users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt, &lastLogin)
	if err != nil {
		return domain.AdminUser{}, mapNotFound(err)
	}
	u.CreatedAt = mapEpoch(createdAt)
	u.LastLogin = mapNullEpochPtr(lastLogin)
	return u, nil
}

func (r *adminsRepo) UpdateAdminPassword(
	ctx context.Context,
	username, passwordHash string,
) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE admin_users SET password_hash = ? WHERE username = ?`,
		passwordHash, username,
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

func (r *adminsRepo) UpdateLastLogin(ctx context.Context, username string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE admin_users SET last_login = ? WHERE username = ?`,
		time.Now().Unix(), username,
	)
	return err
}

func (r *adminsRepo) ListAdmins(ctx context.Context) ([]domain.AdminUser, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, username, password_hash, created_at, last_login
		FROM admin_users ORDER BY username`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []domain.AdminUser
	for rows.Next() {
		var (
			u         domain.AdminUser
			createdAt int64
			lastLogin sql.NullInt64
		)
		if err := rows.Scan(
			&u.ID, &u.Username, &u.PasswordHash, &createdAt, &lastLogin,
		); err != nil {
			return nil, err
		}
		u.CreatedAt = mapEpoch(createdAt)
		u.LastLogin = mapNullEpochPtr(lastLogin)
		admins = append(admins, u)
	}
	return admins, rows.Err()
}

func (r *adminsRepo) DeleteAdmin(ctx context.Context, username string) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM admin_users WHERE username = ?`, username,
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
