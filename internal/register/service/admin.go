package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lberndt/gatehouse/internal/register/domain"
	"github.com/lberndt/gatehouse/internal/register/store"
	"github.com/lberndt/gatehouse/pkg/cryptox"
	"github.com/lberndt/gatehouse/pkg/slogx"
)

// ErrDuplicateUsername reports an attempt to provision an admin whose
// username is already taken. Callers need to tell this apart from
// operational storage failures.
var ErrDuplicateUsername = errors.New("admin username already exists")

// AdminService owns admin credential lookup and comparison. The hashing
// primitive itself lives in pkg/cryptox; this service decides what its
// failures mean.
type AdminService struct {
	Store store.Store
}

// Create provisions a new admin with a freshly hashed password.
func (s *AdminService) Create(ctx context.Context, username, password string) error {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	if err := s.Store.Admins().CreateAdmin(ctx, username, hash); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrDuplicateUsername
		}
		return err
	}

	slogx.FromContext(ctx).Info("admin user created", slog.String("username", username))
	return nil
}

// Verify checks a username/password pair. A missing user and a wrong
// password are indistinguishable to the caller, and a failure inside the
// hash-verification capability also reads as a plain mismatch; only storage
// errors propagate.
func (s *AdminService) Verify(ctx context.Context, username, password string) (bool, error) {
	admin, err := s.Store.Admins().GetAdminByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := cryptox.VerifyPassword(password, admin.PasswordHash); err != nil {
		return false, nil
	}
	return true, nil
}

// UpdatePassword replaces the stored hash. Returns false for an unknown
// username, never an error for that case.
func (s *AdminService) UpdatePassword(
	ctx context.Context,
	username, newPassword string,
) (bool, error) {
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return false, err
	}

	ok, err := s.Store.Admins().UpdateAdminPassword(ctx, username, hash)
	if err != nil {
		return false, err
	}
	if ok {
		slogx.FromContext(ctx).Info("admin password updated", slog.String("username", username))
	}
	return ok, nil
}

// RecordLogin updates the last-login timestamp. Best effort: failures are
// logged, never surfaced, since the login itself already succeeded.
func (s *AdminService) RecordLogin(ctx context.Context, username string) {
	if err := s.Store.Admins().UpdateLastLogin(ctx, username); err != nil {
		slogx.FromContext(ctx).Warn("failed to record last login",
			slog.String("username", username),
			slog.Any("error", err),
		)
	}
}

// List returns all admins ordered by username.
func (s *AdminService) List(ctx context.Context) ([]domain.AdminUser, error) {
	return s.Store.Admins().ListAdmins(ctx)
}

// Delete removes an admin. Returns false when the username does not exist.
func (s *AdminService) Delete(ctx context.Context, username string) (bool, error) {
	return s.Store.Admins().DeleteAdmin(ctx, username)
}
