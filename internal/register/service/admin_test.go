package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdminService_CreateAndVerify(t *testing.T) {
	svc := &AdminService{Store: newServiceStore(t)}
	ctx := t.Context()

	require.NoError(t, svc.Create(ctx, "root", "Sup3r-secret!"))

	ok, err := svc.Verify(ctx, "root", "Sup3r-secret!")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Verify(ctx, "root", "wrong-password")
	require.NoError(t, err)
	require.False(t, ok)

	// Unknown user reads as a plain mismatch, not an error.
	ok, err = svc.Verify(ctx, "nobody", "whatever")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAdminService_CreateStoresHashNotPassword(t *testing.T) {
	db := newServiceStore(t)
	svc := &AdminService{Store: db}
	ctx := t.Context()

	require.NoError(t, svc.Create(ctx, "root", "Sup3r-secret!"))

	admin, err := db.Admins().GetAdminByUsername(ctx, "root")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(admin.PasswordHash, "$argon2id$"))
	require.NotContains(t, admin.PasswordHash, "Sup3r-secret!")
}

func TestAdminService_DuplicateUsername(t *testing.T) {
	svc := &AdminService{Store: newServiceStore(t)}
	ctx := t.Context()

	require.NoError(t, svc.Create(ctx, "root", "Sup3r-secret!"))
	err := svc.Create(ctx, "root", "another-0ne!")
	require.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestAdminService_UpdatePassword(t *testing.T) {
	svc := &AdminService{Store: newServiceStore(t)}
	ctx := t.Context()

	require.NoError(t, svc.Create(ctx, "root", "0ld-secret!"))

	ok, err := svc.UpdatePassword(ctx, "root", "n3w-secret!")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Verify(ctx, "root", "0ld-secret!")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = svc.Verify(ctx, "root", "n3w-secret!")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.UpdatePassword(ctx, "nobody", "n3w-secret!")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAdminService_RecordLogin(t *testing.T) {
	db := newServiceStore(t)
	svc := &AdminService{Store: db}
	ctx := t.Context()

	require.NoError(t, svc.Create(ctx, "root", "Sup3r-secret!"))
	svc.RecordLogin(ctx, "root")

	admin, err := db.Admins().GetAdminByUsername(ctx, "root")
	require.NoError(t, err)
	require.NotNil(t, admin.LastLogin)

	// Unknown username must not panic or surface anything.
	svc.RecordLogin(ctx, "nobody")
}

func TestAdminService_ListAndDelete(t *testing.T) {
	svc := &AdminService{Store: newServiceStore(t)}
	ctx := t.Context()

	require.NoError(t, svc.Create(ctx, "zara", "Sup3r-secret!"))
	require.NoError(t, svc.Create(ctx, "adam", "Sup3r-secret!"))

	admins, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 2)
	require.Equal(t, "adam", admins[0].Username)
	require.Equal(t, "zara", admins[1].Username)

	ok, err := svc.Delete(ctx, "adam")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Delete(ctx, "adam")
	require.NoError(t, err)
	require.False(t, ok)

	admins, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
}
