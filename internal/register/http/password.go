package http

import (
	"net/http"

	"github.com/lberndt/gatehouse/internal/register/service"
	"github.com/lberndt/gatehouse/internal/register/validation"
	"github.com/lberndt/gatehouse/pkg/httpx"
	"github.com/lberndt/gatehouse/pkg/slogx"
)

// PasswordHandler lets an authenticated admin change their own password. The
// current password is re-verified even though the session already proves
// identity; a hijacked session must not be enough to rotate the credential.
type PasswordHandler struct {
	Admins *service.AdminService
}

func (h *PasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := SessionFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized,
			"authentication_required", "Admin session required")
		return
	}

	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid form data")
		return
	}

	current := r.FormValue("current_password")
	next := r.FormValue("new_password")
	if current == "" || next == "" {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "current_password and new_password are required")
		return
	}
	if !validation.StrongPassword(next) {
		httpx.WriteError(w, http.StatusBadRequest, "weak_password",
			"Password must be at least 8 characters with a digit and a special character")
		return
	}

	// 1. Re-verify the current password.
	verified, err := h.Admins.Verify(ctx, claims.Username, current)
	if err != nil {
		log.Error("password change verification failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "Unable to verify current password")
		return
	}
	if !verified {
		log.Warn("password change rejected: wrong current password",
			"username", claims.Username)
		httpx.WriteError(w, http.StatusForbidden,
			"invalid_credentials", "Current password is incorrect")
		return
	}

	// 2. Store the new hash.
	updated, err := h.Admins.UpdatePassword(ctx, claims.Username, next)
	if err != nil || !updated {
		log.Error("password update failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "Unable to update password")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"updated": true})
}
