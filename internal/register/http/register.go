package http

import (
	"errors"
	"net/http"

	"github.com/lberndt/gatehouse/internal/register/service"
	"github.com/lberndt/gatehouse/internal/register/validation"
	"github.com/lberndt/gatehouse/pkg/httpx"
	"github.com/lberndt/gatehouse/pkg/slogx"
)

// RegisterHandler serves the public registration endpoint: a token check for
// the form view and the redemption itself.
type RegisterHandler struct {
	Registration *service.RegistrationFlow
}

// RegisterResponse is the redemption success body.
type RegisterResponse struct {
	Username     string `json:"username"`
	SuccessToken string `json:"success_token"`
}

// HandleCheck validates the invitation token before the client shows its
// registration form.
func (h *RegisterHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	if !h.writeTokenError(w, r, h.Registration.CheckToken(r.Context(), token)) {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"token_valid": true})
}

// HandleRedeem spends the invitation token on a new account.
func (h *RegisterHandler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Parse and validate the form.
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid form data")
		return
	}

	token := r.FormValue("token")
	username := r.FormValue("username")
	password := r.FormValue("password")

	if token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}
	if !validation.ValidUsername(username) {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
			"Username may only contain lowercase letters, digits, and -_.=/")
		return
	}
	if !validation.StrongPassword(password) {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
			"Password must be at least 8 characters with a digit and a special character")
		return
	}

	// 2. Redeem: check, create the account, spend the token.
	successToken, err := h.Registration.Redeem(ctx, token, username, password)
	if err != nil {
		if errors.Is(err, service.ErrAccountCreation) {
			log.Error("account creation failed during redemption", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError,
				"server_error", "Account creation failed; the invitation is still valid")
			return
		}
		h.writeTokenError(w, r, err)
		return
	}

	// 3. Hand back the success token for the confirmation view.
	httpx.WriteJSON(w, http.StatusOK, RegisterResponse{
		Username:     username,
		SuccessToken: successToken,
	})
}

// writeTokenError maps token classification errors onto responses. Returns
// true when err was nil and the caller should continue.
func (h *RegisterHandler) writeTokenError(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, service.ErrTokenNotFound):
		httpx.WriteError(w, http.StatusNotFound,
			"invalid_token", "Invitation token is invalid")
	case errors.Is(err, service.ErrTokenAlreadyUsed):
		httpx.WriteError(w, http.StatusGone,
			"token_used", "Invitation token has already been used")
	default:
		slogx.FromContext(r.Context()).Error("token check failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "Unable to check invitation token")
	}
	return false
}
