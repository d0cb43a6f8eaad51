package http

import (
	"net/http"
	"time"

	"github.com/lberndt/gatehouse/internal/register/service"
	"github.com/lberndt/gatehouse/pkg/httpx"
	"github.com/lberndt/gatehouse/pkg/slogx"
)

// LoginHandler authenticates admins and manages the session cookie.
type LoginHandler struct {
	Admins   *service.AdminService
	Sessions *service.SessionService
}

// HandleStatus reports whether the caller already holds a valid session, so
// clients can skip the login form.
func (h *LoginHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	claims, ok := h.Sessions.Verify(cookie.Value)
	if !ok {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"username":      claims.Username,
	})
}

// HandleLogin verifies credentials and issues the session cookie.
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid form data")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	if username == "" || password == "" {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "username and password are required")
		return
	}

	// 1. Verify credentials. A missing user and a wrong password produce the
	// same response.
	ok, err := h.Admins.Verify(ctx, username, password)
	if err != nil {
		log.Error("login verification failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "Unable to verify credentials")
		return
	}
	if !ok {
		log.Warn("failed login attempt", "username", username)
		httpx.WriteError(w, http.StatusUnauthorized,
			"invalid_credentials", "Invalid username or password")
		return
	}

	// 2. Record the login, best effort.
	h.Admins.RecordLogin(ctx, username)

	// 3. Issue the session and set the cookie.
	token, err := h.Sessions.Issue(username)
	if err != nil {
		log.Error("failed to issue session", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "Unable to create session")
		return
	}
	setSessionCookie(w, r, token, time.Now().Add(h.Sessions.Lifetime()))

	log.Info("admin logged in", "username", username)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"username": username})
}

// LogoutHandler clears the session cookie. Stateless sessions cannot be
// revoked server-side; the already-issued token stays valid until expiry.
type LogoutHandler struct{}

func (LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, r)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"logged_out": true})
}
