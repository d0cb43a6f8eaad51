package http

import (
	"net/http"

	"github.com/lberndt/gatehouse/internal/register/service"
	"github.com/lberndt/gatehouse/pkg/httpx"
)

// SuccessHandler gates the post-registration confirmation view. The token
// must verify and vouch for the same username the client claims, so a leaked
// token cannot be replayed under a different name.
type SuccessHandler struct {
	Success *service.SuccessService
}

func (h *SuccessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	username := r.URL.Query().Get("username")
	if token == "" || username == "" {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "token and username are required")
		return
	}

	verified, ok := h.Success.Verify(token)
	if !ok || verified != username {
		httpx.WriteError(w, http.StatusForbidden,
			"invalid_token", "Success token is invalid or expired")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"username":   verified,
		"registered": true,
	})
}
