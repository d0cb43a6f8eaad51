package http

import (
	"context"
	"net/http"
	"time"

	"github.com/lberndt/gatehouse/internal/register/service"
	"github.com/lberndt/gatehouse/pkg/httpx"
	"github.com/lberndt/gatehouse/pkg/slogx"
)

type sessionCtxKey struct{}

// SessionFromContext returns the verified session claims attached by
// RequireSession. ok is false outside a session-protected handler.
func SessionFromContext(ctx context.Context) (service.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionCtxKey{}).(service.SessionClaims)
	return claims, ok
}

// RequireSession verifies the admin session cookie and attaches its claims
// to the request context. Verification runs once here; handlers read the
// memoized claims instead of re-verifying the cookie.
//
// When the verified session has less than the renewal window remaining, a
// freshly issued cookie rides along on the response. The cookie header is
// written before the handler runs since headers are immutable after the
// body starts; the handler is already known to be authenticated at that
// point, so an unauthenticated response can never carry a renewal.
func RequireSession(sessions *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				httpx.WriteError(w, http.StatusUnauthorized,
					"authentication_required", "Admin session required")
				return
			}

			claims, ok := sessions.Verify(cookie.Value)
			if !ok {
				slogx.FromContext(r.Context()).Warn("rejected invalid session cookie")
				clearSessionCookie(w, r)
				httpx.WriteError(w, http.StatusUnauthorized,
					"invalid_session", "Session is invalid or expired")
				return
			}

			if sessions.NeedsRenewal(claims) {
				if token, err := sessions.Renew(claims.Username); err == nil {
					setSessionCookie(w, r, token, time.Now().Add(sessions.Lifetime()))
				}
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
