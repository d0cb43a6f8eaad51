package http

import (
	"net"
	"net/http"
	"strings"
	"time"
)

// sessionCookieName carries the signed admin session token.
const sessionCookieName = "admin_auth"

// setSessionCookie writes the session cookie with an explicit absolute
// expiry. Secure is set only when the request arrived over TLS and the host
// is not loopback; marking the cookie Secure on a plain-HTTP deployment
// would make the browser drop it and login could never stick.
func setSessionCookie(w http.ResponseWriter, r *http.Request, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   cookieSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cookieSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func cookieSecure(r *http.Request) bool {
	return requestIsTLS(r) && !isLoopbackHost(r.Host)
}

// requestIsTLS reports whether the client connection is TLS-terminated,
// either directly or at a reverse proxy announcing it via X-Forwarded-Proto.
func requestIsTLS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func isLoopbackHost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if strings.EqualFold(host, "localhost") {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}
