package auth

import (
	"net/http"
	"strings"
	"time"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "admin_session"

// SessionCookie renders the Set-Cookie value for a freshly issued token.
func SessionCookie(token string, ttl time.Duration, secure bool) string {
	return buildCookie(token, int(ttl/time.Second), secure)
}

// ClearSessionCookie renders a Set-Cookie value that removes the session.
func ClearSessionCookie(secure bool) string {
	return buildCookie("", 0, secure)
}

func buildCookie(value string, maxAge int, secure bool) string {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	}
	if maxAge <= 0 {
		// net/http renders MaxAge<0 as "Max-Age=0".
		cookie.MaxAge = -1
	}
	return cookie.String()
}

// ParseCookieHeader splits a Cookie header into name/value pairs. Pairs are
// separated by ';' and split on the first '='; names and values are trimmed.
func ParseCookieHeader(header string) map[string]string {
	cookies := make(map[string]string)
	if strings.TrimSpace(header) == "" {
		return cookies
	}
	for _, part := range strings.Split(header, ";") {
		name, value, _ := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cookies[name] = strings.TrimSpace(value)
	}
	return cookies
}
