package auth

import (
	"net/http"
	"strings"
	"time"
)

const CookieName = "auth-token"

// SetSessionCookie stores the token for the whole site. The cookie never outlives the token.
func SetSessionCookie(w http.ResponseWriter, token Token, secure bool) {
	maxAge := int(time.Until(token.ExpiresAt) / time.Second)
	if maxAge <= 0 {
		ClearSessionCookie(w, secure)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token.Value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
		Expires:  token.ExpiresAt.UTC(),
	})
}

// ClearSessionCookie overwrites the cookie with an already expired value. Safe to call
// whether or not the client holds a cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

// SessionToken returns the raw cookie value, or an empty string when absent.
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie == nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}
