// Package gate is the navigation-level check placed in front of page routes. It only
// looks for the presence of a session cookie; API handlers do the real verification.
package gate

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/auth"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/metrics"
)

const (
	DefaultLoginPath = "/auth/login"
	DefaultAPIPrefix = "/api"
	RedirectParam    = "redirect"
)

// DefaultPublicPaths are reachable without a session. "/" only matches the landing
// page itself; every other entry also covers the paths beneath it.
var DefaultPublicPaths = []string{
	"/",
	"/auth/login",
	"/auth/register",
	"/auth/teacher-application",
	"/auth/pending-approval",
	"/about",
	"/contact",
	"/privacy",
	"/terms",
	"/courses",
	"/static",
	"/favicon.ico",
}

type Options struct {
	LoginPath   string
	APIPrefix   string
	CookieName  string
	PublicPaths []string
}

type Gate struct {
	loginPath  string
	apiPrefix  string
	cookieName string
	landing    bool
	prefixes   []string
}

func New(opts Options) *Gate {
	g := &Gate{
		loginPath:  opts.LoginPath,
		apiPrefix:  strings.TrimSuffix(opts.APIPrefix, "/"),
		cookieName: opts.CookieName,
	}
	if g.loginPath == "" {
		g.loginPath = DefaultLoginPath
	}
	if g.apiPrefix == "" {
		g.apiPrefix = DefaultAPIPrefix
	}
	if g.cookieName == "" {
		g.cookieName = auth.CookieName
	}

	paths := opts.PublicPaths
	if paths == nil {
		paths = DefaultPublicPaths
	}
	for _, p := range append([]string{g.loginPath}, paths...) {
		if p == "/" {
			g.landing = true
			continue
		}
		if p = strings.TrimSuffix(p, "/"); p != "" {
			g.prefixes = append(g.prefixes, p)
		}
	}
	return g
}

func (g *Gate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if matchPrefix(path, g.apiPrefix) || g.Public(path) || g.hasSession(r) {
			next.ServeHTTP(w, r)
			return
		}
		metrics.GateRedirects.Inc()
		http.Redirect(w, r, g.LoginURL(r.URL), http.StatusTemporaryRedirect)
	})
}

// Public reports whether path is on the allowlist.
func (g *Gate) Public(path string) bool {
	if path == "" || path == "/" {
		return g.landing
	}
	for _, p := range g.prefixes {
		if matchPrefix(path, p) {
			return true
		}
	}
	return false
}

// LoginURL builds the login redirect carrying the original path and query.
func (g *Gate) LoginURL(target *url.URL) string {
	back := target.Path
	if back == "" {
		back = "/"
	}
	if target.RawQuery != "" {
		back += "?" + target.RawQuery
	}
	return g.loginPath + "?" + url.Values{RedirectParam: {back}}.Encode()
}

func (g *Gate) hasSession(r *http.Request) bool {
	cookie, err := r.Cookie(g.cookieName)
	return err == nil && cookie.Value != ""
}

func matchPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
