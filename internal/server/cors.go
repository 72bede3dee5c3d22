// Package server provides the HTTP middleware shared by the BibleHere API:
// CORS, security headers and query input cleaning.
package server

import (
	"net/http"
	"strings"
)

// CORSConfig holds cross-origin configuration.
type CORSConfig struct {
	AllowedOrigins []string // empty = allow all (*)
	AllowedMethods []string // empty = GET, DELETE, OPTIONS
}

// OriginAllowed reports whether origin matches one of the allowed
// patterns. Patterns are exact origins, "*", or "*.example.com" for any
// subdomain.
func OriginAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return false
	}
	for _, pattern := range allowed {
		switch {
		case pattern == "*":
			return true
		case origin == pattern:
			return true
		case strings.HasPrefix(pattern, "*."):
			if strings.HasSuffix(origin, pattern[1:]) {
				return true
			}
		}
	}
	return false
}

// CORSMiddleware adds CORS headers for allowed origins and answers
// preflight requests. Requests from other origins are served without CORS
// headers, so browsers refuse to expose the response; their preflights are
// rejected with 403.
func CORSMiddleware(cfg CORSConfig, next http.Handler) http.Handler {
	methods := "GET, DELETE, OPTIONS"
	if len(cfg.AllowedMethods) > 0 {
		methods = strings.Join(cfg.AllowedMethods, ", ")
	}
	allowAll := len(cfg.AllowedOrigins) == 0
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowedOrigin := "*"
		if !allowAll {
			if !OriginAllowed(origin, cfg.AllowedOrigins) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			allowedOrigin = origin
			w.Header().Add("Vary", "Origin")
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-Request-ID")
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-RateLimit-Remaining, Retry-After")

		if allowedOrigin != "*" {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
