// Package middleware provides thin adapters over chi middleware without leaking chi types
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestID attaches or propagates X-Request-ID and stores it on context
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP sets RemoteAddr to the upstream IP based on X-Forwarded-For headers
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// Timeout cancels the request context after d
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// NoCache sets headers to disable client and proxy caching
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

// BodyLimit caps request bodies at n bytes; n <= 0 disables the cap
func BodyLimit(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if n <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}

// CORSOptions is a narrow surface over go-chi/cors
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	MaxAge         int
}

// CORS wraps go-chi/cors; empty method and header lists get defaults
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: orDefault(o.AllowedMethods, []string{"GET", "POST", "OPTIONS"}),
		AllowedHeaders: orDefault(o.AllowedHeaders, []string{"Accept", "Content-Type", "X-Request-ID"}),
		ExposedHeaders: orDefault(o.ExposedHeaders, []string{"X-Request-ID", "X-Run-ID"}),
		MaxAge:         o.MaxAge,
	})
}

func orDefault(in, def []string) []string {
	if len(in) == 0 {
		return def
	}
	return in
}

// StackOptions configures the serve mode middleware chain
type StackOptions struct {
	CORSOrigins []string
	Slow        time.Duration
	Timeout     time.Duration
}

// Stack is the outer chain applied to every route, outermost first
func Stack(o StackOptions) []func(http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{
		RequestID(),
		RealIP(),
		AccessLogZerolog(AccessLogOptions{Slow: o.Slow}),
		RecoverJSON,
		NoCache(),
	}
	if len(o.CORSOrigins) > 0 {
		chain = append(chain, CORS(CORSOptions{AllowedOrigins: o.CORSOrigins}))
	}
	if o.Timeout > 0 {
		chain = append(chain, Timeout(o.Timeout))
	}
	return chain
}
