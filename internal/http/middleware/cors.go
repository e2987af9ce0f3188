package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"

	"github.com/davidbz/skill4green/internal/config"
)

const wildcardOrigin = "*"

// exposedHeaders lets browser clients read the correlation ids set by Trace.
var exposedHeaders = []string{"X-Trace-Id", "X-Request-Id"} //nolint:gochecknoglobals // Constant header list

// CORS applies the configured cross-origin policy.
// A wildcard origin combined with credentials echoes the request origin,
// since browsers refuse "*" on credentialed responses.
func CORS(cfg *config.CORSConfig) Middleware {
	if cfg == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	opts := cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	if cfg.AllowCredentials && slices.Contains(cfg.AllowedOrigins, wildcardOrigin) {
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(string) bool { return true }
	}

	c := cors.New(opts)

	return c.Handler
}
