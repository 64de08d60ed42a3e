package middleware

import (
	"net/http"
	"slices"

	"edustaff-backend/internal/config"

	"github.com/rs/cors"
)

// corsPreflightMaxAge is how long browsers may cache a preflight, in seconds.
const corsPreflightMaxAge = 600

// corsOptions lets browser clients read the request id on every response
// and the attachment filename on salary slip downloads. Bearer tokens travel
// in the Authorization header, so cookies are only allowed for an explicit
// origin list.
func corsOptions(cfg *config.Config) cors.Options {
	origins := cfg.Server.CorsAllowedOrigins
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		ExposedHeaders:   []string{RequestIDHeader, "Content-Disposition"},
		AllowCredentials: len(origins) > 0 && !slices.Contains(origins, "*"),
		MaxAge:           corsPreflightMaxAge,
	}
}

func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	return cors.New(corsOptions(cfg)).Handler
}
