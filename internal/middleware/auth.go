package middleware

import (
	"context"
	"net/http"
	"strings"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/pkg/utils"
)

type contextKey string

const ActorKey contextKey = "actor"

// Authenticator resolves a bearer token to the acting principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (hierarchy.Actor, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Authenticate is a middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.Error(w, apperr.New(apperr.Unauthenticated, "authorization header required"))
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(w, apperr.New(apperr.Unauthenticated, "invalid authorization format"))
			return
		}

		actor, err := m.auth.Authenticate(r.Context(), parts[1])
		if err != nil {
			utils.Error(w, err)
			return
		}

		ctx := WithActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects authenticated actors outside allowedRoles. It must run
// after Authenticate.
func RequireRole(allowedRoles ...hierarchy.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				utils.Error(w, apperr.New(apperr.Unauthenticated, "authentication required"))
				return
			}
			for _, role := range allowedRoles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.Error(w, apperr.Forbiddenf("role %s may not access this resource", actor.Role))
		})
	}
}

func WithActor(ctx context.Context, actor hierarchy.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// ActorFromContext extracts the authenticated actor from request context
func ActorFromContext(ctx context.Context) (hierarchy.Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(hierarchy.Actor)
	return actor, ok
}
