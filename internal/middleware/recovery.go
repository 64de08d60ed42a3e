package middleware

import (
	"net/http"
	"runtime/debug"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/pkg/utils"

	"go.uber.org/zap"
)

func PanicRecovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						zap.Any("panic", err),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.String("request_id", RequestIDFromContext(r.Context())),
						zap.ByteString("stack", debug.Stack()),
					)
					utils.Error(w, apperr.New(apperr.Internal, "panic"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
