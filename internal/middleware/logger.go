package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cedarelevator/commerce/internal/domain"
)

const loggerContextKey contextKey = "logger"

// WithRequestLogger injects a request-scoped logger carrying method, path,
// request_id, and the caller's user_id when authenticated. Place it after
// RequestID and WithIdentity in the chain so both are available.
func WithRequestLogger(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestLogger := baseLogger.With(
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			if requestID := GetRequestID(r.Context()); requestID != "" {
				requestLogger = requestLogger.With(slog.String("request_id", requestID))
			}
			if identity := domain.IdentityFromContext(r.Context()); identity.Authenticated() {
				requestLogger = requestLogger.With(slog.String("user_id", identity.UserID))
			}

			ctx := context.WithValue(r.Context(), loggerContextKey, requestLogger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLogger returns the request-scoped logger, the fallback if given, or
// slog.Default().
func GetLogger(ctx context.Context, fallback ...*slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	if len(fallback) > 0 && fallback[0] != nil {
		return fallback[0]
	}
	return slog.Default()
}
