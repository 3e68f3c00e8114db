package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"uniaid/internal/logging"
	"uniaid/internal/service"

	chimw "github.com/go-chi/chi/middleware"
)

type contextKey string

const UserContextKey contextKey = "claims"

var ErrNoUser = errors.New("user not found in context")

func WithClaims(ctx context.Context, claims *service.Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

func ExtractUserFromContext(r *http.Request) (*service.Claims, error) {
	claims, ok := r.Context().Value(UserContextKey).(*service.Claims)
	if !ok || claims == nil {
		logging.Logg.Error("User not found in context")
		return nil, ErrNoUser
	}
	return claims, nil
}

// LoggingMiddleware writes one record per request.
func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			level := slog.LevelInfo
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "Request handled",
				"request_id", chimw.GetReqID(r.Context()),
				"method", r.Method,
				"uri", r.RequestURI,
				"status", ww.Status(),
				"size", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
