package apitest

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
)

type contextKey string

const usernameKey contextKey = "username"

// recoveryMiddleware перехватывает panic в обработчиках и отвечает 500
func recoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						"error", err,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal Server Error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// recordMiddleware запоминает каждый запрос для проверок в тестах
func (s *Server) recordMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.record(Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		next.ServeHTTP(w, r)
	})
}

// authMiddleware проверяет bearer JWT так же, как это делает реальный API
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			s.unauthorized(w, "Authentication credentials were not provided.")
			return
		}

		// Ожидаем формат: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			s.unauthorized(w, "Authorization header must contain two space-delimited values")
			return
		}

		claims, err := validateAccessToken(s.jwt, parts[1])
		if err != nil || claims.Epoch != s.currentEpoch() {
			s.logger.Debug("rejected access token", "error", err)
			s.unauthorized(w, "Given token not valid for any token type")
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, claims.Username)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) unauthorized(w http.ResponseWriter, detail string) {
	s.rejected.Add(1)
	writeJSON(w, http.StatusUnauthorized, map[string]string{
		"detail": detail,
		"code":   "token_not_valid",
	})
}
