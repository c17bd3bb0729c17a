package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/wmsclient/internal/common"
	"github.com/dmitrijs2005/wmsclient/internal/server/users"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const userKey ctxKey = "user"

func userFrom(ctx context.Context) (*users.User, bool) {
	u, ok := ctx.Value(userKey).(*users.User)
	return u, ok
}

// authenticate resolves the bearer token. With required=false requests
// without a token pass through, but an invalid token is still rejected.
func (s *Server) authenticate(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if header == "" || !ok || token == "" {
				if required {
					writeError(w, http.StatusUnauthorized, "missing token")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			user, err := s.users.Authenticate(r.Context(), token)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, common.ErrTokenExpired) {
					msg = common.ErrTokenExpired.Error()
				}
				writeError(w, http.StatusUnauthorized, msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
