package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"ecolabs/pkg/types"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const contextKeyCaller contextKey = "caller"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth validates the access token and puts the caller's identity
// on the request context. The token arrives either as a bearer header
// or inside the encrypted access token cookie.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		accessToken := bearerToken(r)
		if accessToken == "" {
			cookie, err := r.Cookie(cookieAccessToken)
			if err != nil {
				s.logger.WithError(err).Debug("no access token on request")
				s.respondError(w, types.NewStatusError(401, "authentication required"))
				return
			}

			err = s.cookie.Decode(cookieAccessToken, cookie.Value, &accessToken)
			if err != nil {
				s.logger.WithError(err).Error("failed to decrypt access token")
				s.respondError(w, types.NewStatusError(401, "authentication required"))
				return
			}
		}

		claims, err := s.app.ParseAccessToken(accessToken)
		if err != nil {
			s.logger.WithError(err).Debug("failed to parse access token")
			s.respondError(w, types.NewStatusError(401, "authentication required"))
			return
		}

		caller := types.Caller{ID: claims.UserID, Role: claims.Role}

		ctx := context.WithValue(r.Context(), contextKeyCaller, caller)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path != "/" && strings.HasSuffix(path, "/") {
			newPath := strings.TrimSuffix(path, "/")
			newURL := *r.URL
			newURL.Path = newPath

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func (s *Service) callerFromContext(ctx context.Context) (types.Caller, error) {
	caller, ok := ctx.Value(contextKeyCaller).(types.Caller)
	if !ok || caller.ID == "" {
		return types.Caller{}, types.NewStatusError(401, "authentication required")
	}
	return caller, nil
}
