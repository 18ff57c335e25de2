package auth

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"kardly-server/models"
	"kardly-server/utils"
)

// Middleware attaches principals to requests
type Middleware struct {
	log  *zap.Logger
	auth Authenticator
}

// NewMiddleware creates a new Middleware
func NewMiddleware(log *zap.Logger, auth Authenticator) *Middleware {
	return &Middleware{log: log, auth: auth}
}

// Require rejects requests without a valid token
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := m.auth.Authenticate(r)
		if err != nil {
			m.log.Debug("request rejected", zap.String("path", r.URL.Path), zap.Error(err))
			writeAuthError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// Optional attaches a principal when a valid token is present and otherwise
// lets the request through anonymously.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := m.auth.Authenticate(r)
		if err == nil {
			r = r.WithContext(WithPrincipal(r.Context(), p))
		} else if !errors.Is(err, ErrNoToken) {
			m.log.Debug("ignoring invalid token", zap.String("path", r.URL.Path), zap.Error(err))
		}
		next.ServeHTTP(w, r)
	})
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoToken):
		_ = utils.WriteError(w, http.StatusUnauthorized, models.CodeNoToken, "Authentication token is required")
	case errors.Is(err, ErrTokenExpired):
		_ = utils.WriteError(w, http.StatusUnauthorized, models.CodeTokenExpired, "Authentication token has expired")
	default:
		_ = utils.WriteError(w, http.StatusUnauthorized, models.CodeInvalidToken, "Invalid authentication token")
	}
}
