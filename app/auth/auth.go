// Package auth verifies bearer tokens issued by the kardly account service and
// attaches the resulting principal to the request context.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrNoToken      = errors.New("authentication token is required")
	ErrInvalidToken = errors.New("invalid authentication token")
	ErrTokenExpired = errors.New("authentication token has expired")
)

// Principal is the authenticated user a request acts for
type Principal struct {
	UserID    uuid.UUID
	Email     string
	Username  string
	IsPremium bool
}

// Claims is the token payload written by the account service
type Claims struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	IsPremium bool   `json:"isPremium"`
	jwt.RegisteredClaims
}

// Authenticator resolves the principal of a request
type Authenticator interface {
	Authenticate(r *http.Request) (*Principal, error)
}

// JWT verifies HS256 bearer tokens signed with a shared secret.
// Implements Authenticator
type JWT struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWT creates a new JWT authenticator
func NewJWT(secret string) *JWT {
	return &JWT{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Ensure JWT implements Authenticator
var _ Authenticator = (*JWT)(nil)

// Authenticate reads "Authorization: Bearer <token>" and verifies it
func (a *JWT) Authenticate(r *http.Request) (*Principal, error) {
	raw := bearerToken(r)
	if raw == "" {
		return nil, ErrNoToken
	}

	var claims Claims
	_, err := a.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Principal{
		UserID:    userID,
		Email:     claims.Email,
		Username:  claims.Username,
		IsPremium: claims.IsPremium,
	}, nil
}

// Disabled rejects every token. It stands in when no JWT secret is configured.
type Disabled struct{}

// Authenticate reports ErrNoToken without a header and ErrInvalidToken otherwise
func (Disabled) Authenticate(r *http.Request) (*Principal, error) {
	if bearerToken(r) == "" {
		return nil, ErrNoToken
	}
	return nil, ErrInvalidToken
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal attached by the middleware, if any
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
