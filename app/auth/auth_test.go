package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"kardly-server/app/auth"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims auth.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func claimsFor(id uuid.UUID, expires time.Time) auth.Claims {
	return auth.Claims{
		UserID:    id.String(),
		Email:     "jisoo@example.test",
		Username:  "jisoo",
		IsPremium: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
}

func requestWith(header string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	return req
}

func TestJWTAuthenticate(t *testing.T) {
	a := auth.NewJWT(secret)
	id := uuid.New()

	p, err := a.Authenticate(requestWith("Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor(id, time.Now().Add(time.Hour)))))
	require.NoError(t, err)
	assert.Equal(t, id, p.UserID)
	assert.Equal(t, "jisoo@example.test", p.Email)
	assert.Equal(t, "jisoo", p.Username)
	assert.True(t, p.IsPremium)

	// scheme is case-insensitive
	_, err = a.Authenticate(requestWith("bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor(id, time.Now().Add(time.Hour)))))
	require.NoError(t, err)
}

func TestJWTAuthenticateRejects(t *testing.T) {
	a := auth.NewJWT(secret)
	id := uuid.New()
	valid := time.Now().Add(time.Hour)

	badUser := claimsFor(id, valid)
	badUser.UserID = "user-42"

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{"missing", "", auth.ErrNoToken},
		{"basic auth", "Basic dXNlcjpwYXNz", auth.ErrNoToken},
		{"garbage", "Bearer not.a.token", auth.ErrInvalidToken},
		{"wrong secret", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), claimsFor(id, valid)), auth.ErrInvalidToken},
		{"wrong algorithm", "Bearer " + sign(t, jwt.SigningMethodHS512, []byte(secret), claimsFor(id, valid)), auth.ErrInvalidToken},
		{"expired", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor(id, time.Now().Add(-time.Minute))), auth.ErrTokenExpired},
		{"user id not a uuid", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), badUser), auth.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Authenticate(requestWith(tt.header))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDisabled(t *testing.T) {
	_, err := auth.Disabled{}.Authenticate(requestWith(""))
	require.ErrorIs(t, err, auth.ErrNoToken)

	_, err = auth.Disabled{}.Authenticate(requestWith("Bearer anything"))
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	m := auth.NewMiddleware(zaptest.NewLogger(t), auth.NewJWT(secret))
	id := uuid.New()
	good := "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor(id, time.Now().Add(time.Hour)))
	expired := "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor(id, time.Now().Add(-time.Hour)))

	var seen *auth.Principal
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		seen, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	run := func(h http.Handler, header string) *httptest.ResponseRecorder {
		called, seen = false, nil
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWith(header))
		return rec
	}

	t.Run("require", func(t *testing.T) {
		rec := run(m.Require(next), good)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, id, seen.UserID)

		rec = run(m.Require(next), "")
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"NO_TOKEN"`)

		rec = run(m.Require(next), expired)
		assert.False(t, called)
		assert.Contains(t, rec.Body.String(), `"TOKEN_EXPIRED"`)

		rec = run(m.Require(next), "Bearer junk")
		assert.Contains(t, rec.Body.String(), `"INVALID_TOKEN"`)
	})

	t.Run("optional", func(t *testing.T) {
		run(m.Optional(next), good)
		require.NotNil(t, seen)
		assert.Equal(t, id, seen.UserID)

		for _, header := range []string{"", expired, "Bearer junk"} {
			rec := run(m.Optional(next), header)
			assert.True(t, called)
			assert.Nil(t, seen)
			assert.Equal(t, http.StatusNoContent, rec.Code)
		}
	})
}
