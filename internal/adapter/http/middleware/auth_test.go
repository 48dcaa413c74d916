package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abdurahmanit/estate-marketplace/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func echoUserID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := UserIDFromContext(r.Context())
		_, _ = w.Write([]byte(id))
	})
}

func TestJWTAuth(t *testing.T) {
	valid := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "user-1"})

	tests := []struct {
		name       string
		prepare    func(r *http.Request)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "bearer header",
			prepare:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) },
			wantStatus: http.StatusOK,
			wantBody:   "user-1",
		},
		{
			name:       "cookie",
			prepare:    func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: valid}) },
			wantStatus: http.StatusOK,
			wantBody:   "user-1",
		},
		{
			name: "user_id claim",
			prepare: func(r *http.Request) {
				tok := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": "user-2"})
				r.Header.Set("Authorization", "Bearer "+tok)
			},
			wantStatus: http.StatusOK,
			wantBody:   "user-2",
		},
		{
			name: "sub claim",
			prepare: func(r *http.Request) {
				tok := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "user-3"})
				r.Header.Set("Authorization", "Bearer "+tok)
			},
			wantStatus: http.StatusOK,
			wantBody:   "user-3",
		},
		{
			name:       "missing token",
			prepare:    func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			prepare:    func(r *http.Request) { r.Header.Set("Authorization", "Token "+valid) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong secret",
			prepare: func(r *http.Request) {
				tok := signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"id": "user-1"})
				r.Header.Set("Authorization", "Bearer "+tok)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired",
			prepare: func(r *http.Request) {
				tok := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
					"id":  "user-1",
					"exp": time.Now().Add(-time.Hour).Unix(),
				})
				r.Header.Set("Authorization", "Bearer "+tok)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "unsigned token",
			prepare: func(r *http.Request) {
				tok := signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"id": "user-1"})
				r.Header.Set("Authorization", "Bearer "+tok)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "no user id claim",
			prepare: func(r *http.Request) {
				tok := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"role": "admin"})
				r.Header.Set("Authorization", "Bearer "+tok)
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	handler := JWTAuth(testSecret, logger.NewNop())(echoUserID())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				return
			}
			assert.JSONEq(t, `{"success":false,"statusCode":401,"message":"`+unauthorizedMessageFor(tt.name)+`"}`, rec.Body.String())
		})
	}
}

func unauthorizedMessageFor(name string) string {
	if name == "missing token" {
		return "Unauthorized"
	}
	return "Forbidden"
}

func TestUserIDFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserIDFromContext(req.Context())
	assert.False(t, ok)

	id, ok := UserIDFromContext(WithUserID(req.Context(), "user-1"))
	assert.True(t, ok)
	assert.Equal(t, "user-1", id)

	_, ok = UserIDFromContext(WithUserID(req.Context(), ""))
	assert.False(t, ok)
}
