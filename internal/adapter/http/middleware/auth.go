package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/estate-marketplace/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// TokenCookieName is the cookie the web client keeps its access token in.
const TokenCookieName = "access_token"

var (
	errMissingToken  = errors.New("authorization token is not provided")
	errInvalidToken  = errors.New("authorization token is invalid")
	errMissingUserID = errors.New("token has no user id")
)

// userIDClaims are checked in order; the first non-empty string wins.
var userIDClaims = []string{"id", "user_id", "sub"}

// JWTAuth verifies an HMAC signed token from the Authorization header or the
// access_token cookie and stores the caller's id in the request context.
func JWTAuth(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	log = log.Named("JWTAuth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := authenticate(r, secret)
			if err != nil {
				log.Debug("Rejected request", zap.String("path", r.URL.Path), zap.Error(err))
				writeUnauthorized(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func authenticate(r *http.Request, secret string) (string, error) {
	tokenString, err := extractToken(r)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", errInvalidToken, err)
	}

	for _, name := range userIDClaims {
		if v, ok := claims[name].(string); ok && v != "" {
			return v, nil
		}
	}
	return "", errMissingUserID
}

func extractToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", fmt.Errorf("%w: expected 'Bearer <token>'", errInvalidToken)
		}
		return parts[1], nil
	}
	if c, err := r.Cookie(TokenCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", errMissingToken
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success":    false,
		"statusCode": http.StatusUnauthorized,
		"message":    unauthorizedMessage(err),
	})
}

func unauthorizedMessage(err error) string {
	if errors.Is(err, errMissingToken) {
		return "Unauthorized"
	}
	return "Forbidden"
}
