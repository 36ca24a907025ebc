package middleware

import (
	"context"
	"net/http"

	"boutique/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthCookieName is the HTTP-only cookie the authentication service sets.
const AuthCookieName = "token"

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "role"
)

// Claims is the token payload issued by the authentication service.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// CookieAuth verifies the bearer token carried in the HTTP-only cookie and
// stores the caller's identity in the request context. The health endpoint
// stays open.
func CookieAuth(secret []byte, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(AuthCookieName)
			if err != nil || cookie.Value == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing auth token")
				writeUnauthorised(w)
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				logger.Warn().Str("path", r.URL.Path).Err(err).Msg("invalid auth token")
				writeUnauthorised(w)
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.ID)
			if err != nil {
				logger.Warn().Str("path", r.URL.Path).Msg("token subject is not a valid user id")
				writeUnauthorised(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID, claims.Role)))
		})
	}
}

// WithUser returns a context carrying the given identity. Requests get their
// identity from CookieAuth; handler tests inject one directly.
func WithUser(ctx context.Context, userID primitive.ObjectID, role string) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxRole, role)
}

// UserIDFromContext returns the authenticated user's id.
func UserIDFromContext(ctx context.Context) (primitive.ObjectID, bool) {
	id, ok := ctx.Value(ctxUserID).(primitive.ObjectID)
	return id, ok
}

// RoleFromContext returns the authenticated user's role.
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(ctxRole).(string)
	return role
}

// IsAdmin reports whether the request context carries the admin role.
func IsAdmin(ctx context.Context) bool {
	return RoleFromContext(ctx) == model.RoleAdmin
}

func writeUnauthorised(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success": false, "error": "Unauthorized"}`))
}
