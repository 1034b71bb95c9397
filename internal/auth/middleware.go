package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/attaboy/blackjack/internal/guard"
	"github.com/google/uuid"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// ClaimsFromContext extracts JWT claims from the request context, nil when
// the request is anonymous.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

// UserIDFromContext returns the authenticated user's ID, or uuid.Nil for
// anonymous requests.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// Authenticate returns middleware that validates bearer tokens. Requests
// without an Authorization header pass through anonymously; a header that is
// present but invalid is a hard 401.
func Authenticate(jwtMgr *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeUnauthorized(w)
				return
			}

			claims, err := jwtMgr.ValidateToken(parts[1])
			if err != nil {
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit returns middleware enforcing the per-user sliding window.
// Anonymous requests bypass the limiter; each user_id gets its own bucket.
func RateLimit(limiter *guard.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims := ClaimsFromContext(r.Context()); claims != nil {
				if !limiter.Check(r.Context(), claims.UserID).Allowed {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusTooManyRequests)
					w.Write([]byte(`{"code":"RATE_LIMIT_EXCEEDED","message":"rate limit exceeded, please try again later","status":429}`))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"code":"UNAUTHORIZED","message":"authentication required","status":401}`))
}
