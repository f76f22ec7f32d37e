package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/booking-api/internal/models"
)

// UserResolver looks up the account behind a token subject. Implemented by
// services.UserService.
type UserResolver interface {
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

type contextKey string

// userKey is the context key for the resolved acting user.
const userKey = contextKey("currentUser")

// Guard resolves the acting user from a request credential and gates access
// to protected routes. It never touches ticket storage itself.
type Guard struct {
	tokens *TokenService
	users  UserResolver
}

// NewGuard creates a Guard over the given token service and user directory.
func NewGuard(tokens *TokenService, users UserResolver) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// ResolveCurrentUser verifies the bearer token and resolves its subject to a
// user. Any failure collapses to models.ErrUnauthenticated so the client
// only learns that the credential did not work.
func (g *Guard) ResolveCurrentUser(ctx context.Context, tokenStr string) (models.User, error) {
	claims, err := g.tokens.Verify(tokenStr)
	if err != nil {
		return models.User{}, models.ErrUnauthenticated
	}

	user, err := g.users.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		return models.User{}, models.ErrUnauthenticated
	}
	return user, nil
}

// Middleware protects routes: it extracts the bearer credential, resolves the
// acting user and passes it down via context. Requests without a resolvable
// user are rejected before any handler runs.
func (g *Guard) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractToken(r)
			if tokenStr == "" {
				unauthenticated(w)
				return
			}

			user, err := g.ResolveCurrentUser(r.Context(), tokenStr)
			if err != nil {
				log.Warn().Err(err).Msg("Rejected request with unresolvable credential")
				unauthenticated(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the acting user placed on the context by Middleware.
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

// extractToken pulls the credential from the Authorization header, falling
// back to the "token" cookie and finally a "token" query parameter (used by
// the websocket endpoint, where browsers cannot set headers).
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, "Bearer ")
		if len(parts) == 2 {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return r.URL.Query().Get("token")
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + models.ErrUnauthenticated.Error() + `"}`))
}
