package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	httperrors "github.com/learnsphere/question-bank/pkg/http/errors"
)

type actorKey struct{}

// ActorFromContext returns the actor identity injected by Middleware, or ""
// for unauthenticated requests.
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok {
		return actor
	}
	return ""
}

// Middleware validates bearer tokens and injects the actor identity into the
// request context. Requests without an Authorization header pass through
// unauthenticated; handlers that mutate state require an actor.
func Middleware(verifier *Verifier, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid authorization header")
				return
			}

			actor, err := verifier.Verify(parts[1])
			if err != nil {
				logger.Warn().Err(err).Msg("token validation failed")
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), actorKey{}, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
