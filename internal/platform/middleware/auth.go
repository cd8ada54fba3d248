package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	dErrors "registra/pkg/domain-errors"
	"registra/pkg/platform/httputil"
	"registra/pkg/requestcontext"
)

// TokenValidator verifies a bearer token string and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*TokenClaims, error)
}

// TokenClaims is the subset of JWT claims the middleware propagates.
type TokenClaims struct {
	AccountID string
	Username  string
	TokenID   string
}

// RevocationList answers whether a token's JTI has been revoked. A nil list
// disables the check.
type RevocationList interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RequireAuth rejects requests without a valid bearer token and injects the
// authenticated identity into the request context.
func RequireAuth(validator TokenValidator, revocations RevocationList, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				httputil.WriteError(w, err)
				return
			}

			if revocations != nil {
				revoked, err := revocations.IsRevoked(r.Context(), claims.TokenID)
				if err != nil {
					// Fail closed: an unreachable revocation list must not
					// admit possibly-revoked tokens.
					logger.ErrorContext(r.Context(), "revocation check failed",
						"request_id", requestcontext.RequestID(r.Context()),
						"error", err,
					)
					httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "revocation check failed"))
					return
				}
				if revoked {
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "token has been revoked"))
					return
				}
			}

			ctx := requestcontext.WithAccountID(r.Context(), claims.AccountID)
			ctx = requestcontext.WithUsername(ctx, claims.Username)
			ctx = requestcontext.WithTokenID(ctx, claims.TokenID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
