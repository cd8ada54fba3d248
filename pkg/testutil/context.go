package testutil

import (
	"net/http"
	"time"

	"registra/pkg/requestcontext"
)

// WithAccount injects an authenticated identity into the request context,
// simulating what the auth middleware does for a valid bearer token.
func WithAccount(req *http.Request, accountID, username, tokenID string) *http.Request {
	ctx := requestcontext.WithAccountID(req.Context(), accountID)
	ctx = requestcontext.WithUsername(ctx, username)
	ctx = requestcontext.WithTokenID(ctx, tokenID)
	return req.WithContext(ctx)
}

// WithFrozenTime pins the request clock so handlers observe a fixed instant.
func WithFrozenTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
