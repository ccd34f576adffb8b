package testutil

import (
	"context"
	"net/http"

	"strive/internal/platform/middleware"
)

// WithUserID stamps the request context the way the auth middleware would
// for an authenticated caller.
func WithUserID(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyUserID, userID)
	return req.WithContext(ctx)
}
