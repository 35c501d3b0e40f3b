// Package auth resolves the anonymous actor behind each request. Sessions
// are unauthenticated: the session ID issued at creation is the only
// credential, carried on the X-Session-ID header and validated against the
// session store by the middleware.
package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type contextKey string

const actorIDKey contextKey = "actor_id"

// WithActorID returns a context carrying the resolved actor ID.
func WithActorID(ctx context.Context, actorID uuid.UUID) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

// GetActorID extracts the actor ID from the context. Returns uuid.Nil and
// false when the request did not pass through the session middleware.
func GetActorID(ctx context.Context) (uuid.UUID, bool) {
	actorID, ok := ctx.Value(actorIDKey).(uuid.UUID)
	if !ok || actorID == uuid.Nil {
		return uuid.Nil, false
	}
	return actorID, true
}

// RequireActorID extracts the actor ID from the context and returns an error
// when it is missing.
func RequireActorID(ctx context.Context) (uuid.UUID, error) {
	actorID, ok := GetActorID(ctx)
	if !ok {
		return uuid.Nil, fmt.Errorf("actor ID not found in context")
	}
	return actorID, nil
}
