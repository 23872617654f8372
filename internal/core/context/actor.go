// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Actor contains the authenticated caller's identity.
// Identity is issued by an external provider; only the claims needed for
// audit attribution and ownership checks are carried here.
type Actor struct {
	UserID    string
	Email     string
	Roles     []string
	IsAdmin   bool
	SessionID string

	// Request metadata captured at the edge for audit entries.
	IPAddress string
	UserAgent string
}

type actorContextKey struct{}

// WithActor adds Actor to context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns Actor from context.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorContextKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// GetActorID returns actor's user ID from context or empty string.
func GetActorID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.UserID
	}
	return ""
}

// HasRole checks if actor has specific role.
func HasRole(ctx context.Context, role string) bool {
	a := GetActor(ctx)
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the actor has administrative privileges.
func IsAdmin(ctx context.Context) bool {
	a := GetActor(ctx)
	return a != nil && a.IsAdmin
}
