// Package domain provides core business types and context helpers for the
// Cedar commerce backend.
//
// Context helpers centralize request-scoped data access so identity handling
// stays consistent across handlers and services.
package domain

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// identityContextKey stores the authenticated identity in context.
	identityContextKey contextKey = iota
)

// RoleAdmin marks back-office staff. The gateway asserts the role; the
// commerce core never derives it from customer data.
const RoleAdmin = "admin"

// Identity is the authenticated caller as reported by the upstream identity
// provider. UserID is empty for guests. Account classification is derived
// per request via ClassifyAccount, never stored here.
type Identity struct {
	UserID string
	Role   string
}

// Authenticated reports whether the identity carries a signed-in user.
func (id Identity) Authenticated() bool {
	return id.UserID != ""
}

// Admin reports whether the caller is back-office staff.
func (id Identity) Admin() bool {
	return id.Authenticated() && id.Role == RoleAdmin
}

// NewContextWithIdentity returns a new context with the identity attached.
func NewContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the identity from context.
// Returns a guest identity if none is present.
func IdentityFromContext(ctx context.Context) Identity {
	identity, _ := ctx.Value(identityContextKey).(Identity)
	return identity
}
