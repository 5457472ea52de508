package auth

import (
	"context"

	"vacationManagement/internal/apperr"
	"vacationManagement/models"
)

// Principal is the resolved identity of the current caller.
type Principal struct {
	UserID int64
	Name   string
	Role   models.Role
}

// IsManager reports whether the principal holds the manager role.
func (p *Principal) IsManager() bool {
	return p != nil && p.Role == models.RoleManager
}

type principalKey struct{}

// WithPrincipal stores the principal in context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the principal from context (if any).
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

// RequireIdentity ensures an authenticated principal is present in context.
func RequireIdentity(ctx context.Context) (*Principal, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return nil, apperr.Unauthenticated("Unauthorized")
	}
	return p, nil
}

// RequireManager ensures the caller is authenticated and holds the manager role.
func RequireManager(ctx context.Context) (*Principal, error) {
	p, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if !p.IsManager() {
		return nil, apperr.Forbidden("Forbidden - manager access required")
	}
	return p, nil
}
