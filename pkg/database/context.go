package database

import (
	"context"
)

type contextKey string

const (
	// RequestScopeKey is the context key for storing the request-scoped database connection.
	RequestScopeKey contextKey = "requestScope"
)

// GetRequestScope retrieves the request-scoped database connection from context.
// Returns nil and false if not present.
func GetRequestScope(ctx context.Context) (*RequestScope, bool) {
	scope, ok := ctx.Value(RequestScopeKey).(*RequestScope)
	return scope, ok
}

// SetRequestScope stores the request-scoped database connection in context.
func SetRequestScope(ctx context.Context, scope *RequestScope) context.Context {
	return context.WithValue(ctx, RequestScopeKey, scope)
}
