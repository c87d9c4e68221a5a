package goSentinel

import "context"

type registryContextKey struct{}

// WithRegistry attaches r to ctx.
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, registryContextKey{}, r)
}

// RegistryFromContext returns the registry attached to ctx, or the default
// registry when there is none.
func RegistryFromContext(ctx context.Context) *Registry {
	if ctx == nil {
		return std
	}
	if r, ok := ctx.Value(registryContextKey{}).(*Registry); ok && r != nil {
		return r
	}
	return std
}
