package middleware

import (
	"context"

	pkgauth "github.com/vertilift/vertilift-backend/pkg/auth"
	"github.com/vertilift/vertilift-backend/pkg/checkout"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// WithIdentity injects verified claims into the context.
func WithIdentity(ctx context.Context, claims *pkgauth.IdentityClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, claims)
}

// IdentityFromContext returns the verified claims, or nil for anonymous
// requests.
func IdentityFromContext(ctx context.Context) *pkgauth.IdentityClaims {
	if ctx == nil {
		return nil
	}
	if claims, ok := ctx.Value(ctxIdentity).(*pkgauth.IdentityClaims); ok {
		return claims
	}
	return nil
}

// SnapshotFromContext resolves the eligibility input for the request identity.
// Anonymous requests yield the zero snapshot (signed out).
func SnapshotFromContext(ctx context.Context) checkout.IdentitySnapshot {
	return IdentityFromContext(ctx).Snapshot()
}
