package auth

import (
	"context"
	"time"
)

// TokenRevoker is the server-side revocation list behind logout. Stateless
// JWTs cannot be invalidated in place, so logout records the token's jti
// until the token would have expired on its own; the auth middleware rejects
// any token whose jti is on the list.
type TokenRevoker interface {
	// Revoke marks the token ID as revoked for the given duration.
	// A non-positive ttl is a no-op: the token is already expired.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error

	// IsRevoked reports whether the token ID is on the revocation list.
	// Errors indicate the list could not be consulted; callers must fail
	// closed rather than accept the token.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
