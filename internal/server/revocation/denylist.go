// Package revocation keeps track of session tokens that were explicitly
// revoked before their natural expiry.
package revocation

import (
	"context"
	"time"
)

// Denylist records revoked token ids. Entries only need to live as long as
// the token itself would have.
type Denylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Close() error
}

// NopDenylist never revokes anything; tokens stay valid until they expire.
type NopDenylist struct{}

func (NopDenylist) Revoke(context.Context, string, time.Duration) error { return nil }
func (NopDenylist) IsRevoked(context.Context, string) (bool, error)     { return false, nil }
func (NopDenylist) Close() error                                        { return nil }
