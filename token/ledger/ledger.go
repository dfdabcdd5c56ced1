// Package ledger tracks issued refresh tokens server-side. A signed refresh
// token is honored only while a matching row exists here; deleting the row
// revokes the token even though its signature still verifies.
package ledger

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no row matches the jti.
var ErrNotFound = errors.New("refresh token not found")

// Record is one issued refresh token. JTI is the unpredictable per-issuance
// identifier mirrored inside the signed token.
type Record struct {
	JTI       string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Repo manages refresh token records. Multiple live records per user are
// expected: one per session.
type Repo interface {
	// Create inserts a new record.
	Create(ctx context.Context, record *Record) error
	// Get returns the record for a jti, or ErrNotFound.
	Get(ctx context.Context, jti string) (*Record, error)
	// DeleteByJTI removes every record matching the jti. Zero matches is
	// not an error; logout must never fail on an already-revoked token.
	DeleteByJTI(ctx context.Context, jti string) error
	// DeleteExpired prunes records that expired before the cutoff and
	// returns the number of rows removed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
