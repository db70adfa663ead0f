package verification

import (
	"context"
	"time"
)

// Store holds issued verification codes until they are consumed or
// expire. Implementations must treat expired codes as absent.
type Store interface {
	// Put stores a code for a contact, replacing any previous code.
	Put(ctx context.Context, contact, code string, ttl time.Duration) error
	// Consume atomically checks the code and removes it on match.
	// A mismatch or an expired code returns false and leaves nothing
	// behind for a matching retry to exploit beyond the stored value.
	Consume(ctx context.Context, contact, code string) (bool, error)
}
