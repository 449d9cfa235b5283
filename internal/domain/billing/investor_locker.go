package billing

import (
	"context"

	"github.com/google/uuid"
)

// InvestorLocker serializes bill issuance for a single investor. The guard
// check and the insert run while the lock is held.
type InvestorLocker interface {
	// Lock blocks until the investor's lock is acquired or ctx is done.
	// The returned release function must be called exactly once.
	Lock(ctx context.Context, investorID uuid.UUID) (release func(), err error)
}
