package billing

import (
	"context"
	"time"

	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BillFilter defines filtering options for bill queries
type BillFilter struct {
	shared.Filter
	ToInvestorID  *uuid.UUID  // Filter by investor
	CapitalCallID *uuid.UUID  // Filter by capital call
	Type          *BillType   // Filter by bill type
	Status        *BillStatus // Filter by status
}

// BillRepository defines the interface for bill persistence
type BillRepository interface {
	BillLookup

	// FindByID finds a bill by ID, returning shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)

	// FindMembership finds the investor's membership bill, returning shared.ErrNotFound when absent
	FindMembership(ctx context.Context, investorID uuid.UUID) (*Bill, error)

	// FindAll finds bills with filtering and pagination
	FindAll(ctx context.Context, filter BillFilter) ([]Bill, error)

	// Count counts bills matching the filter
	Count(ctx context.Context, filter BillFilter) (int64, error)

	// Create inserts a new bill. A bill occupying an existing
	// (to_investor_id, dedup_key) slot fails with DUPLICATE_BILL.
	Create(ctx context.Context, bill *Bill) error

	// SaveWithLock updates a bill with optimistic locking (version check)
	SaveWithLock(ctx context.Context, bill *Bill) error

	// Delete deletes a bill and its capital call link
	Delete(ctx context.Context, id uuid.UUID) error

	// MarkOverdue moves every pending bill due before today to overdue and
	// returns the number of bills updated
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}
