package fund

import (
	"context"

	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EntityFilter defines filtering options for entity queries
type EntityFilter struct {
	shared.Filter
	Type *EntityType // Filter by entity type
}

// EntityRepository is the directory of parties known to the fund
type EntityRepository interface {
	// FindByID finds an entity by ID, returning shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Entity, error)

	// FindByIDs finds every entity whose ID is in ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Entity, error)

	// FindAll finds entities with filtering and pagination
	FindAll(ctx context.Context, filter EntityFilter) ([]Entity, error)

	// Count counts entities matching the filter
	Count(ctx context.Context, filter EntityFilter) (int64, error)

	// Save creates or updates an entity
	Save(ctx context.Context, entity *Entity) error

	// Delete deletes an entity
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvestmentFilter defines filtering options for investment queries
type InvestmentFilter struct {
	shared.Filter
	InvestorID *uuid.UUID // Filter by investor
}

// InvestmentRepository is the ledger of recorded capital commitments
type InvestmentRepository interface {
	// FindByID finds an investment by ID, returning shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Investment, error)

	// FindByInvestor returns every investment recorded for an investor
	FindByInvestor(ctx context.Context, investorID uuid.UUID) ([]Investment, error)

	// FindAll finds investments with filtering and pagination
	FindAll(ctx context.Context, filter InvestmentFilter) ([]Investment, error)

	// Count counts investments matching the filter
	Count(ctx context.Context, filter InvestmentFilter) (int64, error)

	// Save creates or updates an investment
	Save(ctx context.Context, investment *Investment) error

	// Delete deletes an investment
	Delete(ctx context.Context, id uuid.UUID) error
}

// CapitalCallFilter defines filtering options for capital call queries
type CapitalCallFilter struct {
	shared.Filter
	FundEntityID *uuid.UUID         // Filter by issuing fund
	Status       *CapitalCallStatus // Filter by status
}

// CapitalCallRepository is the registry of capital calls and their bill links
type CapitalCallRepository interface {
	// FindByID finds a capital call with its linked bills, returning shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*CapitalCall, error)

	// Exists reports whether a capital call with the ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// FindAll finds capital calls with filtering and pagination
	FindAll(ctx context.Context, filter CapitalCallFilter) ([]CapitalCall, error)

	// Count counts capital calls matching the filter
	Count(ctx context.Context, filter CapitalCallFilter) (int64, error)

	// Save creates or updates a capital call; bill links are not touched
	Save(ctx context.Context, call *CapitalCall) error

	// Delete deletes a capital call and its bill links
	Delete(ctx context.Context, id uuid.UUID) error

	// AppendBill links a bill to the end of the call's bill list.
	// Linking an already linked bill is a no-op.
	AppendBill(ctx context.Context, capitalCallID, billID uuid.UUID) error

	// ReconcileBills links every bill whose capital_call_id references the
	// call and returns the number of links added
	ReconcileBills(ctx context.Context, capitalCallID uuid.UUID) (int, error)
}
