package requisition

import (
	"context"
	"time"

	"pharma-wms-api-server/internal/models"
)

// StatusFields carries the write-once processing metadata applied together
// with a terminal transition.
type StatusFields struct {
	ProcessedBy  string
	ProcessedAt  time.Time
	RejectReason string
}

// ListFilter narrows List results. Zero values mean "any".
type ListFilter struct {
	BranchID string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// Store is the persistence contract. UpdateStatusIfPending must be a
// conditional write keyed on status == PENDING and return ErrStatusConflict
// when it matches nothing, so two concurrent transitions resolve to exactly
// one winner.
type Store interface {
	Create(ctx context.Context, r *models.Requisition) error
	GetByID(ctx context.Context, requisitionID string) (*models.Requisition, error)
	List(ctx context.Context, f ListFilter) ([]models.Requisition, error)
	UpdateStatusIfPending(ctx context.Context, requisitionID, newStatus string, fields StatusFields) error
	SetShipmentID(ctx context.Context, requisitionID, shipmentID string) error
	RevertToPending(ctx context.Context, requisitionID string) error
}

// Catalog supplies current main-warehouse stock levels and resolves item
// names. Stock is only read here; decrements happen inside the shipper.
type Catalog interface {
	StockLevels(ctx context.Context, refs []models.ItemRef) (map[models.ItemRef]int64, error)
	ResolveName(ctx context.Context, ref models.ItemRef) (string, error)
}

// Shipper creates the physical shipment for a fulfilled requisition. The
// implementation must decrement stock atomically per item and roll its
// decrements back on failure, returning an error wrapping ErrStockConflict
// when stock ran out between the availability read and the commit.
type Shipper interface {
	Create(ctx context.Context, req *models.Requisition, comment, actorID string) (string, error)
}

// Notifier pushes a status change to the owning branch. Fire-and-forget:
// failures never roll back a transition.
type Notifier interface {
	NotifyStatusChange(branchID, requisitionID, newStatus string)
}

// Recorder appends a transition event to the audit ledger. Fire-and-forget,
// same as Notifier.
type Recorder interface {
	RecordTransition(requisitionID, fromStatus, toStatus, actorID string)
}
