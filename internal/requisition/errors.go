package requisition

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when no requisition matches the id.
var ErrNotFound = errors.New("requisition not found")

// ErrStatusConflict is returned by stores when a conditional status update
// matched no pending document, i.e. another actor processed the requisition
// first.
var ErrStatusConflict = errors.New("requisition status conflict")

// ErrStockConflict is returned by the shipper when an atomic stock decrement
// finds less on hand than the requisition needs at commit time.
var ErrStockConflict = errors.New("insufficient stock at commit")

// ValidationError reports malformed input. Always recoverable by the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// InvalidStateError reports a transition attempted on an already-processed
// requisition. The caller should refresh and re-display the current state.
type InvalidStateError struct {
	RequisitionID string
	Status        string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("requisition %s already processed (status %s)", e.RequisitionID, e.Status)
}

// InsufficientStockError blocks fulfillment and carries the per-line
// shortage detail the caller needs to render.
type InsufficientStockError struct {
	RequisitionID string
	Availability  Availability
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("requisition %s cannot be fulfilled: short %d unit(s) across %d line(s)",
		e.RequisitionID, e.Availability.ShortageTotal, len(e.Availability.Shortages()))
}

// ShipmentCreationError wraps a shipment collaborator failure. The
// requisition is left untouched and the caller may retry.
type ShipmentCreationError struct {
	RequisitionID string
	Err           error
}

func (e *ShipmentCreationError) Error() string {
	return fmt.Sprintf("failed to create shipment for requisition %s: %v", e.RequisitionID, e.Err)
}

func (e *ShipmentCreationError) Unwrap() error { return e.Err }
