package requisition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pharma-wms-api-server/internal/models"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var processedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "requisitions_processed_total",
	Help: "Terminal requisition transitions by resulting status.",
}, []string{"status"})

// Service owns the requisition lifecycle: PENDING -> APPROVED | REJECTED |
// FULFILLED, each transition happening at most once per requisition.
type Service struct {
	store    Store
	catalog  Catalog
	shipper  Shipper
	notifier Notifier
	recorder Recorder
	log      *logrus.Entry
}

func NewService(store Store, catalog Catalog, shipper Shipper, notifier Notifier, recorder Recorder) *Service {
	return &Service{
		store:    store,
		catalog:  catalog,
		shipper:  shipper,
		notifier: notifier,
		recorder: recorder,
		log:      logrus.WithField("component", "requisition"),
	}
}

// Submit creates a new PENDING requisition from a sealed draft submission.
// The non-empty-items invariant is re-checked here; the draft guards it
// earlier but this is the boundary the store trusts.
func (s *Service) Submit(ctx context.Context, branchID, employeeID string, sub Submission) (*models.Requisition, error) {
	if branchID == "" {
		return nil, &ValidationError{Field: "branchID", Reason: "must not be empty"}
	}
	if len(sub.Items) == 0 {
		return nil, &ValidationError{Field: "items", Reason: "requisition must contain at least one item"}
	}
	for _, it := range sub.Items {
		if it.Quantity <= 0 {
			return nil, &ValidationError{Field: "quantity", Reason: fmt.Sprintf("non-positive quantity for item %s", it.ItemID)}
		}
	}

	req := &models.Requisition{
		RequisitionID: fmt.Sprintf("REQ-%s", uuid.New().String()[:8]),
		BranchID:      branchID,
		EmployeeID:    employeeID,
		Items:         sub.Items,
		Comment:       sub.Comment,
		Status:        models.StatusPending,
		CreatedAt:     time.Now(),
	}
	if err := s.store.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Get returns one requisition by its public id.
func (s *Service) Get(ctx context.Context, requisitionID string) (*models.Requisition, error) {
	return s.store.GetByID(ctx, requisitionID)
}

// List returns requisitions matching the filter.
func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Requisition, error) {
	return s.store.List(ctx, f)
}

// Availability recomputes the shortage view for a requisition from a fresh
// stock snapshot.
func (s *Service) Availability(ctx context.Context, requisitionID string) (Availability, error) {
	req, err := s.store.GetByID(ctx, requisitionID)
	if err != nil {
		return Availability{}, err
	}
	return s.availabilityFor(ctx, req)
}

func (s *Service) availabilityFor(ctx context.Context, req *models.Requisition) (Availability, error) {
	refs := make([]models.ItemRef, 0, len(req.Items))
	for _, it := range req.Items {
		refs = append(refs, it.Ref())
	}
	snapshot, err := s.catalog.StockLevels(ctx, refs)
	if err != nil {
		return Availability{}, err
	}
	return ComputeAvailability(req.Items, snapshot), nil
}

// Approve marks a pending requisition as approved without creating a
// shipment (the simple administrative flow).
func (s *Service) Approve(ctx context.Context, requisitionID, actorID string) (*models.Requisition, error) {
	return s.transition(ctx, requisitionID, actorID, models.StatusApproved, "")
}

// Reject marks a pending requisition as rejected, keeping the reason for the
// branch to read back.
func (s *Service) Reject(ctx context.Context, requisitionID, actorID, reason string) (*models.Requisition, error) {
	return s.transition(ctx, requisitionID, actorID, models.StatusRejected, reason)
}

func (s *Service) transition(ctx context.Context, requisitionID, actorID, newStatus, reason string) (*models.Requisition, error) {
	req, err := s.store.GetByID(ctx, requisitionID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusPending {
		return nil, &InvalidStateError{RequisitionID: requisitionID, Status: req.Status}
	}

	fields := StatusFields{ProcessedBy: actorID, ProcessedAt: time.Now(), RejectReason: reason}
	if err := s.store.UpdateStatusIfPending(ctx, requisitionID, newStatus, fields); err != nil {
		if errors.Is(err, ErrStatusConflict) {
			return s.conflict(ctx, requisitionID)
		}
		return nil, err
	}

	req.Status = newStatus
	req.ProcessedBy = fields.ProcessedBy
	req.ProcessedAt = &fields.ProcessedAt
	req.RejectReason = reason

	s.afterTransition(req, models.StatusPending, actorID)
	return req, nil
}

// AcceptAndShip fulfills a pending requisition. Order of operations:
//
//  1. precheck availability against a fresh snapshot, so callers get the
//     shortage detail before anything is claimed;
//  2. conditionally flip PENDING -> FULFILLED, which is the at-most-once
//     gate against a concurrent approve/reject/fulfill;
//  3. create the shipment, whose per-item stock decrements are themselves
//     conditional (quantity >= requested) and rolled back on failure.
//
// If step 3 fails the claim from step 2 is reverted, so the requisition is
// observably PENDING again and the caller may retry. Reverting is race-free
// because no other transition can start while the status is FULFILLED.
func (s *Service) AcceptAndShip(ctx context.Context, requisitionID, actorID, shippingComment string) (*models.Requisition, error) {
	req, err := s.store.GetByID(ctx, requisitionID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusPending {
		return nil, &InvalidStateError{RequisitionID: requisitionID, Status: req.Status}
	}

	av, err := s.availabilityFor(ctx, req)
	if err != nil {
		return nil, err
	}
	if !av.CanFulfill {
		return nil, &InsufficientStockError{RequisitionID: requisitionID, Availability: av}
	}

	fields := StatusFields{ProcessedBy: actorID, ProcessedAt: time.Now()}
	if err := s.store.UpdateStatusIfPending(ctx, requisitionID, models.StatusFulfilled, fields); err != nil {
		if errors.Is(err, ErrStatusConflict) {
			return s.conflict(ctx, requisitionID)
		}
		return nil, err
	}

	shipmentID, err := s.shipper.Create(ctx, req, shippingComment, actorID)
	if err != nil {
		if revertErr := s.store.RevertToPending(ctx, requisitionID); revertErr != nil {
			// The claim could not be undone; surface loudly, this needs an
			// operator to reconcile.
			s.log.WithError(revertErr).WithField("requisitionID", requisitionID).
				Error("failed to revert requisition after shipment failure")
		}
		if errors.Is(err, ErrStockConflict) {
			// Stock was consumed between the precheck and the commit.
			// Recompute so the caller sees the shortage that actually blocked.
			if recomputed, avErr := s.availabilityFor(ctx, req); avErr == nil {
				av = recomputed
			}
			return nil, &InsufficientStockError{RequisitionID: requisitionID, Availability: av}
		}
		return nil, &ShipmentCreationError{RequisitionID: requisitionID, Err: err}
	}

	if err := s.store.SetShipmentID(ctx, requisitionID, shipmentID); err != nil {
		// The shipment exists and the transition is committed; the missing
		// linkage is recoverable from the shipment record itself.
		s.log.WithError(err).WithField("requisitionID", requisitionID).
			Warn("failed to link shipment to requisition")
	}

	req.Status = models.StatusFulfilled
	req.ProcessedBy = fields.ProcessedBy
	req.ProcessedAt = &fields.ProcessedAt
	req.ShipmentID = shipmentID

	s.afterTransition(req, models.StatusPending, actorID)
	return req, nil
}

// conflict re-reads the requisition after a lost conditional update so the
// error carries the status that actually won.
func (s *Service) conflict(ctx context.Context, requisitionID string) (*models.Requisition, error) {
	status := "unknown"
	if cur, err := s.store.GetByID(ctx, requisitionID); err == nil {
		status = cur.Status
	}
	return nil, &InvalidStateError{RequisitionID: requisitionID, Status: status}
}

func (s *Service) afterTransition(req *models.Requisition, fromStatus, actorID string) {
	processedTotal.WithLabelValues(req.Status).Inc()
	if s.notifier != nil {
		s.notifier.NotifyStatusChange(req.BranchID, req.RequisitionID, req.Status)
	}
	if s.recorder != nil {
		s.recorder.RecordTransition(req.RequisitionID, fromStatus, req.Status, actorID)
	}
	s.log.WithFields(logrus.Fields{
		"requisitionID": req.RequisitionID,
		"branchID":      req.BranchID,
		"status":        req.Status,
		"actorID":       actorID,
	}).Info("requisition processed")
}
