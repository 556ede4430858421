package shipment

import (
	"context"
	"fmt"
	"time"

	"pharma-wms-api-server/internal/models"
	"pharma-wms-api-server/internal/requisition"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StockAdjuster decrements and restores main-warehouse stock. Decrement must
// be conditional on enough quantity being on hand and report
// requisition.ErrStockConflict otherwise.
type StockAdjuster interface {
	DecrementStock(ctx context.Context, ref models.ItemRef, qty int64) error
	IncrementStock(ctx context.Context, ref models.ItemRef, qty int64) error
}

// Store persists shipment records.
type Store interface {
	Create(ctx context.Context, s *models.Shipment) error
	GetByID(ctx context.Context, shipmentID string) (*models.Shipment, error)
	ListByBranch(ctx context.Context, branchID string) ([]models.Shipment, error)
	MarkDelivered(ctx context.Context, shipmentID, actorID string, at time.Time) error
	SetDeliveryPhotoURL(ctx context.Context, shipmentID, url string) error
}

// Service creates shipments for fulfilled requisitions. It implements
// requisition.Shipper.
type Service struct {
	store Store
	stock StockAdjuster
	log   *logrus.Entry
}

func NewService(store Store, stock StockAdjuster) *Service {
	return &Service{
		store: store,
		stock: stock,
		log:   logrus.WithField("component", "shipment"),
	}
}

// Create decrements stock for every requisition line, then writes the
// shipment record. Each decrement is atomic (conditional on quantity >=
// requested); on any failure the decrements already applied are restored
// so stock is never consumed without a shipment existing.
func (s *Service) Create(ctx context.Context, req *models.Requisition, comment, actorID string) (string, error) {
	done := make([]models.RequisitionItem, 0, len(req.Items))
	for _, it := range req.Items {
		if err := s.stock.DecrementStock(ctx, it.Ref(), it.Quantity); err != nil {
			s.rollback(ctx, done)
			return "", fmt.Errorf("decrement %s %s: %w", it.ItemType, it.ItemID, err)
		}
		done = append(done, it)
	}

	shp := &models.Shipment{
		ShipmentID:    fmt.Sprintf("SHP-%s", uuid.New().String()[:8]),
		RequisitionID: req.RequisitionID,
		ToBranchID:    req.BranchID,
		Items:         req.Items,
		Comment:       comment,
		Status:        models.ShipmentStatusCreated,
		CreatedBy:     actorID,
		CreatedAt:     time.Now(),
	}
	if err := s.store.Create(ctx, shp); err != nil {
		s.rollback(ctx, done)
		return "", fmt.Errorf("persist shipment: %w", err)
	}
	return shp.ShipmentID, nil
}

func (s *Service) rollback(ctx context.Context, done []models.RequisitionItem) {
	for _, it := range done {
		if err := s.stock.IncrementStock(ctx, it.Ref(), it.Quantity); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"itemType": it.ItemType,
				"itemID":   it.ItemID,
				"quantity": it.Quantity,
			}).Error("failed to restore stock after shipment failure")
		}
	}
}

// Get returns one shipment by its public id.
func (s *Service) Get(ctx context.Context, shipmentID string) (*models.Shipment, error) {
	return s.store.GetByID(ctx, shipmentID)
}

// ListByBranch returns shipments destined for a branch.
func (s *Service) ListByBranch(ctx context.Context, branchID string) ([]models.Shipment, error) {
	return s.store.ListByBranch(ctx, branchID)
}

// ConfirmDelivery flips CREATED -> DELIVERED once; a second confirmation
// reports requisition.ErrStatusConflict just like the requisition guard.
func (s *Service) ConfirmDelivery(ctx context.Context, shipmentID, actorID string) (*models.Shipment, error) {
	if err := s.store.MarkDelivered(ctx, shipmentID, actorID, time.Now()); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, shipmentID)
}

// AttachDeliveryPhoto records the uploaded proof photo URL.
func (s *Service) AttachDeliveryPhoto(ctx context.Context, shipmentID, url string) error {
	return s.store.SetDeliveryPhotoURL(ctx, shipmentID, url)
}

var _ requisition.Shipper = (*Service)(nil)
