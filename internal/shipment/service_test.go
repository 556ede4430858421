package shipment

import (
	"context"
	"errors"
	"testing"
	"time"

	"pharma-wms-api-server/internal/models"
	"pharma-wms-api-server/internal/requisition"

	"github.com/stretchr/testify/require"
)

// fakeStock tracks per-item quantities with the same conditional semantics
// as the catalog store's atomic decrement.
type fakeStock struct {
	levels map[models.ItemRef]int64
}

func newFakeStock(levels map[models.ItemRef]int64) *fakeStock {
	cp := make(map[models.ItemRef]int64, len(levels))
	for k, v := range levels {
		cp[k] = v
	}
	return &fakeStock{levels: cp}
}

func (f *fakeStock) DecrementStock(_ context.Context, ref models.ItemRef, qty int64) error {
	if f.levels[ref] < qty {
		return requisition.ErrStockConflict
	}
	f.levels[ref] -= qty
	return nil
}

func (f *fakeStock) IncrementStock(_ context.Context, ref models.ItemRef, qty int64) error {
	if _, ok := f.levels[ref]; !ok {
		return requisition.ErrNotFound
	}
	f.levels[ref] += qty
	return nil
}

type fakeStore struct {
	shipments map[string]*models.Shipment
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{shipments: make(map[string]*models.Shipment)}
}

func (f *fakeStore) Create(_ context.Context, s *models.Shipment) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *s
	f.shipments[s.ShipmentID] = &cp
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*models.Shipment, error) {
	s, ok := f.shipments[id]
	if !ok {
		return nil, requisition.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) ListByBranch(_ context.Context, branchID string) ([]models.Shipment, error) {
	var out []models.Shipment
	for _, s := range f.shipments {
		if s.ToBranchID == branchID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkDelivered(_ context.Context, id, actorID string, at time.Time) error {
	s, ok := f.shipments[id]
	if !ok {
		return requisition.ErrNotFound
	}
	if s.Status != models.ShipmentStatusCreated {
		return requisition.ErrStatusConflict
	}
	s.Status = models.ShipmentStatusDelivered
	s.DeliveredBy = actorID
	s.DeliveredAt = &at
	return nil
}

func (f *fakeStore) SetDeliveryPhotoURL(_ context.Context, id, url string) error {
	s, ok := f.shipments[id]
	if !ok {
		return requisition.ErrNotFound
	}
	s.DeliveryPhotoURL = url
	return nil
}

type staticBranches map[string]string

func (b staticBranches) BranchName(_ context.Context, id string) (string, error) {
	name, ok := b[id]
	if !ok {
		return "", requisition.ErrNotFound
	}
	return name, nil
}

func line(t models.ItemType, id, name string, qty int64) models.RequisitionItem {
	return models.RequisitionItem{ItemType: t, ItemID: id, Name: name, Quantity: qty}
}

func testRequisition(items ...models.RequisitionItem) *models.Requisition {
	return &models.Requisition{
		RequisitionID: "REQ-test0001",
		BranchID:      "branch-1",
		EmployeeID:    "emp-1",
		Items:         items,
		Status:        models.StatusFulfilled,
	}
}

func TestCreate_DecrementsStock(t *testing.T) {
	stock := newFakeStock(map[models.ItemRef]int64{
		{Type: models.ItemTypeMedicine, ID: "paracetamol"}:      100,
		{Type: models.ItemTypeMedicalDevice, ID: "syringe-5ml"}: 20,
	})
	store := newFakeStore()
	svc := NewService(store, stock)

	req := testRequisition(
		line(models.ItemTypeMedicine, "paracetamol", "Paracetamol 500mg", 30),
		line(models.ItemTypeMedicalDevice, "syringe-5ml", "Syringe 5ml", 20),
	)

	id, err := svc.Create(context.Background(), req, "fragile", "wh-1")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Equal(t, int64(70), stock.levels[models.ItemRef{Type: models.ItemTypeMedicine, ID: "paracetamol"}])
	require.Equal(t, int64(0), stock.levels[models.ItemRef{Type: models.ItemTypeMedicalDevice, ID: "syringe-5ml"}])

	shp, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, models.ShipmentStatusCreated, shp.Status)
	require.Equal(t, "REQ-test0001", shp.RequisitionID)
	require.Equal(t, "branch-1", shp.ToBranchID)
	require.Equal(t, "fragile", shp.Comment)
	require.Equal(t, "wh-1", shp.CreatedBy)
	require.Len(t, shp.Items, 2)
}

func TestCreate_RollsBackOnMidListConflict(t *testing.T) {
	stock := newFakeStock(map[models.ItemRef]int64{
		{Type: models.ItemTypeMedicine, ID: "paracetamol"}: 100,
		{Type: models.ItemTypeMedicine, ID: "ibuprofen"}:   5,
	})
	store := newFakeStore()
	svc := NewService(store, stock)

	req := testRequisition(
		line(models.ItemTypeMedicine, "paracetamol", "Paracetamol 500mg", 30),
		line(models.ItemTypeMedicine, "ibuprofen", "Ibuprofen 200mg", 10),
	)

	_, err := svc.Create(context.Background(), req, "", "wh-1")
	require.ErrorIs(t, err, requisition.ErrStockConflict)

	// The first decrement must have been restored.
	require.Equal(t, int64(100), stock.levels[models.ItemRef{Type: models.ItemTypeMedicine, ID: "paracetamol"}])
	require.Equal(t, int64(5), stock.levels[models.ItemRef{Type: models.ItemTypeMedicine, ID: "ibuprofen"}])
	require.Empty(t, store.shipments)
}

func TestCreate_RollsBackOnPersistFailure(t *testing.T) {
	stock := newFakeStock(map[models.ItemRef]int64{
		{Type: models.ItemTypeMedicine, ID: "paracetamol"}: 100,
	})
	store := newFakeStore()
	store.createErr = errors.New("write timeout")
	svc := NewService(store, stock)

	req := testRequisition(line(models.ItemTypeMedicine, "paracetamol", "Paracetamol 500mg", 30))

	_, err := svc.Create(context.Background(), req, "", "wh-1")
	require.Error(t, err)
	require.NotErrorIs(t, err, requisition.ErrStockConflict)
	require.Equal(t, int64(100), stock.levels[models.ItemRef{Type: models.ItemTypeMedicine, ID: "paracetamol"}])
}

func TestConfirmDelivery_Once(t *testing.T) {
	stock := newFakeStock(map[models.ItemRef]int64{
		{Type: models.ItemTypeMedicine, ID: "paracetamol"}: 100,
	})
	store := newFakeStore()
	svc := NewService(store, stock)

	req := testRequisition(line(models.ItemTypeMedicine, "paracetamol", "Paracetamol 500mg", 10))
	id, err := svc.Create(context.Background(), req, "", "wh-1")
	require.NoError(t, err)

	delivered, err := svc.ConfirmDelivery(context.Background(), id, "emp-1")
	require.NoError(t, err)
	require.Equal(t, models.ShipmentStatusDelivered, delivered.Status)
	require.Equal(t, "emp-1", delivered.DeliveredBy)
	require.NotNil(t, delivered.DeliveredAt)

	_, err = svc.ConfirmDelivery(context.Background(), id, "emp-2")
	require.ErrorIs(t, err, requisition.ErrStatusConflict)

	shp, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "emp-1", shp.DeliveredBy)
}

func TestBuildWaybill(t *testing.T) {
	stock := newFakeStock(map[models.ItemRef]int64{
		{Type: models.ItemTypeMedicine, ID: "paracetamol"}:      100,
		{Type: models.ItemTypeMedicalDevice, ID: "syringe-5ml"}: 50,
	})
	store := newFakeStore()
	svc := NewService(store, stock)

	req := testRequisition(
		line(models.ItemTypeMedicine, "paracetamol", "Paracetamol 500mg", 30),
		line(models.ItemTypeMedicalDevice, "syringe-5ml", "Syringe 5ml", 12),
	)
	id, err := svc.Create(context.Background(), req, "handle with care", "wh-1")
	require.NoError(t, err)

	branches := staticBranches{"branch-1": "Central District Pharmacy"}
	wb, err := svc.BuildWaybill(context.Background(), id, branches)
	require.NoError(t, err)

	require.Equal(t, "Main warehouse", wb.Sender)
	require.Equal(t, "Central District Pharmacy", wb.Receiver)
	require.Equal(t, "REQ-test0001", wb.RequisitionID)
	require.Equal(t, int64(42), wb.TotalQuantity)
	require.Len(t, wb.Items, 2)
	require.Equal(t, "Paracetamol 500mg", wb.Items[0].Name)
	require.Equal(t, "handle with care", wb.Comment)
	require.Equal(t, "wh-1", wb.PreparedBy)
	require.Empty(t, wb.ReceivedBy)
}

func TestBuildWaybill_UnknownBranchFallsBackToID(t *testing.T) {
	stock := newFakeStock(map[models.ItemRef]int64{
		{Type: models.ItemTypeMedicine, ID: "paracetamol"}: 100,
	})
	store := newFakeStore()
	svc := NewService(store, stock)

	req := testRequisition(line(models.ItemTypeMedicine, "paracetamol", "Paracetamol 500mg", 5))
	id, err := svc.Create(context.Background(), req, "", "wh-1")
	require.NoError(t, err)

	wb, err := svc.BuildWaybill(context.Background(), id, staticBranches{})
	require.NoError(t, err)
	require.Equal(t, "branch-1", wb.Receiver)
}
