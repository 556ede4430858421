package requisition

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"pharma-wms-api-server/internal/models"

	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store with the same conditional-update semantics
// as the Mongo implementation.
type memStore struct {
	mu           sync.Mutex
	requisitions map[string]*models.Requisition
	failRevert   bool
}

func newMemStore() *memStore {
	return &memStore{requisitions: make(map[string]*models.Requisition)}
}

func (s *memStore) Create(_ context.Context, r *models.Requisition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.requisitions[r.RequisitionID] = &cp
	return nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*models.Requisition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requisitions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) List(_ context.Context, f ListFilter) ([]models.Requisition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Requisition
	for _, r := range s.requisitions {
		if f.BranchID != "" && r.BranchID != f.BranchID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *memStore) UpdateStatusIfPending(_ context.Context, id, newStatus string, fields StatusFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requisitions[id]
	if !ok || r.Status != models.StatusPending {
		return ErrStatusConflict
	}
	r.Status = newStatus
	r.ProcessedBy = fields.ProcessedBy
	at := fields.ProcessedAt
	r.ProcessedAt = &at
	r.RejectReason = fields.RejectReason
	return nil
}

func (s *memStore) SetShipmentID(_ context.Context, id, shipmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requisitions[id]
	if !ok {
		return ErrNotFound
	}
	r.ShipmentID = shipmentID
	return nil
}

func (s *memStore) RevertToPending(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRevert {
		return errors.New("revert failed")
	}
	r, ok := s.requisitions[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = models.StatusPending
	r.ProcessedBy = ""
	r.ProcessedAt = nil
	r.RejectReason = ""
	return nil
}

// fakeShipper records created shipments and can be told to fail.
type fakeShipper struct {
	mu      sync.Mutex
	created []*models.Requisition
	err     error
	nextID  int
}

func (f *fakeShipper) Create(_ context.Context, req *models.Requisition, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.nextID++
	f.created = append(f.created, req)
	return fmt.Sprintf("SHP-%04d", f.nextID), nil
}

type capturedNotification struct {
	BranchID, RequisitionID, Status string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []capturedNotification
}

func (f *fakeNotifier) NotifyStatusChange(branchID, requisitionID, newStatus string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, capturedNotification{branchID, requisitionID, newStatus})
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeRecorder) RecordTransition(requisitionID, from, to, actorID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, fmt.Sprintf("%s:%s->%s by %s", requisitionID, from, to, actorID))
}

type serviceFixture struct {
	store    *memStore
	catalog  *staticCatalog
	shipper  *fakeShipper
	notifier *fakeNotifier
	recorder *fakeRecorder
	svc      *Service
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		store:    newMemStore(),
		catalog:  testCatalog(),
		shipper:  &fakeShipper{},
		notifier: &fakeNotifier{},
		recorder: &fakeRecorder{},
	}
	f.svc = NewService(f.store, f.catalog, f.shipper, f.notifier, f.recorder)
	return f
}

func (f *serviceFixture) submit(t *testing.T, items ...models.RequisitionItem) *models.Requisition {
	t.Helper()
	req, err := f.svc.Submit(context.Background(), "branch-1", "emp-1", Submission{Items: items})
	require.NoError(t, err)
	return req
}

func TestService_Submit(t *testing.T) {
	f := newFixture()

	req := f.submit(t, item(models.ItemTypeMedicine, "paracetamol", 10))

	require.Equal(t, models.StatusPending, req.Status)
	require.Nil(t, req.ProcessedAt)
	require.Empty(t, req.ProcessedBy)
	require.NotEmpty(t, req.RequisitionID)
	require.Equal(t, "branch-1", req.BranchID)
	require.Equal(t, "emp-1", req.EmployeeID)

	stored, err := f.svc.Get(context.Background(), req.RequisitionID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, stored.Status)
}

func TestService_SubmitValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, "branch-1", "emp-1", Submission{})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "items", vErr.Field)

	_, err = f.svc.Submit(ctx, "", "emp-1", Submission{Items: []models.RequisitionItem{item(models.ItemTypeMedicine, "paracetamol", 1)}})
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "branchID", vErr.Field)

	_, err = f.svc.Submit(ctx, "branch-1", "emp-1", Submission{Items: []models.RequisitionItem{item(models.ItemTypeMedicine, "paracetamol", 0)}})
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "quantity", vErr.Field)
}

func TestService_ApproveOnce(t *testing.T) {
	f := newFixture()
	req := f.submit(t, item(models.ItemTypeMedicine, "paracetamol", 1))

	approved, err := f.svc.Approve(context.Background(), req.RequisitionID, "admin-1")
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, approved.Status)
	require.Equal(t, "admin-1", approved.ProcessedBy)
	require.NotNil(t, approved.ProcessedAt)

	// A second terminal transition must fail and leave state unchanged.
	_, err = f.svc.Approve(context.Background(), req.RequisitionID, "admin-2")
	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	require.Equal(t, models.StatusApproved, stateErr.Status)

	stored, err := f.svc.Get(context.Background(), req.RequisitionID)
	require.NoError(t, err)
	require.Equal(t, "admin-1", stored.ProcessedBy)
	require.Equal(t, models.StatusApproved, stored.Status)
}

func TestService_Reject(t *testing.T) {
	f := newFixture()
	req := f.submit(t, item(models.ItemTypeMedicine, "paracetamol", 1))

	rejected, err := f.svc.Reject(context.Background(), req.RequisitionID, "admin-1", "out of stock")
	require.NoError(t, err)
	require.Equal(t, models.StatusRejected, rejected.Status)
	require.Equal(t, "admin-1", rejected.ProcessedBy)
	require.NotNil(t, rejected.ProcessedAt)

	stored, err := f.svc.Get(context.Background(), req.RequisitionID)
	require.NoError(t, err)
	require.Equal(t, "out of stock", stored.RejectReason)

	require.Equal(t, []capturedNotification{
		{"branch-1", req.RequisitionID, models.StatusRejected},
	}, f.notifier.sent)
}

func TestService_ConcurrentApprove(t *testing.T) {
	f := newFixture()
	req := f.submit(t, item(models.ItemTypeMedicine, "paracetamol", 1))

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, actor := range []string{"admin-1", "admin-2"} {
		wg.Add(1)
		go func(actor string) {
			defer wg.Done()
			_, err := f.svc.Approve(context.Background(), req.RequisitionID, actor)
			results <- err
		}(actor)
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var stateErr *InvalidStateError
		require.ErrorAs(t, err, &stateErr)
		conflicts++
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, conflicts)
}

func TestService_AcceptAndShip(t *testing.T) {
	f := newFixture()
	req := f.submit(t, item(models.ItemTypeMedicine, "paracetamol", 10))
	f.catalog.stock[models.ItemRef{Type: models.ItemTypeMedicine, ID: "paracetamol"}] = 10

	fulfilled, err := f.svc.AcceptAndShip(context.Background(), req.RequisitionID, "wh-1", "urgent")
	require.NoError(t, err)
	require.Equal(t, models.StatusFulfilled, fulfilled.Status)
	require.NotEmpty(t, fulfilled.ShipmentID)
	require.Equal(t, "wh-1", fulfilled.ProcessedBy)

	stored, err := f.svc.Get(context.Background(), req.RequisitionID)
	require.NoError(t, err)
	require.Equal(t, fulfilled.ShipmentID, stored.ShipmentID)

	require.Len(t, f.shipper.created, 1)
	require.Equal(t, int64(10), f.shipper.created[0].Items[0].Quantity)
	require.Len(t, f.recorder.events, 1)
}

func TestService_AcceptAndShipInsufficientStock(t *testing.T) {
	f := newFixture()
	req := f.submit(t, item(models.ItemTypeMedicine, "paracetamol", 10))
	f.catalog.stock[models.ItemRef{Type: models.ItemTypeMedicine, ID: "paracetamol"}] = 4

	_, err := f.svc.AcceptAndShip(context.Background(), req.RequisitionID, "wh-1", "")
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, int64(6), stockErr.Availability.ShortageTotal)
	require.False(t, stockErr.Availability.CanFulfill)

	stored, err := f.svc.Get(context.Background(), req.RequisitionID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, stored.Status)
	require.Empty(t, f.shipper.created)
	require.Empty(t, f.notifier.sent)
}

func TestService_AcceptAndShipShipperFailureLeavesPending(t *testing.T) {
	f := newFixture()
	req := f.submit(t, item(models.ItemTypeMedicine, "paracetamol", 1))
	f.shipper.err = errors.New("carrier unavailable")

	_, err := f.svc.AcceptAndShip(context.Background(), req.RequisitionID, "wh-1", "")
	var shipErr *ShipmentCreationError
	require.ErrorAs(t, err, &shipErr)

	stored, getErr := f.svc.Get(context.Background(), req.RequisitionID)
	require.NoError(t, getErr)
	require.Equal(t, models.StatusPending, stored.Status)
	require.Nil(t, stored.ProcessedAt)
	require.Empty(t, stored.ShipmentID)

	// Retry succeeds once the collaborator is healthy again.
	f.shipper.err = nil
	fulfilled, err := f.svc.AcceptAndShip(context.Background(), req.RequisitionID, "wh-1", "")
	require.NoError(t, err)
	require.Equal(t, models.StatusFulfilled, fulfilled.Status)
}

func TestService_AcceptAndShipStockConflictAtCommit(t *testing.T) {
	f := newFixture()
	req := f.submit(t, item(models.ItemTypeMedicine, "paracetamol", 10))
	// The precheck sees enough stock, but the shipper hits the conditional
	// decrement failing (stock consumed by a concurrent acceptance).
	f.shipper.err = fmt.Errorf("decrement medicine paracetamol: %w", ErrStockConflict)

	_, err := f.svc.AcceptAndShip(context.Background(), req.RequisitionID, "wh-1", "")
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	stored, getErr := f.svc.Get(context.Background(), req.RequisitionID)
	require.NoError(t, getErr)
	require.Equal(t, models.StatusPending, stored.Status)
}

func TestService_AvailabilityEndpointView(t *testing.T) {
	f := newFixture()
	req := f.submit(t,
		item(models.ItemTypeMedicine, "paracetamol", 10),
		item(models.ItemTypeMedicine, "ibuprofen", 60),
	)

	av, err := f.svc.Availability(context.Background(), req.RequisitionID)
	require.NoError(t, err)
	require.Len(t, av.Items, 2)
	require.True(t, av.Items[0].Shortage == 0)
	require.Equal(t, int64(10), av.Items[1].Shortage)
	require.False(t, av.CanFulfill)
	require.Len(t, av.Shortages(), 1)
}
