package storage

import (
	"context"

	"pharma-wms-api-server/internal/models"
	"pharma-wms-api-server/internal/requisition"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RequisitionStore implements requisition.Store on MongoDB. The terminal
// transition is a single UpdateOne filtered on status == PENDING; when it
// modifies nothing another actor won the race.
type RequisitionStore struct {
	db *mongo.Database
}

func NewRequisitionStore(db *mongo.Database) *RequisitionStore {
	return &RequisitionStore{db: db}
}

func (s *RequisitionStore) collection() *mongo.Collection {
	return s.db.Collection("requisitions")
}

func (s *RequisitionStore) Create(ctx context.Context, r *models.Requisition) error {
	result, err := s.collection().InsertOne(ctx, r)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		r.ID = oid
	}
	return nil
}

func (s *RequisitionStore) GetByID(ctx context.Context, requisitionID string) (*models.Requisition, error) {
	var req models.Requisition
	err := s.collection().FindOne(ctx, bson.M{"requisitionID": requisitionID}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, requisition.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (s *RequisitionStore) List(ctx context.Context, f requisition.ListFilter) ([]models.Requisition, error) {
	filter := bson.M{}
	if f.BranchID != "" {
		filter["branchID"] = f.BranchID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.DateFrom != nil || f.DateTo != nil {
		created := bson.M{}
		if f.DateFrom != nil {
			created["$gte"] = *f.DateFrom
		}
		if f.DateTo != nil {
			created["$lte"] = *f.DateTo
		}
		filter["createdAt"] = created
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requisitions []models.Requisition
	if err = cursor.All(ctx, &requisitions); err != nil {
		return nil, err
	}
	if requisitions == nil {
		requisitions = []models.Requisition{}
	}
	return requisitions, nil
}

func (s *RequisitionStore) UpdateStatusIfPending(ctx context.Context, requisitionID, newStatus string, fields requisition.StatusFields) error {
	set := bson.M{
		"status":      newStatus,
		"processedBy": fields.ProcessedBy,
		"processedAt": fields.ProcessedAt,
	}
	if fields.RejectReason != "" {
		set["rejectReason"] = fields.RejectReason
	}

	// Only update while still pending; losing the race is a conflict, not an
	// error of the persistence layer.
	atomicFilter := bson.M{"requisitionID": requisitionID, "status": models.StatusPending}
	result, err := s.collection().UpdateOne(ctx, atomicFilter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		return requisition.ErrStatusConflict
	}
	return nil
}

func (s *RequisitionStore) SetShipmentID(ctx context.Context, requisitionID, shipmentID string) error {
	_, err := s.collection().UpdateOne(ctx,
		bson.M{"requisitionID": requisitionID},
		bson.M{"$set": bson.M{"shipmentID": shipmentID}},
	)
	return err
}

func (s *RequisitionStore) RevertToPending(ctx context.Context, requisitionID string) error {
	_, err := s.collection().UpdateOne(ctx,
		bson.M{"requisitionID": requisitionID},
		bson.M{
			"$set":   bson.M{"status": models.StatusPending},
			"$unset": bson.M{"processedBy": "", "processedAt": "", "rejectReason": ""},
		},
	)
	return err
}

var _ requisition.Store = (*RequisitionStore)(nil)
