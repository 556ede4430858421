package storage

import (
	"context"
	"time"

	"pharma-wms-api-server/internal/models"
	"pharma-wms-api-server/internal/requisition"
	"pharma-wms-api-server/internal/shipment"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ShipmentStore struct {
	db *mongo.Database
}

func NewShipmentStore(db *mongo.Database) *ShipmentStore {
	return &ShipmentStore{db: db}
}

func (s *ShipmentStore) collection() *mongo.Collection {
	return s.db.Collection("shipments")
}

func (s *ShipmentStore) Create(ctx context.Context, shp *models.Shipment) error {
	result, err := s.collection().InsertOne(ctx, shp)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		shp.ID = oid
	}
	return nil
}

func (s *ShipmentStore) GetByID(ctx context.Context, shipmentID string) (*models.Shipment, error) {
	var shp models.Shipment
	err := s.collection().FindOne(ctx, bson.M{"shipmentID": shipmentID}).Decode(&shp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, requisition.ErrNotFound
		}
		return nil, err
	}
	return &shp, nil
}

func (s *ShipmentStore) ListByBranch(ctx context.Context, branchID string) ([]models.Shipment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection().Find(ctx, bson.M{"toBranchID": branchID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var shipments []models.Shipment
	if err = cursor.All(ctx, &shipments); err != nil {
		return nil, err
	}
	if shipments == nil {
		shipments = []models.Shipment{}
	}
	return shipments, nil
}

// MarkDelivered is conditional on status CREATED, mirroring the requisition
// transition guard: confirming twice reports a conflict.
func (s *ShipmentStore) MarkDelivered(ctx context.Context, shipmentID, actorID string, at time.Time) error {
	atomicFilter := bson.M{"shipmentID": shipmentID, "status": models.ShipmentStatusCreated}
	result, err := s.collection().UpdateOne(ctx, atomicFilter, bson.M{"$set": bson.M{
		"status":      models.ShipmentStatusDelivered,
		"deliveredBy": actorID,
		"deliveredAt": at,
	}})
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		return requisition.ErrStatusConflict
	}
	return nil
}

func (s *ShipmentStore) SetDeliveryPhotoURL(ctx context.Context, shipmentID, url string) error {
	result, err := s.collection().UpdateOne(ctx,
		bson.M{"shipmentID": shipmentID},
		bson.M{"$set": bson.M{"deliveryPhotoURL": url}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return requisition.ErrNotFound
	}
	return nil
}

var _ shipment.Store = (*ShipmentStore)(nil)
