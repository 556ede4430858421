package storage

import (
	"context"
	"time"

	"pharma-wms-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationStore struct {
	db *mongo.Database
}

func NewNotificationStore(db *mongo.Database) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) collection() *mongo.Collection {
	return s.db.Collection("notifications")
}

func (s *NotificationStore) Create(ctx context.Context, branchID, requisitionID, status string) error {
	_, err := s.collection().InsertOne(ctx, models.Notification{
		BranchID:      branchID,
		RequisitionID: requisitionID,
		Status:        status,
		Read:          false,
		CreatedAt:     time.Now(),
	})
	return err
}

func (s *NotificationStore) ListByBranch(ctx context.Context, branchID string, unreadOnly bool) ([]models.Notification, error) {
	filter := bson.M{"branchID": branchID}
	if unreadOnly {
		filter["read"] = false
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(100)
	cursor, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

func (s *NotificationStore) MarkRead(ctx context.Context, branchID string) error {
	_, err := s.collection().UpdateMany(ctx,
		bson.M{"branchID": branchID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}
