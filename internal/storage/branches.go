package storage

import (
	"context"
	"fmt"
	"time"

	"pharma-wms-api-server/internal/models"
	"pharma-wms-api-server/internal/requisition"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type BranchStore struct {
	db *mongo.Database
}

func NewBranchStore(db *mongo.Database) *BranchStore {
	return &BranchStore{db: db}
}

func (s *BranchStore) collection() *mongo.Collection {
	return s.db.Collection("branches")
}

func (s *BranchStore) Create(ctx context.Context, b *models.Branch) error {
	count, err := s.collection().CountDocuments(ctx, bson.M{"branchID": b.BranchID})
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("branch %s already exists", b.BranchID)
	}

	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	result, err := s.collection().InsertOne(ctx, b)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		b.ID = oid
	}
	return nil
}

func (s *BranchStore) GetByID(ctx context.Context, branchID string) (*models.Branch, error) {
	var b models.Branch
	err := s.collection().FindOne(ctx, bson.M{"branchID": branchID}).Decode(&b)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, requisition.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *BranchStore) List(ctx context.Context) ([]models.Branch, error) {
	cursor, err := s.collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var branches []models.Branch
	if err = cursor.All(ctx, &branches); err != nil {
		return nil, err
	}
	if branches == nil {
		branches = []models.Branch{}
	}
	return branches, nil
}

func (s *BranchStore) Update(ctx context.Context, branchID string, name, address, phone, status string) error {
	result, err := s.collection().UpdateOne(ctx, bson.M{"branchID": branchID}, bson.M{"$set": bson.M{
		"name":      name,
		"address":   address,
		"phone":     phone,
		"status":    status,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return requisition.ErrNotFound
	}
	return nil
}

// BranchName implements shipment.BranchNameResolver.
func (s *BranchStore) BranchName(ctx context.Context, branchID string) (string, error) {
	b, err := s.GetByID(ctx, branchID)
	if err != nil {
		return "", err
	}
	return b.Name, nil
}
