package storage

import (
	"context"
	"fmt"
	"time"

	"pharma-wms-api-server/internal/models"
	"pharma-wms-api-server/internal/requisition"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CatalogStore holds medicines and medical devices in one collection keyed
// by (itemType, itemID, branchID). Main-warehouse rows have an empty
// branchID; requisition fulfillment reads and decrements only those.
type CatalogStore struct {
	db *mongo.Database
}

func NewCatalogStore(db *mongo.Database) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) collection() *mongo.Collection {
	return s.db.Collection("catalog_items")
}

func mainWarehouseFilter(ref models.ItemRef) bson.M {
	return bson.M{
		"itemType": ref.Type,
		"itemID":   ref.ID,
		"branchID": bson.M{"$in": bson.A{nil, ""}},
	}
}

// StockLevels returns current main-warehouse quantities for the given refs.
// Refs missing from the catalog are simply absent from the map; callers
// treat that as zero on hand.
func (s *CatalogStore) StockLevels(ctx context.Context, refs []models.ItemRef) (map[models.ItemRef]int64, error) {
	levels := make(map[models.ItemRef]int64, len(refs))
	if len(refs) == 0 {
		return levels, nil
	}

	clauses := make(bson.A, 0, len(refs))
	for _, ref := range refs {
		clauses = append(clauses, mainWarehouseFilter(ref))
	}

	cursor, err := s.collection().Find(ctx, bson.M{"$or": clauses})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.CatalogItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	for _, it := range items {
		levels[it.Ref()] = it.Quantity
	}
	return levels, nil
}

// ResolveName returns the display name for a main-warehouse catalog item.
func (s *CatalogStore) ResolveName(ctx context.Context, ref models.ItemRef) (string, error) {
	var item models.CatalogItem
	err := s.collection().FindOne(ctx, mainWarehouseFilter(ref)).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", fmt.Errorf("catalog item %s/%s: %w", ref.Type, ref.ID, requisition.ErrNotFound)
		}
		return "", err
	}
	return item.Name, nil
}

// DecrementStock subtracts qty from main-warehouse stock only when enough is
// on hand. A no-op update means stock ran out since the last read.
func (s *CatalogStore) DecrementStock(ctx context.Context, ref models.ItemRef, qty int64) error {
	if qty <= 0 {
		return nil
	}
	filter := mainWarehouseFilter(ref)
	filter["quantity"] = bson.M{"$gte": qty}

	result, err := s.collection().UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"quantity": -qty},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		return fmt.Errorf("item %s/%s: %w", ref.Type, ref.ID, requisition.ErrStockConflict)
	}
	return nil
}

// IncrementStock adds qty back to main-warehouse stock (receipt or rollback
// of a failed shipment).
func (s *CatalogStore) IncrementStock(ctx context.Context, ref models.ItemRef, qty int64) error {
	if qty <= 0 {
		return nil
	}
	result, err := s.collection().UpdateOne(ctx, mainWarehouseFilter(ref), bson.M{
		"$inc": bson.M{"quantity": qty},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("item %s/%s: %w", ref.Type, ref.ID, requisition.ErrNotFound)
	}
	return nil
}

// Create inserts a new catalog item; (itemType, itemID, branchID) must be
// unique.
func (s *CatalogStore) Create(ctx context.Context, item *models.CatalogItem) error {
	count, err := s.collection().CountDocuments(ctx, bson.M{
		"itemType": item.ItemType,
		"itemID":   item.ItemID,
		"branchID": item.BranchID,
	})
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("catalog item %s/%s already exists", item.ItemType, item.ItemID)
	}

	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	_, err = s.collection().InsertOne(ctx, item)
	return err
}

// List returns catalog items, optionally filtered by type. Empty branchID
// lists main-warehouse stock.
func (s *CatalogStore) List(ctx context.Context, itemType models.ItemType, branchID string) ([]models.CatalogItem, error) {
	filter := bson.M{}
	if itemType != "" {
		filter["itemType"] = itemType
	}
	if branchID == "" {
		filter["branchID"] = bson.M{"$in": bson.A{nil, ""}}
	} else {
		filter["branchID"] = branchID
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.CatalogItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CatalogItem{}
	}
	return items, nil
}

var _ requisition.Catalog = (*CatalogStore)(nil)
