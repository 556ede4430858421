package database

import (
	"context"
	"time"

	"pharma-wms-api-server/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens the Mongo client and verifies the connection.
func Connect(cfg config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client.Database(cfg.DBName), nil
}

// EnsureIndexes creates the unique keys the conditional updates rely on.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	indexes := map[string]mongo.IndexModel{
		"requisitions": {
			Keys:    bson.D{{Key: "requisitionID", Value: 1}},
			Options: unique,
		},
		"shipments": {
			Keys:    bson.D{{Key: "shipmentID", Value: 1}},
			Options: unique,
		},
		"catalog_items": {
			Keys:    bson.D{{Key: "itemType", Value: 1}, {Key: "itemID", Value: 1}, {Key: "branchID", Value: 1}},
			Options: unique,
		},
		"branches": {
			Keys:    bson.D{{Key: "branchID", Value: 1}},
			Options: unique,
		},
		"users": {
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: unique,
		},
	}

	for coll, model := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return err
		}
	}
	return nil
}
