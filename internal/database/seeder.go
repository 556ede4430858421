package database

import (
	"context"

	"pharma-wms-api-server/internal/auth"
	"pharma-wms-api-server/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const adminEmail = "admin@example.com"

// SeedAdmin creates the initial admin account if no user exists yet, so a
// fresh deployment can log in and create real accounts.
func SeedAdmin(db *mongo.Database) error {
	userCollection := db.Collection("users")

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": adminEmail})
	if err != nil {
		return err
	}
	if count > 0 {
		logrus.Debug("admin account already exists, seeding skipped")
		return nil
	}

	logrus.Info("admin account not found, seeding")
	hashedPassword, err := auth.HashPassword("changeme")
	if err != nil {
		return err
	}

	admin := models.User{
		Email:      adminEmail,
		Name:       "Administrator",
		Password:   hashedPassword,
		Role:       "admin",
		EmployeeID: "admin",
		Status:     "active",
	}

	_, err = userCollection.InsertOne(context.Background(), admin)
	return err
}
