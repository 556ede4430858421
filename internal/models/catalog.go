package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogItem is one stocked medicine or medical device. BranchID is empty
// for main-warehouse stock; branch stock rows carry the owning branch id.
// Requisitions are always fulfilled from main-warehouse rows.
type CatalogItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ItemID    string             `bson:"itemID" json:"itemID"`
	ItemType  ItemType           `bson:"itemType" json:"itemType"`
	BranchID  string             `bson:"branchID,omitempty" json:"branchID,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Unit      string             `bson:"unit,omitempty" json:"unit,omitempty"`
	Quantity  int64              `bson:"quantity" json:"quantity"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (c CatalogItem) Ref() ItemRef {
	return ItemRef{Type: c.ItemType, ID: c.ItemID}
}
