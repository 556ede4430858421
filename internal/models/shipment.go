package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ShipmentStatusCreated   = "CREATED"
	ShipmentStatusDelivered = "DELIVERED"
)

// Shipment is the physical transfer record produced when a requisition is
// fulfilled. Items are copied from the requisition at creation time so the
// waybill stays stable even if the catalog changes later.
type Shipment struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ShipmentID       string             `bson:"shipmentID" json:"shipmentID"`
	RequisitionID    string             `bson:"requisitionID" json:"requisitionID"`
	ToBranchID       string             `bson:"toBranchID" json:"toBranchID"`
	Items            []RequisitionItem  `bson:"items" json:"items"`
	Comment          string             `bson:"comment,omitempty" json:"comment,omitempty"`
	Status           string             `bson:"status" json:"status"`
	CreatedBy        string             `bson:"createdBy" json:"createdBy"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	DeliveredBy      string             `bson:"deliveredBy,omitempty" json:"deliveredBy,omitempty"`
	DeliveredAt      *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	DeliveryPhotoURL string             `bson:"deliveryPhotoURL,omitempty" json:"deliveryPhotoURL,omitempty"`
}
