package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Requisition statuses. PENDING is the only non-terminal state; once
// processedAt is set no further transition is allowed. FULFILLED is the
// canonical name for "accepted with shipment" (some clients still say
// "accepted"; the API layer maps that word to this status).
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusFulfilled = "FULFILLED"
)

type RequisitionItem struct {
	ItemType ItemType `bson:"itemType" json:"itemType"`
	ItemID   string   `bson:"itemID" json:"itemID"`
	Name     string   `bson:"name" json:"name"`
	Quantity int64    `bson:"quantity" json:"quantity"`
}

func (i RequisitionItem) Ref() ItemRef {
	return ItemRef{Type: i.ItemType, ID: i.ItemID}
}

type Requisition struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	RequisitionID string             `bson:"requisitionID" json:"requisitionID"`
	BranchID      string             `bson:"branchID" json:"branchID"`
	EmployeeID    string             `bson:"employeeID,omitempty" json:"employeeID,omitempty"`
	Items         []RequisitionItem  `bson:"items" json:"items"`
	Comment       string             `bson:"comment,omitempty" json:"comment,omitempty"`
	Status        string             `bson:"status" json:"status"`
	ProcessedBy   string             `bson:"processedBy,omitempty" json:"processedBy,omitempty"`
	ProcessedAt   *time.Time         `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
	RejectReason  string             `bson:"rejectReason,omitempty" json:"rejectReason,omitempty"`
	ShipmentID    string             `bson:"shipmentID,omitempty" json:"shipmentID,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// Processed reports whether a terminal transition has already happened.
func (r *Requisition) Processed() bool {
	return r.ProcessedAt != nil
}
