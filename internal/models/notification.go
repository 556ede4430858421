package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is the persisted copy of a status-change push. Delivery over
// the WebSocket hub is best-effort; the record is what a branch sees when it
// reconnects.
type Notification struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BranchID      string             `bson:"branchID" json:"branchID"`
	RequisitionID string             `bson:"requisitionID" json:"requisitionID"`
	Status        string             `bson:"status" json:"status"`
	Read          bool               `bson:"read" json:"read"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
