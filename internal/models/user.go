package models

// User matches the document in MongoDB. EmployeeID is the public actor id
// recorded on requisitions and shipments the user processes.
type User struct {
	Email      string `bson:"email" json:"email"`
	Name       string `bson:"name" json:"name"`
	Password   string `bson:"password" json:"-"`
	Role       string `bson:"role" json:"role"` // "admin", "warehouse", "branch"
	BranchID   string `bson:"branchID,omitempty" json:"branchID,omitempty"`
	EmployeeID string `bson:"employeeID" json:"employeeID"`
	Status     string `bson:"status" json:"status"`
}
