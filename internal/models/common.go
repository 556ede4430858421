package models

// ItemType distinguishes the two catalog namespaces. Medicines and medical
// devices have independent id spaces, so an item is always addressed by the
// (type, id) pair.
type ItemType string

const (
	ItemTypeMedicine      ItemType = "medicine"
	ItemTypeMedicalDevice ItemType = "medical_device"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeMedicine || t == ItemTypeMedicalDevice
}

// ItemRef is the compound catalog key.
type ItemRef struct {
	Type ItemType
	ID   string
}
