package requisition

import (
	"pharma-wms-api-server/internal/models"
)

// AvailabilityItem compares one requested line against current on-hand
// stock. Shortage is never negative.
type AvailabilityItem struct {
	ItemType     models.ItemType `json:"itemType"`
	ItemID       string          `json:"itemID"`
	Name         string          `json:"name"`
	RequestedQty int64           `json:"requestedQty"`
	AvailableQty int64           `json:"availableQty"`
	Shortage     int64           `json:"shortage"`
}

type Availability struct {
	Items         []AvailabilityItem `json:"items"`
	ShortageTotal int64              `json:"shortageTotal"`
	CanFulfill    bool               `json:"canFulfill"`
}

// Shortages returns only the lines that are short.
func (a Availability) Shortages() []AvailabilityItem {
	var out []AvailabilityItem
	for _, it := range a.Items {
		if it.Shortage > 0 {
			out = append(out, it)
		}
	}
	return out
}

// ComputeAvailability is a pure function over the requested lines and a
// stock snapshot. Items missing from the snapshot count as zero on hand.
// It is re-evaluated at the moment of fulfillment, never trusted from an
// earlier read.
func ComputeAvailability(items []models.RequisitionItem, snapshot map[models.ItemRef]int64) Availability {
	av := Availability{Items: make([]AvailabilityItem, 0, len(items))}
	for _, it := range items {
		onHand := snapshot[it.Ref()]
		shortage := it.Quantity - onHand
		if shortage < 0 {
			shortage = 0
		}
		av.Items = append(av.Items, AvailabilityItem{
			ItemType:     it.ItemType,
			ItemID:       it.ItemID,
			Name:         it.Name,
			RequestedQty: it.Quantity,
			AvailableQty: onHand,
			Shortage:     shortage,
		})
		av.ShortageTotal += shortage
	}
	av.CanFulfill = av.ShortageTotal == 0
	return av
}
