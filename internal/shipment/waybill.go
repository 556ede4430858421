package shipment

import (
	"context"
	"time"

	"pharma-wms-api-server/internal/models"
)

// BranchNameResolver looks up the display name of a branch.
type BranchNameResolver interface {
	BranchName(ctx context.Context, branchID string) (string, error)
}

type WaybillLine struct {
	Name     string          `json:"name"`
	ItemType models.ItemType `json:"itemType"`
	Quantity int64           `json:"quantity"`
}

// Waybill is the document payload for a shipment. Rendering (PDF, print
// layout) is left to the consumer; this service only assembles the data.
type Waybill struct {
	ShipmentID    string        `json:"shipmentID"`
	RequisitionID string        `json:"requisitionID"`
	CreatedAt     time.Time     `json:"createdAt"`
	Sender        string        `json:"sender"`
	Receiver      string        `json:"receiver"`
	Items         []WaybillLine `json:"items"`
	TotalQuantity int64         `json:"totalQuantity"`
	Comment       string        `json:"comment,omitempty"`
	PreparedBy    string        `json:"preparedBy,omitempty"`
	ReceivedBy    string        `json:"receivedBy,omitempty"`
}

const waybillSender = "Main warehouse"

// BuildWaybill assembles the waybill payload for a shipment.
func (s *Service) BuildWaybill(ctx context.Context, shipmentID string, branches BranchNameResolver) (*Waybill, error) {
	shp, err := s.store.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	receiver := shp.ToBranchID
	if branches != nil {
		if name, err := branches.BranchName(ctx, shp.ToBranchID); err == nil && name != "" {
			receiver = name
		}
	}

	wb := &Waybill{
		ShipmentID:    shp.ShipmentID,
		RequisitionID: shp.RequisitionID,
		CreatedAt:     shp.CreatedAt,
		Sender:        waybillSender,
		Receiver:      receiver,
		Comment:       shp.Comment,
		PreparedBy:    shp.CreatedBy,
		ReceivedBy:    shp.DeliveredBy,
	}
	for _, it := range shp.Items {
		wb.Items = append(wb.Items, WaybillLine{
			Name:     it.Name,
			ItemType: it.ItemType,
			Quantity: it.Quantity,
		})
		wb.TotalQuantity += it.Quantity
	}
	return wb, nil
}
