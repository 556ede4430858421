package requisition

import (
	"testing"

	"pharma-wms-api-server/internal/models"

	"github.com/stretchr/testify/require"
)

func item(t models.ItemType, id string, qty int64) models.RequisitionItem {
	return models.RequisitionItem{ItemType: t, ItemID: id, Name: id, Quantity: qty}
}

func TestComputeAvailability_Shortage(t *testing.T) {
	items := []models.RequisitionItem{
		item(models.ItemTypeMedicine, "paracetamol", 10),
	}
	snapshot := map[models.ItemRef]int64{
		{Type: models.ItemTypeMedicine, ID: "paracetamol"}: 4,
	}

	av := ComputeAvailability(items, snapshot)

	require.Len(t, av.Items, 1)
	require.Equal(t, int64(10), av.Items[0].RequestedQty)
	require.Equal(t, int64(4), av.Items[0].AvailableQty)
	require.Equal(t, int64(6), av.Items[0].Shortage)
	require.Equal(t, int64(6), av.ShortageTotal)
	require.False(t, av.CanFulfill)
}

func TestComputeAvailability_FullCoverage(t *testing.T) {
	items := []models.RequisitionItem{
		item(models.ItemTypeMedicine, "paracetamol", 10),
		item(models.ItemTypeMedicalDevice, "syringe-5ml", 3),
	}
	snapshot := map[models.ItemRef]int64{
		{Type: models.ItemTypeMedicine, ID: "paracetamol"}:      10,
		{Type: models.ItemTypeMedicalDevice, ID: "syringe-5ml"}: 50,
	}

	av := ComputeAvailability(items, snapshot)

	require.True(t, av.CanFulfill)
	require.Equal(t, int64(0), av.ShortageTotal)
	require.Empty(t, av.Shortages())
	// Surplus never shows as negative shortage.
	require.Equal(t, int64(0), av.Items[1].Shortage)
}

func TestComputeAvailability_MissingCatalogItemCountsAsZero(t *testing.T) {
	items := []models.RequisitionItem{
		item(models.ItemTypeMedicine, "unknown-med", 5),
	}

	av := ComputeAvailability(items, map[models.ItemRef]int64{})

	require.Equal(t, int64(0), av.Items[0].AvailableQty)
	require.Equal(t, int64(5), av.Items[0].Shortage)
	require.False(t, av.CanFulfill)
}

func TestComputeAvailability_Pure(t *testing.T) {
	items := []models.RequisitionItem{
		item(models.ItemTypeMedicine, "ibuprofen", 7),
		item(models.ItemTypeMedicine, "paracetamol", 2),
	}
	snapshot := map[models.ItemRef]int64{
		{Type: models.ItemTypeMedicine, ID: "ibuprofen"}: 3,
	}

	first := ComputeAvailability(items, snapshot)
	second := ComputeAvailability(items, snapshot)

	require.Equal(t, first, second)
	// can_fulfill holds exactly when every line is covered.
	require.Equal(t, first.ShortageTotal == 0, first.CanFulfill)
}
