package handlers

import (
	"fmt"
	"net/http"

	"pharma-wms-api-server/internal/s3"
	"pharma-wms-api-server/internal/shipment"

	"github.com/gin-gonic/gin"
)

// ShipmentHandler exposes shipment tracking for branches and the warehouse.
// Shipments are created only by the fulfill operation, never directly here.
type ShipmentHandler struct {
	Service    *shipment.Service
	Branches   shipment.BranchNameResolver
	S3Uploader *s3.Uploader
}

func (h *ShipmentHandler) GetShipment(c *gin.Context) {
	shp, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	if c.GetString("user_role") == "branch" && shp.ToBranchID != c.GetString("user_branch_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Shipment belongs to another branch"})
		return
	}

	c.JSON(http.StatusOK, shp)
}

// GetMyShipments lists shipments destined for the calling branch.
func (h *ShipmentHandler) GetMyShipments(c *gin.Context) {
	branchID := c.GetString("user_branch_id")

	shipments, err := h.Service.ListByBranch(c.Request.Context(), branchID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, shipments)
}

// ConfirmDelivery marks a shipment as received by the branch. Conditional
// on CREATED, so double confirmation is a conflict.
func (h *ShipmentHandler) ConfirmDelivery(c *gin.Context) {
	shipmentID := c.Param("id")
	actorID := c.GetString("user_employee_id")

	shp, err := h.Service.Get(c.Request.Context(), shipmentID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	if shp.ToBranchID != c.GetString("user_branch_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Shipment belongs to another branch"})
		return
	}

	shp, err = h.Service.ConfirmDelivery(c.Request.Context(), shipmentID, actorID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, shp)
}

// UploadDeliveryPhoto stores the proof-of-delivery photo on S3 and records
// its URL on the shipment.
func (h *ShipmentHandler) UploadDeliveryPhoto(c *gin.Context) {
	if h.S3Uploader == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Photo storage is not configured"})
		return
	}

	shipmentID := c.Param("id")
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer file.Close()

	objectKey := fmt.Sprintf("delivery-proofs/%s/%s", shipmentID, header.Filename)
	url, err := h.S3Uploader.UploadFile(c.Request.Context(), file, objectKey, header.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo", "details": err.Error()})
		return
	}

	if err := h.Service.AttachDeliveryPhoto(c.Request.Context(), shipmentID, url); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "photoURL": url})
}

// GetWaybill returns the waybill document payload for a shipment. Rendering
// to PDF or print layout is the console's concern.
func (h *ShipmentHandler) GetWaybill(c *gin.Context) {
	shp, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	if c.GetString("user_role") == "branch" && shp.ToBranchID != c.GetString("user_branch_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Shipment belongs to another branch"})
		return
	}

	waybill, err := h.Service.BuildWaybill(c.Request.Context(), shp.ShipmentID, h.Branches)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, waybill)
}
