package handlers

import (
	"net/http"
	"strings"
	"time"

	"pharma-wms-api-server/internal/models"
	"pharma-wms-api-server/internal/requisition"

	"github.com/gin-gonic/gin"
)

// WarehouseHandler serves the warehouse side: reviewing pending
// requisitions, checking availability, and running the terminal transitions.
type WarehouseHandler struct {
	Service *requisition.Service
}

// normalizeStatus maps the external status vocabulary onto the canonical
// one. Older console builds say "accepted" for the fulfilled-with-shipment
// state; internally there is exactly one status space.
func normalizeStatus(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return ""
	case "ACCEPTED", models.StatusFulfilled:
		return models.StatusFulfilled
	default:
		return strings.ToUpper(strings.TrimSpace(s))
	}
}

// GetAllRequisitions lists requisitions with optional branch, status and
// date-range filters (dates in RFC 3339).
func (h *WarehouseHandler) GetAllRequisitions(c *gin.Context) {
	filter := requisition.ListFilter{
		BranchID: c.Query("branchID"),
		Status:   normalizeStatus(c.Query("status")),
	}
	if from := c.Query("dateFrom"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dateFrom must be RFC 3339"})
			return
		}
		filter.DateFrom = &t
	}
	if to := c.Query("dateTo"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dateTo must be RFC 3339"})
			return
		}
		filter.DateTo = &t
	}

	requisitions, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, requisitions)
}

// GetAvailability recomputes the shortage view for a requisition against
// current stock. This is display data; the fulfill operation re-evaluates
// it again at commit time.
func (h *WarehouseHandler) GetAvailability(c *gin.Context) {
	availability, err := h.Service.Availability(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, availability)
}

// ApproveRequisition runs the simple administrative approval (no shipment).
func (h *WarehouseHandler) ApproveRequisition(c *gin.Context) {
	actorID := c.GetString("user_employee_id")

	req, err := h.Service.Approve(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

type RejectRequisitionPayload struct {
	Reason string `json:"reason"`
}

// RejectRequisition rejects a pending requisition, keeping the reason.
func (h *WarehouseHandler) RejectRequisition(c *gin.Context) {
	actorID := c.GetString("user_employee_id")

	var payload RejectRequisitionPayload
	if err := c.ShouldBindJSON(&payload); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.Service.Reject(c.Request.Context(), c.Param("id"), actorID, payload.Reason)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

type FulfillRequisitionPayload struct {
	ShippingComment string `json:"shippingComment"`
}

// FulfillRequisition accepts a pending requisition and creates its
// shipment. Fails with shortage detail when stock does not cover the
// request.
func (h *WarehouseHandler) FulfillRequisition(c *gin.Context) {
	actorID := c.GetString("user_employee_id")

	var payload FulfillRequisitionPayload
	if err := c.ShouldBindJSON(&payload); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.Service.AcceptAndShip(c.Request.Context(), c.Param("id"), actorID, payload.ShippingComment)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}
