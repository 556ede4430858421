package handlers

import (
	"context"
	"net/http"

	"pharma-wms-api-server/internal/models"
	"pharma-wms-api-server/internal/requisition"
	"pharma-wms-api-server/internal/storage"

	"github.com/gin-gonic/gin"
)

// RequisitionHandler serves the branch side of the workflow: assembling and
// submitting requisitions and tracking their status.
type RequisitionHandler struct {
	Service       *requisition.Service
	Catalog       requisition.Catalog
	Notifications *storage.NotificationStore
}

type RequisitionLinePayload struct {
	ItemType models.ItemType `json:"itemType" binding:"required"`
	ItemID   string          `json:"itemID" binding:"required"`
	Quantity int64           `json:"quantity" binding:"required"`
}

type CreateRequisitionPayload struct {
	Items   []RequisitionLinePayload `json:"items" binding:"required,dive"`
	Comment string                   `json:"comment"`
}

// CreateRequisition assembles a draft from the payload lines (merging
// duplicate items, resolving names against the catalog) and submits it.
func (h *RequisitionHandler) CreateRequisition(c *gin.Context) {
	branchID := c.GetString("user_branch_id")
	employeeID := c.GetString("user_employee_id")

	var payload CreateRequisitionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := requisition.NewDraft(h.Catalog)
	for _, line := range payload.Items {
		if err := draft.AddItem(c.Request.Context(), line.ItemType, line.ItemID, line.Quantity); err != nil {
			respondWorkflowError(c, err)
			return
		}
	}
	submission, err := draft.ToSubmission(payload.Comment)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	req, err := h.Service.Submit(c.Request.Context(), branchID, employeeID, submission)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, req)
}

// GetMyRequisitions lists the calling branch's requisitions, optionally
// filtered by status.
func (h *RequisitionHandler) GetMyRequisitions(c *gin.Context) {
	branchID := c.GetString("user_branch_id")

	filter := requisition.ListFilter{
		BranchID: branchID,
		Status:   normalizeStatus(c.Query("status")),
	}
	requisitions, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, requisitions)
}

// GetRequisition returns one requisition. Branch users only see their own.
func (h *RequisitionHandler) GetRequisition(c *gin.Context) {
	req, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	if c.GetString("user_role") == "branch" && req.BranchID != c.GetString("user_branch_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Requisition belongs to another branch"})
		return
	}

	c.JSON(http.StatusOK, req)
}

// GetMyNotifications returns the branch's notification feed.
func (h *RequisitionHandler) GetMyNotifications(c *gin.Context) {
	branchID := c.GetString("user_branch_id")
	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.Notifications.ListByBranch(context.Background(), branchID, unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationsRead marks the whole feed as read.
func (h *RequisitionHandler) MarkNotificationsRead(c *gin.Context) {
	branchID := c.GetString("user_branch_id")

	if err := h.Notifications.MarkRead(context.Background(), branchID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
