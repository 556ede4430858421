package handlers

import (
	"net/http"

	"pharma-wms-api-server/internal/models"
	"pharma-wms-api-server/internal/storage"

	"github.com/gin-gonic/gin"
)

// CatalogHandler manages the medicines / medical devices catalog and
// main-warehouse stock levels.
type CatalogHandler struct {
	Store *storage.CatalogStore
}

type CreateCatalogItemRequest struct {
	ItemID   string          `json:"itemID" binding:"required"`
	ItemType models.ItemType `json:"itemType" binding:"required"`
	Name     string          `json:"name" binding:"required"`
	Unit     string          `json:"unit"`
	Quantity int64           `json:"quantity" binding:"min=0"`
}

func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req CreateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.ItemType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemType must be medicine or medical_device"})
		return
	}

	item := &models.CatalogItem{
		ItemID:   req.ItemID,
		ItemType: req.ItemType,
		Name:     req.Name,
		Unit:     req.Unit,
		Quantity: req.Quantity,
	}
	if err := h.Store.Create(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ListItems lists main-warehouse catalog items, optionally by type.
func (h *CatalogHandler) ListItems(c *gin.Context) {
	itemType := models.ItemType(c.Query("itemType"))
	if itemType != "" && !itemType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemType must be medicine or medical_device"})
		return
	}

	items, err := h.Store.List(c.Request.Context(), itemType, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query catalog"})
		return
	}

	c.JSON(http.StatusOK, items)
}

type ReceiveStockRequest struct {
	ItemID   string          `json:"itemID" binding:"required"`
	ItemType models.ItemType `json:"itemType" binding:"required"`
	Quantity int64           `json:"quantity" binding:"required,gt=0"`
}

// ReceiveStock adds delivered quantity to main-warehouse stock.
func (h *CatalogHandler) ReceiveStock(c *gin.Context) {
	var req ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.ItemType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemType must be medicine or medical_device"})
		return
	}

	ref := models.ItemRef{Type: req.ItemType, ID: req.ItemID}
	if err := h.Store.IncrementStock(c.Request.Context(), ref, req.Quantity); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
