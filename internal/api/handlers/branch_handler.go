package handlers

import (
	"net/http"

	"pharma-wms-api-server/internal/models"
	"pharma-wms-api-server/internal/storage"

	"github.com/gin-gonic/gin"
)

type BranchHandler struct {
	Store *storage.BranchStore
}

type CreateBranchRequest struct {
	BranchID string `json:"branchID" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

func (h *BranchHandler) CreateBranch(c *gin.Context) {
	var req CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	branch := &models.Branch{
		BranchID: req.BranchID,
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		Status:   "ACTIVE",
	}
	if err := h.Store.Create(c.Request.Context(), branch); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, branch)
}

func (h *BranchHandler) GetAllBranches(c *gin.Context) {
	branches, err := h.Store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query branches"})
		return
	}

	c.JSON(http.StatusOK, branches)
}

func (h *BranchHandler) GetBranchByID(c *gin.Context) {
	branch, err := h.Store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, branch)
}

type UpdateBranchRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Status  string `json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
}

func (h *BranchHandler) UpdateBranch(c *gin.Context) {
	var req UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.Update(c.Request.Context(), c.Param("id"), req.Name, req.Address, req.Phone, req.Status); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
