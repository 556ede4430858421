package handlers

import (
	"errors"
	"net/http"

	"pharma-wms-api-server/internal/requisition"

	"github.com/gin-gonic/gin"
)

// respondWorkflowError maps the workflow error taxonomy onto HTTP statuses.
// Every branch keeps enough structured detail for the console to render a
// message next to the offending field or action.
func respondWorkflowError(c *gin.Context, err error) {
	var (
		validationErr *requisition.ValidationError
		stateErr      *requisition.InvalidStateError
		stockErr      *requisition.InsufficientStockError
		shipmentErr   *requisition.ShipmentCreationError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Error(),
			"kind":  "validation",
			"field": validationErr.Field,
		})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":         stateErr.Error(),
			"kind":          "invalid_state",
			"currentStatus": stateErr.Status,
		})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":        stockErr.Error(),
			"kind":         "insufficient_stock",
			"availability": stockErr.Availability,
		})
	case errors.As(err, &shipmentErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": shipmentErr.Error(),
			"kind":  "shipment_creation",
		})
	case errors.Is(err, requisition.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kind": "not_found"})
	case errors.Is(err, requisition.ErrStatusConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": "invalid_state"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
