// internal/interfaces/http/handlers/repair.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/shop-backend/internal/config"
	"github.com/your-org/shop-backend/internal/domain/customer"
	"github.com/your-org/shop-backend/internal/domain/repair"
	"gorm.io/gorm"
)

// RepairHandler handles repair order endpoints
type RepairHandler struct {
	repairService *repair.Service
	config        *config.Config
}

// NewRepairHandler creates a new repair order handler
func NewRepairHandler(db *gorm.DB, cfg *config.Config) *RepairHandler {
	return &RepairHandler{
		repairService: repair.NewService(db, cfg),
		config:        cfg,
	}
}

// CreateOrder handles POST /repairs
func (h *RepairHandler) CreateOrder(c *gin.Context) {
	var req repair.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := h.repairService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Customer not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create repair order",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Repair order created successfully",
		"data":    order,
	})
}

// ListOrders handles GET /repairs with optional ?status=
func (h *RepairHandler) ListOrders(c *gin.Context) {
	status := repair.OrderStatus(c.Query("status"))

	orders, err := h.repairService.List(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Repair orders retrieved successfully",
		"data":    orders,
	})
}

// GetOrder handles GET /repairs/:id
func (h *RepairHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid repair order ID",
		})
		return
	}

	order, err := h.repairService.Get(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, repair.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Repair order not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve repair order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Repair order retrieved successfully",
		"data":    order,
	})
}

// UpdateStatus handles PUT /repairs/:id/status
func (h *RepairHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid repair order ID",
		})
		return
	}

	var req repair.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := h.repairService.UpdateStatus(c.Request.Context(), uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, repair.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Repair order not found",
			})
		case errors.Is(err, repair.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Repair order status updated successfully",
		"data":    order,
	})
}
