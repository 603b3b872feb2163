// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/shop-backend/internal/config"
	"github.com/your-org/shop-backend/internal/domain/analytics"
	"github.com/your-org/shop-backend/internal/domain/cart"
	"github.com/your-org/shop-backend/internal/domain/checkout"
	"github.com/your-org/shop-backend/internal/domain/customer"
	"github.com/your-org/shop-backend/internal/domain/product"
	"github.com/your-org/shop-backend/internal/domain/sales"
	"github.com/your-org/shop-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// CheckoutHandler handles POS checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	config          *config.Config
}

// NewCheckoutHandler creates a new checkout handler with its full service graph
func NewCheckoutHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *CheckoutHandler {
	productService := product.NewService(db, cfg)
	customerService := customer.NewService(db, cfg)
	cartService := cart.NewService(redisClient, productService, cfg)
	salesService := sales.NewService(db, cfg)
	analyticsService := analytics.NewService(analytics.NewRedisCache(redisClient), salesService, cfg, logger)
	pdfService := pdf.NewService(cfg)

	checkoutService := checkout.NewService(
		cartService,
		productService,
		customerService,
		salesService,
		analyticsService,
		pdfService,
		salesService,
		logger,
		cfg,
	)

	return &CheckoutHandler{
		checkoutService: checkoutService,
		config:          cfg,
	}
}

// CheckoutRequest represents a checkout submission
type CheckoutRequest struct {
	CustomerID *uint `json:"customer_id"`
}

// Checkout handles POST /checkout. The response reports the sale outcome; the
// PDF receipt is fetched separately by sale number so a render failure never
// hides a committed sale.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	sessionID := getOrCreateSessionID(c, h.config)

	// Walk-in sales may post an empty body.
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), sessionID, req.CustomerID)
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	receiptStatus := "rendered"
	if result.ReceiptErr != nil {
		receiptStatus = "failed"
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Checkout completed successfully",
		"data": gin.H{
			"sale_number":    result.SaleNumber,
			"total":          result.Total,
			"lines":          result.Lines,
			"receipt_status": receiptStatus,
			"receipt_url":    fmt.Sprintf("/api/v1/sales/%s/receipt", result.SaleNumber),
		},
	})
}

// DownloadReceipt handles GET /sales/:saleNumber/receipt
func (h *CheckoutHandler) DownloadReceipt(c *gin.Context) {
	saleNumber := c.Param("saleNumber")

	pdfBuffer, err := h.checkoutService.RenderSale(c.Request.Context(), saleNumber)
	if err != nil {
		if errors.Is(err, sales.ErrSaleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Sale not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", saleNumber))
	c.Header("Content-Length", strconv.Itoa(len(pdfBuffer.Bytes())))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}

func (h *CheckoutHandler) respondCheckoutError(c *gin.Context, err error) {
	var stockErr *checkout.InsufficientStockError
	var partialErr *checkout.PartialFailureError

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart is empty",
		})
	case errors.Is(err, customer.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Customer not found",
		})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error": stockErr.Error(),
			"details": gin.H{
				"product_id": stockErr.ProductID,
				"available":  stockErr.Available,
				"requested":  stockErr.Requested,
			},
		})
	case errors.As(err, &partialErr):
		// Some lines sold before the failure; report exactly which ones so
		// the operator can retry the rest.
		c.JSON(http.StatusConflict, gin.H{
			"error": partialErr.Error(),
			"details": gin.H{
				"sale_number":     partialErr.SaleNumber,
				"committed_lines": partialErr.Committed,
				"failed_line":     partialErr.Failed,
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Checkout failed",
		})
	}
}
