// internal/interfaces/http/handlers/sales.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/shop-backend/internal/config"
	"github.com/your-org/shop-backend/internal/domain/analytics"
	"github.com/your-org/shop-backend/internal/domain/sales"
	"gorm.io/gorm"
)

// SalesHandler handles sales history and analytics endpoints
type SalesHandler struct {
	salesService     *sales.Service
	analyticsService *analytics.Service
	config           *config.Config
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *SalesHandler {
	salesService := sales.NewService(db, cfg)
	return &SalesHandler{
		salesService:     salesService,
		analyticsService: analytics.NewService(analytics.NewRedisCache(redisClient), salesService, cfg, logger),
		config:           cfg,
	}
}

// GetHistory handles GET /sales with optional ?limit=
func (h *SalesHandler) GetHistory(c *gin.Context) {
	limit := 0
	if limitParam := c.Query("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit",
			})
			return
		}
		limit = parsed
	}

	entries, err := h.salesService.History(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve sales history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sales history retrieved successfully",
		"data":    entries,
	})
}

// GetDailySummary handles GET /sales/summary with optional ?days=
func (h *SalesHandler) GetDailySummary(c *gin.Context) {
	days := 30
	if daysParam := c.Query("days"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid days",
			})
			return
		}
		days = parsed
	}

	summary, err := h.analyticsService.DailySummary(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute daily summary",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Daily summary retrieved successfully",
		"data":    summary,
	})
}
