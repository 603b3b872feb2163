// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/shop-backend/internal/config"
	"github.com/your-org/shop-backend/internal/interfaces/http/handlers"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	SetupCustomerRoutes(rg, db, cfg)
	SetupProductRoutes(rg, db, cfg)
	SetupRepairRoutes(rg, db, cfg)
	SetupPOSRoutes(rg, db, redisClient, cfg, logger)
}

// SetupCustomerRoutes sets up customer directory routes
func SetupCustomerRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	customerHandler := handlers.NewCustomerHandler(db, cfg)

	customers := rg.Group("/customers")
	{
		customers.POST("", customerHandler.CreateCustomer)
		customers.GET("", customerHandler.ListCustomers)
		customers.GET("/:id", customerHandler.GetCustomer)
	}
}

// SetupProductRoutes sets up inventory routes
func SetupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)

	products := rg.Group("/products")
	{
		products.POST("", productHandler.CreateProduct)
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.PUT("/:id", productHandler.UpdateProduct)
		products.POST("/:id/restock", productHandler.RestockProduct)
	}
}

// SetupRepairRoutes sets up repair order routes
func SetupRepairRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	repairHandler := handlers.NewRepairHandler(db, cfg)

	repairs := rg.Group("/repairs")
	{
		repairs.POST("", repairHandler.CreateOrder)
		repairs.GET("", repairHandler.ListOrders)
		repairs.GET("/:id", repairHandler.GetOrder)
		repairs.PUT("/:id/status", repairHandler.UpdateStatus)
	}
}

// SetupPOSRoutes sets up cart, checkout and sales routes
func SetupPOSRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	cartHandler := handlers.NewCartHandler(db, redisClient, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(db, redisClient, cfg, logger)
	salesHandler := handlers.NewSalesHandler(db, redisClient, cfg, logger)

	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddToCart)
		cart.DELETE("/items/:lineId", cartHandler.RemoveFromCart)
		cart.DELETE("", cartHandler.ClearCart)
	}

	rg.POST("/checkout", checkoutHandler.Checkout)

	salesGroup := rg.Group("/sales")
	{
		salesGroup.GET("", salesHandler.GetHistory)
		salesGroup.GET("/summary", salesHandler.GetDailySummary)
		salesGroup.GET("/:saleNumber/receipt", checkoutHandler.DownloadReceipt)
	}
}
