// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/shop-backend/internal/config"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a product does not exist
	ErrNotFound = errors.New("product not found")

	// ErrInsufficientStock is returned when a decrement would drive stock negative
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Service handles product inventory business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	Name              string `json:"name" binding:"required"`
	UnitPrice         int64  `json:"unit_price" binding:"required,min=1"`
	Quantity          int    `json:"quantity" binding:"min=0"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

// UpdateProductRequest represents product update data
type UpdateProductRequest struct {
	Name              *string `json:"name,omitempty"`
	UnitPrice         *int64  `json:"unit_price,omitempty"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty"`
}

// RestockRequest represents an inbound stock adjustment
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// Create adds a new product to the inventory
func (s *Service) Create(ctx context.Context, req *CreateProductRequest) (*Product, error) {
	p := &Product{
		Name:              req.Name,
		UnitPrice:         req.UnitPrice,
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
	}
	if p.LowStockThreshold == 0 {
		p.LowStockThreshold = 5
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

// List retrieves products, optionally filtered by a case-insensitive name match
func (s *Service) List(ctx context.Context, search string) ([]Product, error) {
	var products []Product
	query := s.db.WithContext(ctx).Order("name ASC")
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// Get retrieves a single product by id
func (s *Service) Get(ctx context.Context, id uint) (*Product, error) {
	var p Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &p, nil
}

// Update modifies product attributes other than stock
func (s *Service) Update(ctx context.Context, id uint, req *UpdateProductRequest) (*Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.UnitPrice != nil {
		updates["unit_price"] = *req.UnitPrice
	}
	if req.LowStockThreshold != nil {
		updates["low_stock_threshold"] = *req.LowStockThreshold
	}
	if len(updates) == 0 {
		return p, nil
	}

	if err := s.db.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return p, nil
}

// Restock increases quantity on hand
func (s *Service) Restock(ctx context.Context, id uint, quantity int) (*Product, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("restock quantity must be at least 1")
	}

	result := s.db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", quantity))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to restock product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.Get(ctx, id)
}

// QuantityOnHand reads the current stock level for a product
func (s *Service) QuantityOnHand(ctx context.Context, id uint) (int, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return p.Quantity, nil
}

// DecrementStock atomically reduces quantity on hand, refusing to go negative.
// The guarded UPDATE is the only protection against two concurrent checkouts
// selling the same units, so callers must treat a zero-row result as a lost race.
func DecrementStock(db *gorm.DB, productID uint, quantity int) error {
	result := db.Model(&Product{}).
		Where("id = ? AND quantity >= ?", productID, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := db.Model(&Product{}).Where("id = ?", productID).Count(&exists).Error; err == nil && exists == 0 {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}
