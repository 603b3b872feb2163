// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a sellable item in the shop inventory
type Product struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"not null;size:255;index" json:"name"`
	UnitPrice         int64          `gorm:"not null" json:"unit_price"` // Price in cents
	Quantity          int            `gorm:"not null;default:0" json:"quantity"`
	LowStockThreshold int            `gorm:"default:5" json:"low_stock_threshold"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// IsInStock reports whether at least one unit can be sold
func (p *Product) IsInStock() bool {
	return p.Quantity > 0
}

// IsLowStock reports whether the product is at or below its reorder level
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}

// GetFormattedPrice returns the unit price in whole currency units
func (p *Product) GetFormattedPrice() float64 {
	return float64(p.UnitPrice) / 100
}
