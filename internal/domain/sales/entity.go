// internal/domain/sales/entity.go
package sales

import (
	"time"
)

// Sale is one committed line item in the append-only sales ledger. Lines sold
// in the same checkout share a SaleNumber. Rows are never updated or deleted.
type Sale struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SaleNumber string    `gorm:"not null;size:50;index" json:"sale_number"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	TotalPrice int64     `gorm:"not null" json:"total_price"` // In cents
	CustomerID *uint     `gorm:"index" json:"customer_id"`    // Nil for walk-in sales
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the table name
func (Sale) TableName() string {
	return "sales"
}

// HistoryEntry is a ledger row joined with its product name for display
type HistoryEntry struct {
	SaleID       uint      `json:"sale_id"`
	SaleNumber   string    `json:"sale_number"`
	ProductID    uint      `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Quantity     int       `json:"quantity"`
	TotalPrice   int64     `json:"total_price"`
	CustomerID   *uint     `json:"customer_id"`
	CustomerName string    `json:"customer_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DailySummaryRow aggregates one calendar day of sales
type DailySummaryRow struct {
	Day          string `json:"day"` // YYYY-MM-DD
	TotalSales   int64  `json:"total_sales"`
	ItemsSold    int    `json:"items_sold"`
	Transactions int    `json:"transactions"` // Distinct sale numbers
}
