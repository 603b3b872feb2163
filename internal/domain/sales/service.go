// internal/domain/sales/service.go
package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/your-org/shop-backend/internal/config"
	"github.com/your-org/shop-backend/internal/domain/cart"
	"github.com/your-org/shop-backend/internal/domain/product"
	"gorm.io/gorm"
)

// ErrSaleNotFound is returned when no ledger rows exist for a sale number
var ErrSaleNotFound = errors.New("sale not found")

// Service handles the append-only sales ledger
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new sales service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CommitLine records one sold cart line. The stock decrement and the ledger
// insert run in a single transaction so a line is either fully sold or not
// sold at all. A lost stock race surfaces as product.ErrInsufficientStock and
// leaves both tables untouched for this line.
func (s *Service) CommitLine(ctx context.Context, saleNumber string, line cart.Line, customerID *uint) (uint, error) {
	sale := &Sale{
		SaleNumber: saleNumber,
		ProductID:  line.ProductID,
		Quantity:   line.Quantity,
		TotalPrice: line.LineTotal,
		CustomerID: customerID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := product.DecrementStock(tx, line.ProductID, line.Quantity); err != nil {
			return err
		}
		if err := tx.Create(sale).Error; err != nil {
			return fmt.Errorf("failed to record sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sale.ID, nil
}

// History retrieves ledger rows joined with product and customer names,
// newest first. A limit of zero returns everything.
func (s *Service) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	query := s.db.WithContext(ctx).
		Table("sales").
		Select(`sales.id AS sale_id, sales.sale_number, sales.product_id,
			products.name AS product_name, sales.quantity, sales.total_price,
			sales.customer_id, COALESCE(customers.name, '') AS customer_name,
			sales.created_at`).
		Joins("JOIN products ON products.id = sales.product_id").
		Joins("LEFT JOIN customers ON customers.id = sales.customer_id").
		Order("sales.created_at DESC, sales.id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []HistoryEntry
	if err := query.Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve sales history: %w", err)
	}
	return entries, nil
}

// ForSaleNumber retrieves the ledger rows of one checkout, in commit order.
// Receipts are rebuilt from these rows, so a receipt can be re-rendered long
// after the cart that produced it is gone.
func (s *Service) ForSaleNumber(ctx context.Context, saleNumber string) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := s.db.WithContext(ctx).
		Table("sales").
		Select(`sales.id AS sale_id, sales.sale_number, sales.product_id,
			products.name AS product_name, sales.quantity, sales.total_price,
			sales.customer_id, COALESCE(customers.name, '') AS customer_name,
			sales.created_at`).
		Joins("JOIN products ON products.id = sales.product_id").
		Joins("LEFT JOIN customers ON customers.id = sales.customer_id").
		Where("sales.sale_number = ?", saleNumber).
		Order("sales.id ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve sale: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrSaleNotFound
	}
	return entries, nil
}

// DailySummary aggregates ledger rows per calendar day over the given window,
// newest day first
func (s *Service) DailySummary(ctx context.Context, since time.Time) ([]DailySummaryRow, error) {
	var rows []Sale
	query := s.db.WithContext(ctx).Order("created_at ASC")
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve sales for summary: %w", err)
	}
	return SummarizeByDay(rows), nil
}

// SummarizeByDay groups ledger rows into per-day totals, newest day first.
// Transactions counts distinct sale numbers, not rows, so a multi-line
// checkout counts once.
func SummarizeByDay(rows []Sale) []DailySummaryRow {
	type dayAgg struct {
		totalSales  int64
		itemsSold   int
		saleNumbers map[string]struct{}
	}

	byDay := make(map[string]*dayAgg)
	for _, row := range rows {
		day := row.CreatedAt.UTC().Format("2006-01-02")
		agg, ok := byDay[day]
		if !ok {
			agg = &dayAgg{saleNumbers: make(map[string]struct{})}
			byDay[day] = agg
		}
		agg.totalSales += row.TotalPrice
		agg.itemsSold += row.Quantity
		agg.saleNumbers[row.SaleNumber] = struct{}{}
	}

	summary := make([]DailySummaryRow, 0, len(byDay))
	for day, agg := range byDay {
		summary = append(summary, DailySummaryRow{
			Day:          day,
			TotalSales:   agg.totalSales,
			ItemsSold:    agg.itemsSold,
			Transactions: len(agg.saleNumbers),
		})
	}
	sort.Slice(summary, func(i, j int) bool {
		return summary[i].Day > summary[j].Day
	})
	return summary
}
