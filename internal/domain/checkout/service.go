// internal/domain/checkout/service.go
package checkout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/shop-backend/internal/config"
	"github.com/your-org/shop-backend/internal/domain/cart"
	"github.com/your-org/shop-backend/internal/domain/customer"
	"github.com/your-org/shop-backend/internal/domain/sales"
)

// ErrEmptyCart is returned when checkout is attempted on an empty cart
var ErrEmptyCart = errors.New("cart is empty")

// InsufficientStockError is returned when pre-commit validation finds a line
// requesting more units than are on hand. Nothing has been written when this
// error is returned.
type InsufficientStockError struct {
	ProductID uint
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", e.Name, e.Available, e.Requested)
}

// PartialFailureError is returned when the commit loop stops mid-way. Lines in
// Committed are sold and stay sold; Failed and any lines after it remain in
// the cart. Cause carries the underlying commit error, typically a lost stock
// race surfacing as product.ErrInsufficientStock.
type PartialFailureError struct {
	SaleNumber string
	Committed  []CommittedLine
	Failed     cart.Line
	Cause      error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("checkout %s stopped at %s after %d committed lines: %v",
		e.SaleNumber, e.Failed.Name, len(e.Committed), e.Cause)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Cause
}

// Inventory reads current stock levels
type Inventory interface {
	QuantityOnHand(ctx context.Context, productID uint) (int, error)
}

// Ledger commits sold lines to durable storage
type Ledger interface {
	CommitLine(ctx context.Context, saleNumber string, line cart.Line, customerID *uint) (uint, error)
}

// Carts loads and clears session carts
type Carts interface {
	Load(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// Customers resolves customer references attached to a sale
type Customers interface {
	Get(ctx context.Context, id uint) (*customer.Customer, error)
}

// SummaryCache invalidates cached sales aggregates after the ledger changes
type SummaryCache interface {
	Invalidate(ctx context.Context) error
}

// Renderer turns a receipt into a printable document
type Renderer interface {
	Render(receipt *Receipt) (*bytes.Buffer, error)
}

// SaleReader loads committed ledger rows for receipt re-rendering
type SaleReader interface {
	ForSaleNumber(ctx context.Context, saleNumber string) ([]sales.HistoryEntry, error)
}

// ReceiptLine is one sold line on a printed receipt
type ReceiptLine struct {
	Name      string
	Quantity  int
	UnitPrice int64
	LineTotal int64
}

// CustomerInfo is the buyer block printed on a receipt
type CustomerInfo struct {
	Name          string
	ContactNumber string
	Address       string
}

// Receipt is the printable record of one completed checkout
type Receipt struct {
	SaleNumber string
	IssuedAt   time.Time
	Customer   CustomerInfo
	Lines      []ReceiptLine
	Total      int64
}

// CommittedLine pairs a sold cart line with its ledger row id
type CommittedLine struct {
	SaleID uint      `json:"sale_id"`
	Line   cart.Line `json:"line"`
}

// Result is the outcome of a successful checkout. Receipt is nil and
// ReceiptErr is set when the sale committed but rendering failed; the receipt
// can be re-rendered later from the ledger by sale number.
type Result struct {
	SaleNumber string
	Total      int64
	Lines      []CommittedLine
	Receipt    *bytes.Buffer
	ReceiptErr error
}

// Service orchestrates checkout: validate, commit line by line, render the
// receipt, clear the cart
type Service struct {
	carts     Carts
	inventory Inventory
	customers Customers
	ledger    Ledger
	cache     SummaryCache
	renderer  Renderer
	saleRead  SaleReader
	logger    logrus.FieldLogger
	config    *config.Config
}

// NewService creates a new checkout service
func NewService(
	carts Carts,
	inventory Inventory,
	customers Customers,
	ledger Ledger,
	cache SummaryCache,
	renderer Renderer,
	saleReader SaleReader,
	logger logrus.FieldLogger,
	cfg *config.Config,
) *Service {
	return &Service{
		carts:     carts,
		inventory: inventory,
		customers: customers,
		ledger:    ledger,
		cache:     cache,
		renderer:  renderer,
		saleRead:  saleReader,
		logger:    logger,
		config:    cfg,
	}
}

// Checkout sells the session cart. Validation runs against current stock
// before any write; the commit loop then sells lines in cart order, each line
// atomically. A mid-loop failure returns PartialFailureError with the lines
// that did sell. Receipt rendering failure does not undo the sale.
func (s *Service) Checkout(ctx context.Context, sessionID string, customerID *uint) (*Result, error) {
	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	var buyer *customer.Customer
	if customerID != nil {
		buyer, err = s.customers.Get(ctx, *customerID)
		if err != nil {
			return nil, err
		}
	}

	// Pre-commit validation. Concurrent checkouts can still invalidate this
	// snapshot; the guarded decrement at commit time is the real gate.
	for _, line := range c.Lines {
		available, err := s.inventory.QuantityOnHand(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if available < line.Quantity {
			return nil, &InsufficientStockError{
				ProductID: line.ProductID,
				Name:      line.Name,
				Available: available,
				Requested: line.Quantity,
			}
		}
	}

	saleNumber := newSaleNumber()
	committed := make([]CommittedLine, 0, len(c.Lines))
	for _, line := range c.Lines {
		saleID, err := s.ledger.CommitLine(ctx, saleNumber, line, customerID)
		if err != nil {
			// Lines already committed stay sold, so the cached summary is
			// stale the moment any line landed.
			if len(committed) > 0 {
				if cacheErr := s.cache.Invalidate(ctx); cacheErr != nil {
					s.logger.WithError(cacheErr).WithField("sale_number", saleNumber).
						Warn("Failed to invalidate summary cache after partial checkout")
				}
			}
			return nil, &PartialFailureError{
				SaleNumber: saleNumber,
				Committed:  committed,
				Failed:     line,
				Cause:      err,
			}
		}
		committed = append(committed, CommittedLine{SaleID: saleID, Line: line})
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WithError(err).WithField("sale_number", saleNumber).
			Warn("Failed to invalidate summary cache after checkout")
	}

	result := &Result{
		SaleNumber: saleNumber,
		Total:      c.Total(),
		Lines:      committed,
	}

	receipt := buildReceipt(saleNumber, time.Now().UTC(), buyer, c.Lines)
	if doc, err := s.renderer.Render(receipt); err != nil {
		// The sale is final; the caller can re-render by sale number.
		s.logger.WithError(err).WithField("sale_number", saleNumber).
			Error("Failed to render receipt")
		result.ReceiptErr = err
	} else {
		result.Receipt = doc
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).
			Warn("Failed to clear cart after checkout")
	}

	return result, nil
}

// RenderSale re-renders the receipt of a completed checkout from the ledger
func (s *Service) RenderSale(ctx context.Context, saleNumber string) (*bytes.Buffer, error) {
	entries, err := s.saleRead.ForSaleNumber(ctx, saleNumber)
	if err != nil {
		return nil, err
	}

	var buyer *customer.Customer
	if entries[0].CustomerID != nil {
		buyer, err = s.customers.Get(ctx, *entries[0].CustomerID)
		if err != nil && !errors.Is(err, customer.ErrNotFound) {
			return nil, err
		}
	}

	lines := make([]ReceiptLine, 0, len(entries))
	var total int64
	for _, entry := range entries {
		unitPrice := int64(0)
		if entry.Quantity > 0 {
			unitPrice = entry.TotalPrice / int64(entry.Quantity)
		}
		lines = append(lines, ReceiptLine{
			Name:      entry.ProductName,
			Quantity:  entry.Quantity,
			UnitPrice: unitPrice,
			LineTotal: entry.TotalPrice,
		})
		total += entry.TotalPrice
	}

	receipt := &Receipt{
		SaleNumber: saleNumber,
		IssuedAt:   entries[0].CreatedAt,
		Customer:   customerInfo(buyer),
		Lines:      lines,
		Total:      total,
	}
	return s.renderer.Render(receipt)
}

func buildReceipt(saleNumber string, issuedAt time.Time, buyer *customer.Customer, lines []cart.Line) *Receipt {
	receiptLines := make([]ReceiptLine, 0, len(lines))
	var total int64
	for _, line := range lines {
		receiptLines = append(receiptLines, ReceiptLine{
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
		total += line.LineTotal
	}

	return &Receipt{
		SaleNumber: saleNumber,
		IssuedAt:   issuedAt,
		Customer:   customerInfo(buyer),
		Lines:      receiptLines,
		Total:      total,
	}
}

func customerInfo(buyer *customer.Customer) CustomerInfo {
	if buyer == nil {
		return CustomerInfo{Name: "Walk-in Customer"}
	}
	return CustomerInfo{
		Name:          buyer.Name,
		ContactNumber: buyer.ContactNumber,
		Address:       buyer.Address,
	}
}

func newSaleNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("POS-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
