package checkout_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/shop-backend/internal/config"
	"github.com/your-org/shop-backend/internal/domain/cart"
	"github.com/your-org/shop-backend/internal/domain/checkout"
	"github.com/your-org/shop-backend/internal/domain/customer"
	"github.com/your-org/shop-backend/internal/domain/product"
	"github.com/your-org/shop-backend/internal/domain/sales"
)

type fakeCarts struct {
	mu      sync.Mutex
	carts   map[string]*cart.Cart
	cleared []string
}

func (f *fakeCarts) Load(_ context.Context, sessionID string) (*cart.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.carts[sessionID]; ok {
		return c, nil
	}
	return cart.New(sessionID), nil
}

func (f *fakeCarts) Clear(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, sessionID)
	delete(f.carts, sessionID)
	return nil
}

// fakeStock backs both the inventory reads and the ledger's guarded decrement
// so concurrent checkouts contend on the same counters.
type fakeStock struct {
	mu    sync.Mutex
	stock map[uint]int
}

func (f *fakeStock) QuantityOnHand(_ context.Context, productID uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	quantity, ok := f.stock[productID]
	if !ok {
		return 0, product.ErrNotFound
	}
	return quantity, nil
}

func (f *fakeStock) decrement(productID uint, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stock[productID] < quantity {
		return product.ErrInsufficientStock
	}
	f.stock[productID] -= quantity
	return nil
}

type commitCall struct {
	saleNumber string
	line       cart.Line
	customerID *uint
}

type fakeLedger struct {
	mu      sync.Mutex
	stock   *fakeStock
	commits []commitCall
	failOn  int // 1-based index of the commit call to fail; 0 never fails
	nextID  uint
}

func (f *fakeLedger) CommitLine(_ context.Context, saleNumber string, line cart.Line, customerID *uint) (uint, error) {
	f.mu.Lock()
	callIndex := len(f.commits) + 1
	f.mu.Unlock()

	if f.failOn != 0 && callIndex == f.failOn {
		return 0, fmt.Errorf("failed to record sale: %w", errors.New("connection reset"))
	}
	if f.stock != nil {
		if err := f.stock.decrement(line.ProductID, line.Quantity); err != nil {
			return 0, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.commits = append(f.commits, commitCall{saleNumber: saleNumber, line: line, customerID: customerID})
	return f.nextID, nil
}

type fakeCustomers struct {
	customers map[uint]*customer.Customer
}

func (f *fakeCustomers) Get(_ context.Context, id uint) (*customer.Customer, error) {
	if c, ok := f.customers[id]; ok {
		return c, nil
	}
	return nil, customer.ErrNotFound
}

type fakeCache struct {
	mu            sync.Mutex
	invalidations int
}

func (f *fakeCache) Invalidate(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidations++
	return nil
}

type fakeRenderer struct {
	mu       sync.Mutex
	fail     bool
	rendered []*checkout.Receipt
}

func (f *fakeRenderer) Render(receipt *checkout.Receipt) (*bytes.Buffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("wkhtmltopdf not found")
	}
	f.rendered = append(f.rendered, receipt)
	return bytes.NewBufferString("%PDF-1.4 " + receipt.SaleNumber), nil
}

type fakeSaleReader struct {
	entries map[string][]sales.HistoryEntry
}

func (f *fakeSaleReader) ForSaleNumber(_ context.Context, saleNumber string) ([]sales.HistoryEntry, error) {
	if entries, ok := f.entries[saleNumber]; ok {
		return entries, nil
	}
	return nil, sales.ErrSaleNotFound
}

type fixture struct {
	carts    *fakeCarts
	stock    *fakeStock
	ledger   *fakeLedger
	buyers   *fakeCustomers
	cache    *fakeCache
	renderer *fakeRenderer
	reader   *fakeSaleReader
	service  *checkout.Service
}

func newFixture() *fixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	stock := &fakeStock{stock: map[uint]int{}}
	f := &fixture{
		carts:    &fakeCarts{carts: map[string]*cart.Cart{}},
		stock:    stock,
		ledger:   &fakeLedger{stock: stock},
		buyers:   &fakeCustomers{customers: map[uint]*customer.Customer{}},
		cache:    &fakeCache{},
		renderer: &fakeRenderer{},
		reader:   &fakeSaleReader{entries: map[string][]sales.HistoryEntry{}},
	}
	f.service = checkout.NewService(
		f.carts, f.stock, f.buyers, f.ledger, f.cache, f.renderer, f.reader,
		logger, &config.Config{},
	)
	return f
}

func (f *fixture) seedCart(t *testing.T, sessionID string, lines ...cart.Line) {
	t.Helper()
	c := cart.New(sessionID)
	for _, line := range lines {
		_, err := c.Add(line.ProductID, line.Name, line.UnitPrice, line.Quantity)
		require.NoError(t, err)
	}
	f.carts.carts[sessionID] = c
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture()

	_, err := f.service.Checkout(context.Background(), "s1", nil)
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Empty(t, f.ledger.commits)
}

func TestCheckoutInsufficientStockAbortsBeforeAnyWrite(t *testing.T) {
	f := newFixture()
	f.stock.stock[1] = 10
	f.stock.stock[2] = 1
	f.seedCart(t, "s1",
		cart.Line{ProductID: 1, Name: "Charger", UnitPrice: 1500, Quantity: 2},
		cart.Line{ProductID: 2, Name: "Battery", UnitPrice: 3000, Quantity: 3},
	)

	_, err := f.service.Checkout(context.Background(), "s1", nil)

	var stockErr *checkout.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, uint(2), stockErr.ProductID)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)

	// Nothing sold, nothing cleared.
	assert.Empty(t, f.ledger.commits)
	assert.Equal(t, 10, f.stock.stock[1])
	assert.Empty(t, f.carts.cleared)
	assert.Equal(t, 0, f.cache.invalidations)
}

func TestCheckoutUnknownCustomer(t *testing.T) {
	f := newFixture()
	f.stock.stock[1] = 10
	f.seedCart(t, "s1", cart.Line{ProductID: 1, Name: "Charger", UnitPrice: 1500, Quantity: 1})

	missing := uint(42)
	_, err := f.service.Checkout(context.Background(), "s1", &missing)
	assert.ErrorIs(t, err, customer.ErrNotFound)
	assert.Empty(t, f.ledger.commits)
}

func TestCheckoutSuccess(t *testing.T) {
	f := newFixture()
	f.stock.stock[1] = 10
	f.stock.stock[2] = 5
	f.seedCart(t, "s1",
		cart.Line{ProductID: 1, Name: "Charger", UnitPrice: 1500, Quantity: 2},
		cart.Line{ProductID: 2, Name: "Battery", UnitPrice: 3000, Quantity: 1},
	)

	result, err := f.service.Checkout(context.Background(), "s1", nil)
	require.NoError(t, err)

	assert.Equal(t, int64(6000), result.Total)
	require.Len(t, result.Lines, 2)
	assert.NotEmpty(t, result.SaleNumber)
	require.NotNil(t, result.Receipt)
	assert.NoError(t, result.ReceiptErr)

	// Lines committed in cart order under one sale number.
	require.Len(t, f.ledger.commits, 2)
	assert.Equal(t, uint(1), f.ledger.commits[0].line.ProductID)
	assert.Equal(t, uint(2), f.ledger.commits[1].line.ProductID)
	assert.Equal(t, f.ledger.commits[0].saleNumber, f.ledger.commits[1].saleNumber)

	assert.Equal(t, 8, f.stock.stock[1])
	assert.Equal(t, 4, f.stock.stock[2])
	assert.Equal(t, []string{"s1"}, f.carts.cleared)
	assert.Equal(t, 1, f.cache.invalidations)
}

func TestCheckoutWalkInCustomerOnReceipt(t *testing.T) {
	f := newFixture()
	f.stock.stock[1] = 10
	f.seedCart(t, "s1", cart.Line{ProductID: 1, Name: "Charger", UnitPrice: 1500, Quantity: 1})

	_, err := f.service.Checkout(context.Background(), "s1", nil)
	require.NoError(t, err)

	require.Len(t, f.renderer.rendered, 1)
	receipt := f.renderer.rendered[0]
	assert.Equal(t, "Walk-in Customer", receipt.Customer.Name)
	assert.Empty(t, receipt.Customer.ContactNumber)
	assert.Empty(t, receipt.Customer.Address)
}

func TestCheckoutNamedCustomerOnReceipt(t *testing.T) {
	f := newFixture()
	f.stock.stock[1] = 10
	f.buyers.customers[7] = &customer.Customer{
		ID:            7,
		Name:          "Asha Perera",
		ContactNumber: "0771234567",
		Address:       "12 Temple Road",
	}
	f.seedCart(t, "s1", cart.Line{ProductID: 1, Name: "Charger", UnitPrice: 1500, Quantity: 1})

	buyerID := uint(7)
	_, err := f.service.Checkout(context.Background(), "s1", &buyerID)
	require.NoError(t, err)

	require.Len(t, f.ledger.commits, 1)
	require.NotNil(t, f.ledger.commits[0].customerID)
	assert.Equal(t, uint(7), *f.ledger.commits[0].customerID)

	require.Len(t, f.renderer.rendered, 1)
	assert.Equal(t, "Asha Perera", f.renderer.rendered[0].Customer.Name)
}

func TestCheckoutPartialFailureKeepsCommittedLines(t *testing.T) {
	f := newFixture()
	f.stock.stock[1] = 10
	f.stock.stock[2] = 5
	f.ledger.failOn = 2
	f.seedCart(t, "s1",
		cart.Line{ProductID: 1, Name: "Charger", UnitPrice: 1500, Quantity: 2},
		cart.Line{ProductID: 2, Name: "Battery", UnitPrice: 3000, Quantity: 1},
	)

	_, err := f.service.Checkout(context.Background(), "s1", nil)

	var partial *checkout.PartialFailureError
	require.ErrorAs(t, err, &partial)
	require.Len(t, partial.Committed, 1)
	assert.Equal(t, uint(1), partial.Committed[0].Line.ProductID)
	assert.Equal(t, uint(2), partial.Failed.ProductID)

	// First line sold and stays sold; second line's stock untouched.
	assert.Equal(t, 8, f.stock.stock[1])
	assert.Equal(t, 5, f.stock.stock[2])

	// Cart is kept so the remaining lines can be retried.
	assert.Empty(t, f.carts.cleared)
	assert.Empty(t, f.renderer.rendered)

	// The committed line changed the ledger, so the summary cache must drop.
	assert.Equal(t, 1, f.cache.invalidations)
}

func TestCheckoutFirstLineFailureLeavesCacheAlone(t *testing.T) {
	f := newFixture()
	f.stock.stock[1] = 10
	f.ledger.failOn = 1
	f.seedCart(t, "s1", cart.Line{ProductID: 1, Name: "Charger", UnitPrice: 1500, Quantity: 2})

	_, err := f.service.Checkout(context.Background(), "s1", nil)

	var partial *checkout.PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Empty(t, partial.Committed)

	// Nothing landed in the ledger, so the cached summary is still correct.
	assert.Equal(t, 0, f.cache.invalidations)
	assert.Equal(t, 10, f.stock.stock[1])
}

func TestCheckoutRendererFailureIsDegradedSuccess(t *testing.T) {
	f := newFixture()
	f.stock.stock[1] = 10
	f.renderer.fail = true
	f.seedCart(t, "s1", cart.Line{ProductID: 1, Name: "Charger", UnitPrice: 1500, Quantity: 1})

	result, err := f.service.Checkout(context.Background(), "s1", nil)
	require.NoError(t, err)

	assert.Nil(t, result.Receipt)
	assert.Error(t, result.ReceiptErr)
	assert.NotEmpty(t, result.SaleNumber)

	// The sale committed and the cart cleared despite the render failure.
	require.Len(t, f.ledger.commits, 1)
	assert.Equal(t, 9, f.stock.stock[1])
	assert.Equal(t, []string{"s1"}, f.carts.cleared)
}

func TestConcurrentCheckoutsNeverOversell(t *testing.T) {
	f := newFixture()
	f.stock.stock[1] = 5
	f.seedCart(t, "s1", cart.Line{ProductID: 1, Name: "Charger", UnitPrice: 1500, Quantity: 3})
	f.seedCart(t, "s2", cart.Line{ProductID: 1, Name: "Charger", UnitPrice: 1500, Quantity: 3})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, session := range []string{"s1", "s2"} {
		wg.Add(1)
		go func(i int, session string) {
			defer wg.Done()
			_, errs[i] = f.service.Checkout(context.Background(), session, nil)
		}(i, session)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			failures++
			// The loser may be caught by validation or by the guarded
			// decrement; both surface insufficient stock.
			var stockErr *checkout.InsufficientStockError
			var partial *checkout.PartialFailureError
			if !errors.As(err, &stockErr) && errors.As(err, &partial) {
				assert.ErrorIs(t, partial.Cause, product.ErrInsufficientStock)
			}
		}
	}

	assert.Equal(t, 1, failures, "exactly one checkout must lose the race")
	assert.Equal(t, 2, f.stock.stock[1], "stock never oversold")
	require.Len(t, f.ledger.commits, 1)
}

func TestRenderSaleRebuildsReceiptFromLedger(t *testing.T) {
	f := newFixture()
	f.reader.entries["POS-20260828-ABCD1234"] = []sales.HistoryEntry{
		{SaleNumber: "POS-20260828-ABCD1234", ProductID: 1, ProductName: "Charger", Quantity: 2, TotalPrice: 3000},
		{SaleNumber: "POS-20260828-ABCD1234", ProductID: 2, ProductName: "Battery", Quantity: 1, TotalPrice: 3000},
	}

	doc, err := f.service.RenderSale(context.Background(), "POS-20260828-ABCD1234")
	require.NoError(t, err)
	assert.NotNil(t, doc)

	require.Len(t, f.renderer.rendered, 1)
	receipt := f.renderer.rendered[0]
	assert.Equal(t, "POS-20260828-ABCD1234", receipt.SaleNumber)
	assert.Equal(t, int64(6000), receipt.Total)
	require.Len(t, receipt.Lines, 2)
	assert.Equal(t, int64(1500), receipt.Lines[0].UnitPrice)
	assert.Equal(t, "Walk-in Customer", receipt.Customer.Name)
}

func TestRenderSaleUnknownNumber(t *testing.T) {
	f := newFixture()

	_, err := f.service.RenderSale(context.Background(), "POS-20260828-MISSING1")
	assert.ErrorIs(t, err, sales.ErrSaleNotFound)
}
