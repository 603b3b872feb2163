package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/shop-backend/internal/config"
	"github.com/your-org/shop-backend/internal/domain/checkout"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Shop.Name = "Rama Shop"
	cfg.Shop.Address = "12 Main Street, Colombo"
	cfg.Shop.Phone = "0112345678"
	cfg.Shop.Currency = "Rs"
	return cfg
}

func testReceipt() *checkout.Receipt {
	return &checkout.Receipt{
		SaleNumber: "POS-20260828-ABCD1234",
		IssuedAt:   time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC),
		Customer:   checkout.CustomerInfo{Name: "Walk-in Customer"},
		Lines: []checkout.ReceiptLine{
			{Name: "Charger", Quantity: 2, UnitPrice: 1500, LineTotal: 3000},
			{Name: "Battery", Quantity: 1, UnitPrice: 3050, LineTotal: 3050},
		},
		Total: 6050,
	}
}

func TestGenerateHTML(t *testing.T) {
	s := NewService(testConfig())

	html, err := s.generateHTML(ReceiptData{
		Receipt:  testReceipt(),
		Shop:     ShopInfo{Name: "Rama Shop", Address: "12 Main Street, Colombo", Phone: "0112345678"},
		IssuedAt: "August 28, 2026 2:30 PM",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "SHOP RECEIPT")
	assert.Contains(t, html, "Rama Shop")
	assert.Contains(t, html, "POS-20260828-ABCD1234")
	assert.Contains(t, html, "Walk-in Customer")
	assert.Contains(t, html, "Charger")
	assert.Contains(t, html, "Rs 15.00")
	assert.Contains(t, html, "Rs 30.50")
	assert.Contains(t, html, "Rs 60.50")
}

func TestGenerateHTMLNamedCustomer(t *testing.T) {
	s := NewService(testConfig())

	receipt := testReceipt()
	receipt.Customer = checkout.CustomerInfo{
		Name:          "Asha Perera",
		ContactNumber: "0771234567",
		Address:       "12 Temple Road",
	}

	html, err := s.generateHTML(ReceiptData{Receipt: receipt, Shop: ShopInfo{Name: "Rama Shop"}, IssuedAt: "August 28, 2026"})
	require.NoError(t, err)

	assert.Contains(t, html, "Asha Perera")
	assert.Contains(t, html, "0771234567")
	assert.Contains(t, html, "12 Temple Road")
}
