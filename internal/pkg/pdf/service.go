// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/shop-backend/internal/config"
	"github.com/your-org/shop-backend/internal/domain/checkout"
)

// Service renders checkout receipts to PDF
type Service struct {
	config *config.Config
	tmpl   *template.Template
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	currency := cfg.Shop.Currency
	tmpl := template.Must(template.New("receipt").Funcs(template.FuncMap{
		"money": func(cents int64) string {
			return fmt.Sprintf("%s %.2f", currency, float64(cents)/100)
		},
	}).Parse(receiptTemplate))

	return &Service{
		config: cfg,
		tmpl:   tmpl,
	}
}

// Render generates a PDF receipt for a completed sale
func (s *Service) Render(receipt *checkout.Receipt) (*bytes.Buffer, error) {
	data := ReceiptData{
		Receipt: receipt,
		Shop: ShopInfo{
			Name:    s.config.Shop.Name,
			Address: s.config.Shop.Address,
			Phone:   s.config.Shop.Phone,
			Email:   s.config.Shop.Email,
		},
		IssuedAt: receipt.IssuedAt.Format("January 2, 2006 3:04 PM"),
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.Zoom.Set(0.95)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data ReceiptData) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	Receipt  *checkout.Receipt
	Shop     ShopInfo
	IssuedAt string
}

// ShopInfo represents the shop letterhead on the receipt
type ShopInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Receipt HTML template
const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.Receipt.SaleNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            text-align: center;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .shop-name {
            font-size: 24px;
            font-weight: bold;
            margin-bottom: 5px;
        }
        .shop-contact {
            color: #666;
            font-size: 12px;
        }
        .receipt-title {
            font-size: 20px;
            font-weight: bold;
            letter-spacing: 2px;
            margin: 15px 0 5px;
        }
        .sale-meta {
            margin-bottom: 20px;
        }
        .sale-meta table {
            width: 100%;
        }
        .sale-meta td {
            padding: 3px 0;
            vertical-align: top;
        }
        .sale-meta .label {
            font-weight: bold;
            width: 120px;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 20px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 10px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .items-table .qty-col,
        .items-table .price-col,
        .items-table .total-col {
            text-align: right;
            width: 90px;
        }
        .grand-total {
            float: right;
            width: 260px;
        }
        .grand-total table {
            width: 100%;
            border-collapse: collapse;
        }
        .grand-total td {
            padding: 8px;
        }
        .grand-total .label {
            text-align: right;
            font-weight: bold;
        }
        .grand-total .amount {
            text-align: right;
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="shop-name">{{.Shop.Name}}</div>
        {{if .Shop.Address}}<div class="shop-contact">{{.Shop.Address}}</div>{{end}}
        <div class="shop-contact">
            {{if .Shop.Phone}}Phone: {{.Shop.Phone}}{{end}}
            {{if .Shop.Email}} | {{.Shop.Email}}{{end}}
        </div>
        <div class="receipt-title">SHOP RECEIPT</div>
    </div>

    <div class="sale-meta">
        <table>
            <tr>
                <td class="label">Receipt #:</td>
                <td>{{.Receipt.SaleNumber}}</td>
                <td class="label" style="text-align: right;">Date:</td>
                <td style="text-align: right;">{{.IssuedAt}}</td>
            </tr>
            <tr>
                <td class="label">Customer:</td>
                <td>{{.Receipt.Customer.Name}}</td>
                {{if .Receipt.Customer.ContactNumber}}
                <td class="label" style="text-align: right;">Contact:</td>
                <td style="text-align: right;">{{.Receipt.Customer.ContactNumber}}</td>
                {{end}}
            </tr>
            {{if .Receipt.Customer.Address}}
            <tr>
                <td class="label">Address:</td>
                <td colspan="3">{{.Receipt.Customer.Address}}</td>
            </tr>
            {{end}}
        </table>
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th class="qty-col">Qty</th>
                <th class="price-col">Unit Price</th>
                <th class="total-col">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Receipt.Lines}}
            <tr>
                <td>{{.Name}}</td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">{{money .UnitPrice}}</td>
                <td class="total-col">{{money .LineTotal}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="grand-total">
        <table>
            <tr>
                <td class="label">Grand Total:</td>
                <td class="amount">{{money .Receipt.Total}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Thank you for shopping with us!</p>
        <p>Goods once sold can be exchanged within 7 days with this receipt.</p>
    </div>
</body>
</html>
`
