package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/haritfarms/storefront-backend/internal/config"
	"github.com/haritfarms/storefront-backend/internal/domain/order"
	"github.com/haritfarms/storefront-backend/internal/pkg/email"
)

// Service renders order invoices as PDF
type Service struct {
	config *config.Config
	tmpl   *template.Template
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		tmpl:   template.Must(template.New("invoice").Parse(invoiceTemplate)),
	}
}

// InvoiceData is the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	OrderNumber   string
	OrderDate     string
	PaymentMethod string
	PaymentStatus string
	FarmName      string
	FarmEmail     string
	FarmURL       string
	CustomerName  string
	Address       order.ShippingAddress
	Items         []InvoiceLine
	Subtotal      string
	Discount      string
	Shipping      string
	Tax           string
	Total         string
}

// InvoiceLine is a rendered invoice line item
type InvoiceLine struct {
	Name      string
	Unit      string
	Quantity  int
	UnitPrice string
	Total     string
}

// GenerateInvoice renders a PDF invoice for an order
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", o.OrderNumber),
		InvoiceDate:   time.Now().Format("02 Jan 2006"),
		OrderNumber:   o.OrderNumber,
		OrderDate:     o.CreatedAt.Format("02 Jan 2006"),
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: string(o.PaymentStatus),
		FarmName:      s.config.App.Name,
		FarmEmail:     s.config.Email.SupportEmail,
		FarmURL:       s.config.App.BaseURL,
		CustomerName:  o.ShippingAddress.FullName,
		Address:       o.ShippingAddress,
		Subtotal:      email.FormatAmount(o.SubtotalAmount),
		Discount:      email.FormatAmount(o.DiscountAmount),
		Shipping:      email.FormatAmount(o.ShippingAmount),
		Tax:           email.FormatAmount(o.TaxAmount),
		Total:         email.FormatAmount(o.TotalAmount),
	}
	for _, item := range o.Items {
		data.Items = append(data.Items, InvoiceLine{
			Name:      item.Name,
			Unit:      item.Unit,
			Quantity:  item.Quantity,
			UnitPrice: email.FormatAmount(item.Price),
			Total:     email.FormatAmount(item.TotalPrice),
		})
	}

	var html bytes.Buffer
	if err := s.tmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render invoice template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html.Bytes()))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 24px; color: #2d2d2d; }
        .header { display: flex; justify-content: space-between; border-bottom: 2px solid #3a7d44; padding-bottom: 12px; }
        .farm-name { font-size: 22px; font-weight: bold; color: #3a7d44; }
        .meta { text-align: right; font-size: 12px; }
        h2 { font-size: 16px; margin: 24px 0 8px; }
        .address { font-size: 12px; line-height: 1.5; }
        table { width: 100%; border-collapse: collapse; margin-top: 16px; font-size: 12px; }
        th { background: #3a7d44; color: #fff; text-align: left; padding: 8px; }
        td { padding: 8px; border-bottom: 1px solid #e0e0e0; }
        .num { text-align: right; }
        .totals { margin-top: 16px; width: 260px; margin-left: auto; font-size: 12px; }
        .totals td { border: none; padding: 4px 8px; }
        .grand td { font-weight: bold; border-top: 2px solid #3a7d44; }
        .footer { margin-top: 32px; font-size: 11px; color: #888; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <div class="farm-name">{{.FarmName}}</div>
            <div class="address">{{.FarmURL}}<br>{{.FarmEmail}}</div>
        </div>
        <div class="meta">
            <strong>Invoice {{.InvoiceNumber}}</strong><br>
            Invoice date: {{.InvoiceDate}}<br>
            Order {{.OrderNumber}}<br>
            Order date: {{.OrderDate}}<br>
            Payment: {{.PaymentMethod}} ({{.PaymentStatus}})
        </div>
    </div>

    <h2>Deliver to</h2>
    <div class="address">
        {{.CustomerName}}<br>
        {{.Address.AddressLine1}}<br>
        {{if .Address.AddressLine2}}{{.Address.AddressLine2}}<br>{{end}}
        {{.Address.City}}, {{.Address.State}} {{.Address.PostalCode}}<br>
        Phone: {{.Address.Phone}}
    </div>

    <table>
        <tr>
            <th>Item</th>
            <th>Unit</th>
            <th class="num">Qty</th>
            <th class="num">Unit price</th>
            <th class="num">Total</th>
        </tr>
        {{range .Items}}
        <tr>
            <td>{{.Name}}</td>
            <td>{{.Unit}}</td>
            <td class="num">{{.Quantity}}</td>
            <td class="num">{{.UnitPrice}}</td>
            <td class="num">{{.Total}}</td>
        </tr>
        {{end}}
    </table>

    <table class="totals">
        <tr><td>Subtotal</td><td class="num">{{.Subtotal}}</td></tr>
        <tr><td>Discount</td><td class="num">-{{.Discount}}</td></tr>
        <tr><td>Shipping</td><td class="num">{{.Shipping}}</td></tr>
        <tr><td>Tax</td><td class="num">{{.Tax}}</td></tr>
        <tr class="grand"><td>Total</td><td class="num">{{.Total}}</td></tr>
    </table>

    <div class="footer">Thank you for supporting organic farming.</div>
</body>
</html>
`
