package invoices

import (
	"html/template"
	"io"

	"github.com/hindustan-tiles/tiles-erp/internal/billing"
)

// RenderPrintDocument writes a self-contained printable invoice. The markup
// carries its own styles so the document survives being saved or emailed on
// its own.
func RenderPrintDocument(w io.Writer, inv *InvoiceWithState) error {
	rows := make([]printRow, 0, len(inv.Items))
	for i, it := range inv.Items {
		rows = append(rows, printRow{
			SNo:      i + 1,
			Name:     it.Name,
			HSNNo:    it.HSNNo,
			Quantity: it.Quantity.Format(),
			Rate:     billing.FormatCurrency(it.PricePerBox),
			Amount:   billing.FormatCurrency(it.ItemTotal + it.TaxAmount),
		})
	}
	data := printData{
		Invoice:   inv,
		Rows:      rows,
		IsGST:     inv.Type == billing.InvoiceTypeGST,
		Subtotal:  billing.FormatCurrency(inv.Subtotal),
		CGST:      billing.FormatCurrency(inv.CGST),
		SGST:      billing.FormatCurrency(inv.SGST),
		Discount:  billing.FormatCurrency(inv.Discount),
		RoundOff:  billing.FormatCurrency(inv.RoundOffAmount),
		Total:     billing.FormatCurrency(inv.FinalAmount),
		Paid:      billing.FormatCurrency(inv.Payment.TotalPaid),
		Pending:   billing.FormatCurrency(inv.Payment.PendingAmount),
		DateLabel: inv.Date.Format("02-01-2006"),
	}
	return printTemplate.Execute(w, data)
}

type printRow struct {
	SNo      int
	Name     string
	HSNNo    string
	Quantity string
	Rate     string
	Amount   string
}

type printData struct {
	Invoice   *InvoiceWithState
	Rows      []printRow
	IsGST     bool
	Subtotal  string
	CGST      string
	SGST      string
	Discount  string
	RoundOff  string
	Total     string
	Paid      string
	Pending   string
	DateLabel string
}

var printTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Invoice.Number}}</title>
<style>
  body { font-family: Arial, sans-serif; font-size: 13px; margin: 24px; color: #111; }
  h1 { font-size: 18px; margin: 0; }
  .meta { display: flex; justify-content: space-between; margin: 16px 0; }
  table { width: 100%; border-collapse: collapse; }
  th, td { border: 1px solid #444; padding: 6px 8px; text-align: left; }
  th { background: #eee; }
  td.num, th.num { text-align: right; }
  .totals { margin-top: 12px; margin-left: auto; width: 280px; }
  .totals td { border: none; padding: 3px 8px; }
  .totals tr.grand td { border-top: 1px solid #444; font-weight: bold; }
  @media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>Hindustan Tiles</h1>
<div class="meta">
  <div>
    <strong>{{.Invoice.Customer.Name}}</strong><br>
    {{with .Invoice.Customer.Phone}}{{.}}<br>{{end}}
    {{with .Invoice.Customer.Address}}{{.}}<br>{{end}}
    {{with .Invoice.Customer.GSTIN}}GSTIN: {{.}}{{end}}
  </div>
  <div>
    Invoice No: <strong>{{.Invoice.Number}}</strong><br>
    Date: {{.DateLabel}}<br>
    Type: {{.Invoice.Type}}
  </div>
</div>
<table>
  <thead>
    <tr>
      <th>#</th><th>Item</th>{{if .IsGST}}<th>HSN</th>{{end}}<th>Qty</th>
      <th class="num">Rate</th><th class="num">Amount</th>
    </tr>
  </thead>
  <tbody>
    {{range .Rows}}
    <tr>
      <td>{{.SNo}}</td><td>{{.Name}}</td>{{if $.IsGST}}<td>{{.HSNNo}}</td>{{end}}
      <td>{{.Quantity}}</td><td class="num">{{.Rate}}</td><td class="num">{{.Amount}}</td>
    </tr>
    {{end}}
  </tbody>
</table>
<table class="totals">
  <tr><td>Subtotal</td><td class="num">{{.Subtotal}}</td></tr>
  {{if .IsGST}}
  <tr><td>CGST</td><td class="num">{{.CGST}}</td></tr>
  <tr><td>SGST</td><td class="num">{{.SGST}}</td></tr>
  {{end}}
  <tr><td>Discount</td><td class="num">{{.Discount}}</td></tr>
  <tr><td>Round Off</td><td class="num">{{.RoundOff}}</td></tr>
  <tr class="grand"><td>Total</td><td class="num">{{.Total}}</td></tr>
  <tr><td>Paid</td><td class="num">{{.Paid}}</td></tr>
  <tr><td>Pending</td><td class="num">{{.Pending}}</td></tr>
</table>
</body>
</html>
`))
