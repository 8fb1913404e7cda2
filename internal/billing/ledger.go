package billing

import (
	"sort"
	"time"
)

// LedgerEntryType tags a statement row by the event that produced it.
type LedgerEntryType string

const (
	LedgerEntryInvoice LedgerEntryType = "INVOICE"
	LedgerEntryPayment LedgerEntryType = "PAYMENT"
	LedgerEntryReturn  LedgerEntryType = "RETURN"
)

// LedgerEntry is one row of a customer statement. Derived, never persisted.
type LedgerEntry struct {
	Date        time.Time       `json:"date"`
	Type        LedgerEntryType `json:"type"`
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
	Sales       float64         `json:"sales"`
	Discount    float64         `json:"discount"`
	Payment     float64         `json:"payment"`
	Returns     float64         `json:"returns"`
	Balance     float64         `json:"balance"`
}

// InvoiceEvent is the ledger-relevant slice of an invoice.
type InvoiceEvent struct {
	Date           time.Time
	Number         string
	FinalAmount    float64
	Discount       float64
	PaidAtCreation float64
}

// PaymentEvent is a post-creation collection against an invoice.
type PaymentEvent struct {
	Date          time.Time
	InvoiceNumber string
	Amount        float64
	Method        string
}

// ReturnEvent is a credited return against an invoice.
type ReturnEvent struct {
	Date          time.Time
	InvoiceNumber string
	Amount        float64
}

// DateRange optionally restricts a statement. Zero bounds are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// BuildLedger merges invoices, payments and returns into a chronological
// statement with a running balance.
//
// Each invoice contributes a sales row, plus a synthetic payment row when
// money was collected at creation time. Rows sort by date ascending with
// insertion order as the tie-break, so output is deterministic. The optional
// range filters after sorting and before the balance fold: a filtered window
// always starts from zero, it does not carry balance in from outside the
// window. That matches the statements the business has always printed.
func BuildLedger(invoices []InvoiceEvent, payments []PaymentEvent, returns []ReturnEvent, rng DateRange) []LedgerEntry {
	entries := make([]LedgerEntry, 0, len(invoices)*2+len(payments)+len(returns))

	for _, inv := range invoices {
		entries = append(entries, LedgerEntry{
			Date:        inv.Date,
			Type:        LedgerEntryInvoice,
			Reference:   inv.Number,
			Description: "Invoice " + inv.Number,
			Sales:       inv.FinalAmount,
			Discount:    inv.Discount,
		})
		if inv.PaidAtCreation > 0 {
			entries = append(entries, LedgerEntry{
				Date:        inv.Date,
				Type:        LedgerEntryPayment,
				Reference:   inv.Number,
				Description: "Payment collected at invoice creation",
				Payment:     inv.PaidAtCreation,
			})
		}
	}
	for _, p := range payments {
		desc := "Payment against " + p.InvoiceNumber
		if p.Method != "" {
			desc += " (" + p.Method + ")"
		}
		entries = append(entries, LedgerEntry{
			Date:        p.Date,
			Type:        LedgerEntryPayment,
			Reference:   p.InvoiceNumber,
			Description: desc,
			Payment:     p.Amount,
		})
	}
	for _, r := range returns {
		entries = append(entries, LedgerEntry{
			Date:        r.Date,
			Type:        LedgerEntryReturn,
			Reference:   r.InvoiceNumber,
			Description: "Return against " + r.InvoiceNumber,
			Returns:     r.Amount,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	filtered := entries[:0]
	for _, e := range entries {
		if rng.contains(e.Date) {
			filtered = append(filtered, e)
		}
	}
	entries = filtered

	var balance float64
	for i := range entries {
		balance += entries[i].Sales - entries[i].Discount - entries[i].Payment - entries[i].Returns
		entries[i].Balance = balance
	}
	return entries
}
