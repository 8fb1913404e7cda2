package billing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, time.April, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildLedgerRunningBalance(t *testing.T) {
	entries := BuildLedger(
		[]InvoiceEvent{
			{Date: day(1), Number: "INV-2025-0001", FinalAmount: 1000, Discount: 50},
			{Date: day(5), Number: "INV-2025-0002", FinalAmount: 500, PaidAtCreation: 200},
		},
		[]PaymentEvent{
			{Date: day(3), InvoiceNumber: "INV-2025-0001", Amount: 400, Method: "UPI"},
		},
		[]ReturnEvent{
			{Date: day(7), InvoiceNumber: "INV-2025-0002", Amount: 100},
		},
		DateRange{},
	)
	require.Len(t, entries, 5)

	// Chronological: invoice 1, payment, invoice 2, its creation payment, return.
	require.Equal(t, LedgerEntryInvoice, entries[0].Type)
	require.Equal(t, 950.0, entries[0].Balance)
	require.Equal(t, LedgerEntryPayment, entries[1].Type)
	require.Equal(t, 550.0, entries[1].Balance)
	require.Equal(t, LedgerEntryInvoice, entries[2].Type)
	require.Equal(t, 1050.0, entries[2].Balance)
	require.Equal(t, "Payment collected at invoice creation", entries[3].Description)
	require.Equal(t, 850.0, entries[3].Balance)
	require.Equal(t, LedgerEntryReturn, entries[4].Type)
	require.Equal(t, 750.0, entries[4].Balance)
}

func TestBuildLedgerTieBreakIsInsertionOrder(t *testing.T) {
	entries := BuildLedger(
		[]InvoiceEvent{
			{Date: day(1), Number: "A", FinalAmount: 10},
			{Date: day(1), Number: "B", FinalAmount: 20},
		},
		nil, nil, DateRange{},
	)
	require.Equal(t, "A", entries[0].Reference)
	require.Equal(t, "B", entries[1].Reference)
}

func TestBuildLedgerDateFilterResetsBalance(t *testing.T) {
	// Filtering happens before the fold: the window starts from zero, balance
	// from outside the window is not carried forward.
	entries := BuildLedger(
		[]InvoiceEvent{
			{Date: day(1), Number: "A", FinalAmount: 1000},
			{Date: day(10), Number: "B", FinalAmount: 300},
		},
		nil, nil,
		DateRange{From: day(9)},
	)
	require.Len(t, entries, 1)
	require.Equal(t, "B", entries[0].Reference)
	require.Equal(t, 300.0, entries[0].Balance)
}

func TestBuildLedgerSkipsZeroCreationPayment(t *testing.T) {
	entries := BuildLedger(
		[]InvoiceEvent{{Date: day(1), Number: "A", FinalAmount: 100}},
		nil, nil, DateRange{},
	)
	require.Len(t, entries, 1)
}

// Conservation: the closing balance equals the column sums over the filtered set.
func TestBuildLedgerBalanceConservation(t *testing.T) {
	invoices := []InvoiceEvent{
		{Date: day(1), Number: "A", FinalAmount: 1234.5, Discount: 34.5, PaidAtCreation: 200},
		{Date: day(2), Number: "B", FinalAmount: 999, Discount: 0},
		{Date: day(20), Number: "C", FinalAmount: 50},
	}
	payments := []PaymentEvent{
		{Date: day(4), InvoiceNumber: "A", Amount: 500},
		{Date: day(6), InvoiceNumber: "B", Amount: 250.25},
	}
	returns := []ReturnEvent{{Date: day(8), InvoiceNumber: "B", Amount: 120}}

	entries := BuildLedger(invoices, payments, returns, DateRange{From: day(1), To: day(10)})
	var sales, discount, payment, rets float64
	for _, e := range entries {
		sales += e.Sales
		discount += e.Discount
		payment += e.Payment
		rets += e.Returns
	}
	closing := entries[len(entries)-1].Balance
	if math.Abs(closing-(sales-discount-payment-rets)) > 1e-9 {
		t.Fatalf("conservation broken: closing=%v sums=%v", closing, sales-discount-payment-rets)
	}
	// Day 20 invoice falls outside the window.
	require.InDelta(t, 1234.5-34.5+999-200-500-250.25-120, closing, 1e-9)
}
