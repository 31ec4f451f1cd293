package models

import (
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state shown on the dashboard
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// InvoiceStatuses lists every accepted status in display order
var InvoiceStatuses = []InvoiceStatus{InvoiceStatusPending, InvoiceStatusPaid}

// Invoice is the persisted invoice row. Amount is stored in cents.
type Invoice struct {
	ID         string        `json:"id" db:"id"`
	CustomerID string        `json:"customer_id" db:"customer_id"`
	Amount     int64         `json:"amount" db:"amount"`
	Status     InvoiceStatus `json:"status" db:"status"`
	Date       string        `json:"date" db:"date"`
}

// InvoiceInput is the validated, coerced form payload.
// Date is filled by the server on create and ignored on update.
type InvoiceInput struct {
	CustomerID string
	Amount     decimal.Decimal
	Status     InvoiceStatus
	Date       string
}

// AmountInCents converts the decimal amount to whole cents, rounding to the nearest cent.
// The amount must already have passed CentsOf; an amount too large for int64 yields 0.
func (in InvoiceInput) AmountInCents() int64 {
	cents, ok := CentsOf(in.Amount)
	if !ok {
		return 0
	}
	return cents
}

// CentsOf rounds d to the nearest cent and reports whether the result fits in int64
func CentsOf(d decimal.Decimal) (int64, bool) {
	cents := d.Shift(2).Round(0).BigInt()
	if !cents.IsInt64() {
		return 0, false
	}
	return cents.Int64(), true
}

// InvoiceFilter narrows the invoice list page
type InvoiceFilter struct {
	Query  string
	Limit  int
	Offset int
}
