package models

import (
	"time"
)

// InvoiceStatus enum
type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "pending"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
	InvoiceOverdue   InvoiceStatus = "overdue"
)

// Valid reports whether s is one of the four known status literals.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceCancelled, InvoiceOverdue:
		return true
	}
	return false
}

// allowedTransitions is the status machine consulted before every update.
// paid and cancelled are terminal. overdue is assigned explicitly from
// pending; there is no automatic due-date transition.
var allowedTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoicePending:   {InvoicePaid, InvoiceCancelled, InvoiceOverdue},
	InvoiceOverdue:   {InvoicePaid, InvoiceCancelled},
	InvoicePaid:      {},
	InvoiceCancelled: {},
}

// CanTransitionTo reports whether the status may move from s to next.
// Re-setting the current status is always allowed (no-op update).
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	if s == next {
		return true
	}
	for _, t := range allowedTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Invoice model. Client fields are a denormalized copy typed in by the
// owner, not a reference to another user row.
type Invoice struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint          `gorm:"column:user_id;index;not null" json:"userId"`
	User          User          `gorm:"foreignKey:UserID" json:"-"`
	InvoiceNumber string        `gorm:"column:invoice_number" json:"invoiceNumber"`
	ClientName    string        `gorm:"column:client_name" json:"clientName"`
	ClientEmail   string        `gorm:"column:client_email" json:"clientEmail"`
	ClientAddress string        `gorm:"column:client_address" json:"clientAddress"`
	Date          string        `gorm:"column:date" json:"date"`
	DueDate       string        `gorm:"column:due_date" json:"dueDate"`
	Notes         string        `gorm:"column:notes" json:"notes"`
	Total         float64       `gorm:"column:total" json:"total"`
	Status        InvoiceStatus `gorm:"column:status;default:pending;index" json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem model - one line of an invoice, created atomically with it
type InvoiceItem struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceID   int64   `gorm:"column:invoice_id;index;not null" json:"invoiceId"`
	Description string  `gorm:"column:description" json:"description"`
	Quantity    float64 `gorm:"column:quantity" json:"quantity"`
	Rate        float64 `gorm:"column:rate" json:"rate"`
	Amount      float64 `gorm:"column:amount" json:"amount"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// ComputeTotals recomputes every line amount as quantity * rate and
// returns their sum. Client-sent amounts are overwritten, never trusted.
func ComputeTotals(items []InvoiceItem) float64 {
	var total float64
	for i := range items {
		items[i].Amount = items[i].Quantity * items[i].Rate
		total += items[i].Amount
	}
	return total
}
