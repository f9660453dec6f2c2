package models

import "time"

const (
	PaymentMethodCOD   = "cod"
	PaymentMethodVNPay = "vnpay"

	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

// Payment is at most one per order. A failed gateway attempt leaves the
// payment pending so it can be retried.
type Payment struct {
	ID            int       `json:"id"`
	OrderID       int       `json:"order_id"`
	Amount        int       `json:"amount"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	TransactionNo *string   `json:"transaction_no,omitempty"`
	BankCode      *string   `json:"bank_code,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
