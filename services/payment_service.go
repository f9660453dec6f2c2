package services

import (
	"context"
	"log"
	"tech-store/models"
)

type PaymentStore interface {
	GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Payment, models.OrderStatus, error)
	MarkCompleted(ctx context.Context, paymentID, orderID int, transactionNo, bankCode string) error
}

// PaymentService is the gateway-facing side of the payment bridge: it
// receives confirmed or failed payment results and applies the status
// transitions they imply.
type PaymentService struct {
	payments PaymentStore
}

func NewPaymentService(payments PaymentStore) *PaymentService {
	return &PaymentService{payments: payments}
}

// ApplyPaymentResult records a gateway result for an order. Success marks
// the payment completed and drives a pending order to processing. Failure
// leaves the payment pending (retryable) and the order untouched.
func (s *PaymentService) ApplyPaymentResult(ctx context.Context, orderNumber string, succeeded bool, transactionNo, bankCode string) error {
	payment, orderStatus, err := s.payments.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		return err
	}

	if !succeeded {
		log.Printf("Payment attempt failed for order %s (payment %d), left pending", orderNumber, payment.ID)
		return nil
	}

	if payment.Status == models.PaymentStatusCompleted {
		// Duplicate gateway confirmation.
		return nil
	}

	if err := s.payments.MarkCompleted(ctx, payment.ID, payment.OrderID, transactionNo, bankCode); err != nil {
		return err
	}

	log.Printf("Payment completed for order %s (was %s)", orderNumber, orderStatus)
	return nil
}
