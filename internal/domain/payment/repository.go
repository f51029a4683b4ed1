package payment

import (
	"context"

	"github.com/google/uuid"
)

// PaymentRepository defines the persistence contract for payments.
type PaymentRepository interface {
	// FindByBookingID retrieves the payment for a booking, if any.
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error)

	// FindByTransactionID retrieves a payment by its transaction reference.
	FindByTransactionID(ctx context.Context, transactionID string) (*Payment, error)

	// Save persists a new payment.
	Save(ctx context.Context, payment *Payment) error

	// Update persists changes to an existing payment.
	Update(ctx context.Context, payment *Payment) error
}
