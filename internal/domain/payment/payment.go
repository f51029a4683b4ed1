package payment

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swiftbus/service-ticketing/internal/domain"
)

const transactionChars = "0123456789ABCDEF"

// PaymentStatus is the state of a payment, tracked independently of the
// owning booking's status. A confirmed booking may legitimately carry a
// pending payment or none at all; nothing reconciles the two machines.
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusCompleted PaymentStatus = "completed"
)

// IsValid returns true if the status is a recognized payment status.
func (s PaymentStatus) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

// String returns the string representation of the status.
func (s PaymentStatus) String() string {
	return string(s)
}

// Payment records money against a booking. At most one exists per booking
// and it is never deleted.
type Payment struct {
	id            uuid.UUID
	bookingID     uuid.UUID
	transactionID string
	method        string
	amount        int64
	status        PaymentStatus
	paidAt        *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

// generateTransactionID creates a transaction id in the format "TXN-XXXXXXXXXX".
func generateTransactionID() (string, error) {
	result := make([]byte, 10)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(transactionChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate transaction ID: %w", err)
		}
		result[i] = transactionChars[n.Int64()]
	}
	return "TXN-" + string(result), nil
}

// NewPayment creates a pending Payment for the given booking and amount.
func NewPayment(bookingID uuid.UUID, method string, amount int64) (*Payment, error) {
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("missing_booking", "booking ID is required")
	}
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, domain.NewValidationError("missing_payment_method", "payment method is required")
	}
	if amount <= 0 {
		return nil, domain.NewValidationError("invalid_amount", "payment amount must be positive")
	}

	transactionID, err := generateTransactionID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Payment{
		id:            uuid.New(),
		bookingID:     bookingID,
		transactionID: transactionID,
		method:        method,
		amount:        amount,
		status:        StatusPending,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructPayment rebuilds a Payment from persistence data (no validation).
func ReconstructPayment(
	id uuid.UUID,
	bookingID uuid.UUID,
	transactionID string,
	method string,
	amount int64,
	status PaymentStatus,
	paidAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *Payment {
	return &Payment{
		id:            id,
		bookingID:     bookingID,
		transactionID: transactionID,
		method:        method,
		amount:        amount,
		status:        status,
		paidAt:        paidAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ID returns the payment's unique identifier.
func (p *Payment) ID() uuid.UUID { return p.id }

// BookingID returns the owning booking's identifier.
func (p *Payment) BookingID() uuid.UUID { return p.bookingID }

// TransactionID returns the unique transaction reference.
func (p *Payment) TransactionID() string { return p.transactionID }

// Method returns the payment method.
func (p *Payment) Method() string { return p.method }

// Amount returns the paid amount in whole currency units.
func (p *Payment) Amount() int64 { return p.amount }

// Status returns the current payment status.
func (p *Payment) Status() PaymentStatus { return p.status }

// PaidAt returns the completion time, or nil while pending.
func (p *Payment) PaidAt() *time.Time { return p.paidAt }

// CreatedAt returns the creation timestamp.
func (p *Payment) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (p *Payment) UpdatedAt() time.Time { return p.updatedAt }

// Complete marks the payment as completed. Completing an already completed
// payment is a conflict.
func (p *Payment) Complete() error {
	if p.status == StatusCompleted {
		return domain.NewConflictError("payment_already_completed", "payment is already completed")
	}
	now := time.Now().UTC()
	p.status = StatusCompleted
	p.paidAt = &now
	p.updatedAt = now
	return nil
}
