package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swiftbus/service-ticketing/internal/domain"
	bookingDomain "github.com/swiftbus/service-ticketing/internal/domain/booking"
	paymentDomain "github.com/swiftbus/service-ticketing/internal/domain/payment"
	"github.com/swiftbus/service-ticketing/internal/events"
)

// InitiatePaymentRequest starts a payment for a booking.
type InitiatePaymentRequest struct {
	BookingID uuid.UUID `json:"booking_id" binding:"required"`
	Method    string    `json:"method" binding:"required"`
}

// ConfirmPaymentRequest completes a payment for a booking. Method is only
// used when no payment was initiated beforehand.
type ConfirmPaymentRequest struct {
	BookingID uuid.UUID `json:"booking_id" binding:"required"`
	Method    string    `json:"method"`
}

// PaymentDTO is the response representation of a payment.
type PaymentDTO struct {
	ID            uuid.UUID  `json:"id"`
	BookingID     uuid.UUID  `json:"booking_id"`
	TransactionID string     `json:"transaction_id"`
	Method        string     `json:"method"`
	Amount        int64      `json:"amount"`
	Status        string     `json:"status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// PaymentService is the application service for the payment lifecycle.
//
// Payments are tracked independently of booking status: confirming a payment
// does not touch the booking, which is already confirmed at creation. The
// only booking-side check is that cancelled bookings cannot take money.
type PaymentService struct {
	payments paymentDomain.PaymentRepository
	bookings bookingDomain.BookingRepository
	producer events.Publisher
	logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	payments paymentDomain.PaymentRepository,
	bookings bookingDomain.BookingRepository,
	producer events.Publisher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		bookings: bookings,
		producer: producer,
		logger:   logger,
	}
}

// InitiatePayment creates a pending payment for an owned, un-paid booking.
// The amount always comes from the booking's computed price, never the caller.
func (s *PaymentService) InitiatePayment(ctx context.Context, accountID uuid.UUID, req InitiatePaymentRequest) (*PaymentDTO, error) {
	bk, err := s.findOwnedBooking(ctx, accountID, req.BookingID)
	if err != nil {
		return nil, err
	}
	if bk.Status() == bookingDomain.StatusCancelled {
		return nil, domain.NewConflictError("booking_cancelled", "cannot pay for a cancelled booking")
	}

	if existing, err := s.payments.FindByBookingID(ctx, req.BookingID); err == nil {
		if existing.Status() == paymentDomain.StatusCompleted {
			return nil, domain.NewConflictError("already_paid", "booking is already paid")
		}
		return nil, domain.NewConflictError("payment_in_progress", "a payment is already pending for this booking")
	} else if _, ok := domain.AsAppError(err); !ok {
		return nil, err
	}

	p, err := paymentDomain.NewPayment(req.BookingID, req.Method, bk.TotalPrice())
	if err != nil {
		return nil, err
	}

	if err := s.payments.Save(ctx, p); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.PaymentInitiated, p.TransactionID(),
		events.PaymentInitiatedEvent{
			PaymentID:     p.ID(),
			BookingID:     p.BookingID(),
			TransactionID: p.TransactionID(),
			Method:        p.Method(),
			Amount:        p.Amount(),
			OccurredAt:    time.Now().UTC(),
		})

	s.logger.Info("payment initiated",
		zap.String("booking_id", p.BookingID().String()),
		zap.String("transaction_id", p.TransactionID()),
		zap.Int64("amount", p.Amount()),
	)

	result := toPaymentDTO(p)
	return &result, nil
}

// ConfirmPayment marks the booking's payment as completed, creating the
// payment record first if none was initiated.
func (s *PaymentService) ConfirmPayment(ctx context.Context, accountID uuid.UUID, req ConfirmPaymentRequest) (*PaymentDTO, error) {
	bk, err := s.findOwnedBooking(ctx, accountID, req.BookingID)
	if err != nil {
		return nil, err
	}
	if bk.Status() == bookingDomain.StatusCancelled {
		return nil, domain.NewConflictError("booking_cancelled", "cannot pay for a cancelled booking")
	}

	p, err := s.payments.FindByBookingID(ctx, req.BookingID)
	if err != nil {
		if _, ok := domain.AsAppError(err); !ok {
			return nil, err
		}
		method := req.Method
		if method == "" {
			method = "unspecified"
		}
		p, err = paymentDomain.NewPayment(req.BookingID, method, bk.TotalPrice())
		if err != nil {
			return nil, err
		}
		if err := p.Complete(); err != nil {
			return nil, err
		}
		if err := s.payments.Save(ctx, p); err != nil {
			return nil, err
		}
	} else {
		if err := p.Complete(); err != nil {
			return nil, err
		}
		if err := s.payments.Update(ctx, p); err != nil {
			return nil, err
		}
	}

	s.publishCompleted(ctx, p)

	result := toPaymentDTO(p)
	return &result, nil
}

// GetPayment retrieves the payment for an owned booking.
func (s *PaymentService) GetPayment(ctx context.Context, accountID, bookingID uuid.UUID) (*PaymentDTO, error) {
	if _, err := s.findOwnedBooking(ctx, accountID, bookingID); err != nil {
		return nil, err
	}
	p, err := s.payments.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toPaymentDTO(p)
	return &result, nil
}

// ConfirmPaymentByTransaction completes a payment identified by its
// transaction reference. Used by the gateway event consumer; no ownership
// check applies because the caller is the payment gateway, not a user.
func (s *PaymentService) ConfirmPaymentByTransaction(ctx context.Context, transactionID string) error {
	p, err := s.payments.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return err
	}

	if err := p.Complete(); err != nil {
		return err
	}
	if err := s.payments.Update(ctx, p); err != nil {
		return err
	}

	s.publishCompleted(ctx, p)
	return nil
}

// --- Helpers ---

func (s *PaymentService) findOwnedBooking(ctx context.Context, accountID, bookingID uuid.UUID) (*bookingDomain.Booking, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.AccountID() != accountID {
		return nil, domain.NewNotFoundError("booking", bookingID.String())
	}
	return bk, nil
}

func (s *PaymentService) publishCompleted(ctx context.Context, p *paymentDomain.Payment) {
	s.publishEvent(ctx, events.PaymentCompleted, p.TransactionID(),
		events.PaymentCompletedEvent{
			PaymentID:     p.ID(),
			BookingID:     p.BookingID(),
			TransactionID: p.TransactionID(),
			Amount:        p.Amount(),
			OccurredAt:    time.Now().UTC(),
		})

	s.logger.Info("payment completed",
		zap.String("booking_id", p.BookingID().String()),
		zap.String("transaction_id", p.TransactionID()),
	)
}

func (s *PaymentService) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	if err := s.producer.Publish(ctx, events.TopicPaymentEvents, eventType, key, data); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicPaymentEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toPaymentDTO(p *paymentDomain.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            p.ID(),
		BookingID:     p.BookingID(),
		TransactionID: p.TransactionID(),
		Method:        p.Method(),
		Amount:        p.Amount(),
		Status:        string(p.Status()),
		PaidAt:        p.PaidAt(),
		CreatedAt:     p.CreatedAt(),
	}
}
