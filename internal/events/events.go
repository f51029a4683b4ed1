package events

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics.
const (
	TopicBookingEvents = "ticketing.booking.events"
	TopicPaymentEvents = "ticketing.payment.events"
	TopicGatewayEvents = "ticketing.gateway.events"
)

// Event types.
const (
	BookingCreated          = "booking.created"
	BookingCancelled        = "booking.cancelled"
	BookingStatusOverridden = "booking.status_overridden"
	PaymentInitiated        = "payment.initiated"
	PaymentCompleted        = "payment.completed"
	GatewayPaymentCompleted = "gateway.payment.completed"
)

// BookingCreatedEvent is published after a booking and its passengers are persisted.
type BookingCreatedEvent struct {
	BookingID    uuid.UUID `json:"booking_id"`
	TicketNumber string    `json:"ticket_number"`
	AccountID    uuid.UUID `json:"account_id"`
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	TravelDate   string    `json:"travel_date"`
	Passengers   int       `json:"passengers"`
	TotalPrice   int64     `json:"total_price"`
	Currency     string    `json:"currency"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published after a successful cancellation.
type BookingCancelledEvent struct {
	BookingID    uuid.UUID `json:"booking_id"`
	TicketNumber string    `json:"ticket_number"`
	AccountID    uuid.UUID `json:"account_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// BookingStatusOverriddenEvent is published when an admin writes a status directly.
type BookingStatusOverriddenEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentInitiatedEvent is published when a pending payment is created.
type PaymentInitiatedEvent struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	BookingID     uuid.UUID `json:"booking_id"`
	TransactionID string    `json:"transaction_id"`
	Method        string    `json:"method"`
	Amount        int64     `json:"amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentCompletedEvent is published when a payment reaches completed.
type PaymentCompletedEvent struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	BookingID     uuid.UUID `json:"booking_id"`
	TransactionID string    `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// GatewayPaymentCompletedEvent is consumed from the payment gateway topic
// when an externally processed payment settles.
type GatewayPaymentCompletedEvent struct {
	TransactionID string    `json:"transaction_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}
