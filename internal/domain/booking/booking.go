package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swiftbus/service-ticketing/internal/domain"
)

const ticketNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// TravelDateLayout is the wire format for travel dates.
const TravelDateLayout = "2006-01-02"

// CurrencyINR is the only currency the fare table quotes in.
const CurrencyINR = "INR"

// Validation failure reasons surfaced to callers.
const (
	ReasonInvalidCity            = "invalid_city"
	ReasonSameOriginDestination  = "same_origin_destination"
	ReasonInvalidPassengerCount  = "invalid_passenger_count"
	ReasonNoFareForRoute         = "no_fare_for_route"
	ReasonInvalidTravelDate      = "invalid_travel_date"
	ReasonPastTravelDate         = "past_travel_date"
	ReasonPassengerCountMismatch = "passenger_count_mismatch"
	ReasonMissingPassengerName   = "missing_passenger_name"
	ReasonInvalidPassengerAge    = "invalid_passenger_age"
	ReasonAlreadyCancelled       = "already_cancelled"
)

// Booking is the aggregate root for a single trip reservation. It owns its
// Passenger records; the count of those records always equals adults+children.
type Booking struct {
	id           uuid.UUID
	ticketNumber string
	accountID    uuid.UUID
	origin       City
	destination  City
	travelDate   time.Time
	adults       int
	children     int
	totalPrice   int64
	currency     string
	status       BookingStatus
	passengers   []Passenger
	cancelledAt  *time.Time
	version      int64
	createdAt    time.Time
	updatedAt    time.Time
}

// NewBookingParams holds the raw inputs for creating a booking.
type NewBookingParams struct {
	AccountID   uuid.UUID
	Origin      string
	Destination string
	TravelDate  string
	Adults      int
	Children    int
	Passengers  []Passenger
}

// generateTicketNumber creates a ticket number in the format "TKT-XXXXXX".
func generateTicketNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(ticketNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate ticket number: %w", err)
		}
		result[i] = ticketNumberChars[n.Int64()]
	}
	return "TKT-" + string(result), nil
}

// NewBooking validates the request and creates a Booking aggregate with
// status=confirmed. The checks run in a fixed order and each failure carries
// its own reason, so callers can rely on the first violated rule being the
// one reported. No storage is touched here; a Booking that comes back
// non-nil is safe to persist as-is.
func NewBooking(params NewBookingParams) (*Booking, error) {
	if params.AccountID == uuid.Nil {
		return nil, domain.NewValidationError("missing_account", "account ID is required")
	}

	origin, ok := ParseCity(params.Origin)
	if !ok {
		return nil, domain.NewValidationError(ReasonInvalidCity, fmt.Sprintf("unknown city: %s", params.Origin))
	}
	destination, ok := ParseCity(params.Destination)
	if !ok {
		return nil, domain.NewValidationError(ReasonInvalidCity, fmt.Sprintf("unknown city: %s", params.Destination))
	}
	if origin == destination {
		return nil, domain.NewValidationError(ReasonSameOriginDestination, "origin and destination must be different")
	}

	if params.Adults < 0 || params.Children < 0 {
		return nil, domain.NewValidationError(ReasonInvalidPassengerCount, "adult and child counts must be non-negative")
	}
	travellers := params.Adults + params.Children
	if travellers == 0 {
		return nil, domain.NewValidationError(ReasonInvalidPassengerCount, "at least one traveller is required")
	}

	fare, ok := BaseFare(origin, destination)
	if !ok {
		return nil, domain.NewValidationError(ReasonNoFareForRoute,
			fmt.Sprintf("no fare available from %s to %s", origin, destination))
	}

	travelDate, err := time.ParseInLocation(TravelDateLayout, params.TravelDate, time.UTC)
	if err != nil {
		return nil, domain.NewValidationError(ReasonInvalidTravelDate,
			fmt.Sprintf("travel date must be in %s format", TravelDateLayout))
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if travelDate.Before(today) {
		return nil, domain.NewValidationError(ReasonPastTravelDate, "travel date cannot be in the past")
	}

	if len(params.Passengers) != travellers {
		return nil, domain.NewValidationError(ReasonPassengerCountMismatch,
			fmt.Sprintf("expected %d passengers, got %d", travellers, len(params.Passengers)))
	}
	passengers := make([]Passenger, len(params.Passengers))
	for i, p := range params.Passengers {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, domain.NewValidationError(ReasonMissingPassengerName,
				fmt.Sprintf("passenger %d name is required", i+1))
		}
		if p.Age < 0 || p.Age > 120 {
			return nil, domain.NewValidationError(ReasonInvalidPassengerAge,
				fmt.Sprintf("passenger %d age must be between 0 and 120", i+1))
		}
		passengers[i] = Passenger{
			Name:     name,
			Age:      p.Age,
			IsAdult:  p.IsAdult,
			IDType:   strings.TrimSpace(p.IDType),
			IDNumber: strings.TrimSpace(p.IDNumber),
		}
	}

	ticketNumber, err := generateTicketNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:           uuid.New(),
		ticketNumber: ticketNumber,
		accountID:    params.AccountID,
		origin:       origin,
		destination:  destination,
		travelDate:   travelDate,
		adults:       params.Adults,
		children:     params.Children,
		totalPrice:   fare * int64(travellers),
		currency:     CurrencyINR,
		status:       StatusConfirmed,
		passengers:   passengers,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	ticketNumber string,
	accountID uuid.UUID,
	origin City,
	destination City,
	travelDate time.Time,
	adults int,
	children int,
	totalPrice int64,
	currency string,
	status BookingStatus,
	passengers []Passenger,
	cancelledAt *time.Time,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:           id,
		ticketNumber: ticketNumber,
		accountID:    accountID,
		origin:       origin,
		destination:  destination,
		travelDate:   travelDate,
		adults:       adults,
		children:     children,
		totalPrice:   totalPrice,
		currency:     currency,
		status:       status,
		passengers:   passengers,
		cancelledAt:  cancelledAt,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// TicketNumber returns the human-readable ticket number.
func (b *Booking) TicketNumber() string { return b.ticketNumber }

// AccountID returns the owning account's ID.
func (b *Booking) AccountID() uuid.UUID { return b.accountID }

// Origin returns the departure city.
func (b *Booking) Origin() City { return b.origin }

// Destination returns the arrival city.
func (b *Booking) Destination() City { return b.destination }

// TravelDate returns the date of travel.
func (b *Booking) TravelDate() time.Time { return b.travelDate }

// Adults returns the adult traveller count.
func (b *Booking) Adults() int { return b.adults }

// Children returns the child traveller count.
func (b *Booking) Children() int { return b.children }

// TotalPrice returns the total price in whole currency units.
func (b *Booking) TotalPrice() int64 { return b.totalPrice }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Passengers returns the passenger records.
func (b *Booking) Passengers() []Passenger { return b.passengers }

// CancelledAt returns the cancellation time, or nil.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// Cancel transitions the booking to cancelled. Cancelling an already
// cancelled booking is a conflict, not a no-op.
func (b *Booking) Cancel() error {
	if b.status == StatusCancelled {
		return domain.NewConflictError(ReasonAlreadyCancelled, "booking is already cancelled")
	}
	if !b.status.CanTransitionTo(StatusCancelled) {
		return domain.NewConflictError("invalid_transition",
			fmt.Sprintf("cannot cancel a booking in status %s", b.status))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
