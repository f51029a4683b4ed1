package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking with its passengers by unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByTicketNumber retrieves a booking by its human-readable ticket number.
	FindByTicketNumber(ctx context.Context, number string) (*Booking, error)

	// FindByAccountID retrieves bookings belonging to an account with pagination.
	FindByAccountID(ctx context.Context, accountID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// CountByRoute returns booking counts grouped by "origin-destination" (admin).
	CountByRoute(ctx context.Context) (map[string]int64, error)

	// RevenueTotal returns the summed price of all non-cancelled bookings (admin).
	RevenueTotal(ctx context.Context) (int64, error)

	// Save persists a new booking and all of its passengers as one atomic
	// unit. Implementations must guarantee that either every row is written
	// or none are.
	Save(ctx context.Context, booking *Booking) error

	// Update persists status changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error

	// OverrideStatus writes an arbitrary caller-supplied status string with
	// no transition check. Admin escape hatch: the value is intentionally
	// unconstrained.
	OverrideStatus(ctx context.Context, id uuid.UUID, status string) error
}
