package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swiftbus/service-ticketing/internal/domain"
	bookingDomain "github.com/swiftbus/service-ticketing/internal/domain/booking"
	"github.com/swiftbus/service-ticketing/internal/events"
)

// CreateBookingRequest holds the data needed to create a booking. The field
// names match the original wire format of the booking form.
type CreateBookingRequest struct {
	StartsFrom  string         `json:"starts_from" binding:"required"`
	Destination string         `json:"destination" binding:"required"`
	TravelDate  string         `json:"travel_date" binding:"required"`
	Adults      int            `json:"adults"`
	Children    int            `json:"children"`
	Passengers  []PassengerDTO `json:"passengers"`
}

// PassengerDTO is the wire representation of a passenger.
type PassengerDTO struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	IsAdult  bool   `json:"is_adult"`
	IDType   string `json:"id_type,omitempty"`
	IDNumber string `json:"id_number,omitempty"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID           uuid.UUID      `json:"id"`
	TicketNumber string         `json:"ticket_number"`
	AccountID    uuid.UUID      `json:"account_id"`
	StartsFrom   string         `json:"starts_from"`
	Destination  string         `json:"destination"`
	TravelDate   string         `json:"travel_date"`
	Adults       int            `json:"adults"`
	Children     int            `json:"children"`
	TotalPrice   int64          `json:"total_price"`
	Currency     string         `json:"currency"`
	Status       string         `json:"status"`
	Passengers   []PassengerDTO `json:"passengers"`
	CancelledAt  *time.Time     `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo     bookingDomain.BookingRepository
	producer events.Publisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	producer events.Publisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// CreateBooking validates the request, computes the price and persists the
// booking together with its passengers. Validation runs entirely before the
// write, so a failed request leaves no rows behind.
func (s *BookingService) CreateBooking(ctx context.Context, accountID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	passengers := make([]bookingDomain.Passenger, len(req.Passengers))
	for i, p := range req.Passengers {
		passengers[i] = bookingDomain.Passenger{
			Name:     p.Name,
			Age:      p.Age,
			IsAdult:  p.IsAdult,
			IDType:   p.IDType,
			IDNumber: p.IDNumber,
		}
	}

	bk, err := bookingDomain.NewBooking(bookingDomain.NewBookingParams{
		AccountID:   accountID,
		Origin:      req.StartsFrom,
		Destination: req.Destination,
		TravelDate:  req.TravelDate,
		Adults:      req.Adults,
		Children:    req.Children,
		Passengers:  passengers,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCreated, bk.ID().String(),
		events.BookingCreatedEvent{
			BookingID:    bk.ID(),
			TicketNumber: bk.TicketNumber(),
			AccountID:    bk.AccountID(),
			Origin:       string(bk.Origin()),
			Destination:  string(bk.Destination()),
			TravelDate:   bk.TravelDate().Format(bookingDomain.TravelDateLayout),
			Passengers:   len(bk.Passengers()),
			TotalPrice:   bk.TotalPrice(),
			Currency:     bk.Currency(),
			OccurredAt:   time.Now().UTC(),
		})

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("ticket_number", bk.TicketNumber()),
		zap.Int64("total_price", bk.TotalPrice()),
	)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a booking owned by the given account. A booking that
// exists but belongs to someone else is reported as not found.
func (s *BookingService) GetBooking(ctx context.Context, accountID, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.findOwned(ctx, accountID, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetDomainBooking retrieves the full aggregate for an owned booking, for
// callers that need more than the DTO (ticket rendering).
func (s *BookingService) GetDomainBooking(ctx context.Context, accountID, bookingID uuid.UUID) (*bookingDomain.Booking, error) {
	return s.findOwned(ctx, accountID, bookingID)
}

// GetAccountBookings retrieves paginated bookings for an account.
func (s *BookingService) GetAccountBookings(ctx context.Context, accountID uuid.UUID, page, limit int) (*PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindByAccountID(ctx, accountID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// CancelBooking applies the cancel transition to an owned booking. A second
// cancellation is rejected and the stored status is left untouched.
func (s *BookingService) CancelBooking(ctx context.Context, accountID, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.findOwned(ctx, accountID, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Cancel(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCancelled, bk.ID().String(),
		events.BookingCancelledEvent{
			BookingID:    bk.ID(),
			TicketNumber: bk.TicketNumber(),
			AccountID:    bk.AccountID(),
			OccurredAt:   time.Now().UTC(),
		})

	s.logger.Info("booking cancelled",
		zap.String("booking_id", bk.ID().String()),
	)

	result := toBookingDTO(bk)
	return &result, nil
}

// --- Admin methods ---

// DashboardDTO is the admin landing summary.
type DashboardDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	TotalRevenue  int64            `json:"total_revenue"`
	Currency      string           `json:"currency"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
	ByRoute       map[string]int64 `json:"by_route"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// GetDashboard returns the admin landing summary.
func (s *BookingService) GetDashboard(ctx context.Context) (*DashboardDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking counts: %w", err)
	}

	revenue, err := s.repo.RevenueTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue total: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &DashboardDTO{
		TotalBookings: total,
		TotalRevenue:  revenue,
		Currency:      bookingDomain.CurrencyINR,
		ByStatus:      counts,
	}, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	routes, err := s.repo.CountByRoute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get route stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
		ByRoute:       routes,
	}, nil
}

// OverrideStatus writes an arbitrary status onto a booking with no
// transition check. This is the admin escape hatch: any non-empty string is
// accepted and stored verbatim.
func (s *BookingService) OverrideStatus(ctx context.Context, bookingID uuid.UUID, status string) error {
	if status == "" {
		return domain.NewValidationError("missing_status", "status is required")
	}

	if err := s.repo.OverrideStatus(ctx, bookingID, status); err != nil {
		return err
	}

	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingStatusOverridden, bookingID.String(),
		events.BookingStatusOverriddenEvent{
			BookingID:  bookingID,
			Status:     status,
			OccurredAt: time.Now().UTC(),
		})

	s.logger.Warn("booking status overridden",
		zap.String("booking_id", bookingID.String()),
		zap.String("status", status),
	)
	return nil
}

// --- Helpers ---

func (s *BookingService) findOwned(ctx context.Context, accountID, bookingID uuid.UUID) (*bookingDomain.Booking, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.AccountID() != accountID {
		return nil, domain.NewNotFoundError("booking", bookingID.String())
	}
	return bk, nil
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
	if err := s.producer.Publish(ctx, topic, eventType, key, data); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	passengers := make([]PassengerDTO, len(bk.Passengers()))
	for i, p := range bk.Passengers() {
		passengers[i] = PassengerDTO{
			Name:     p.Name,
			Age:      p.Age,
			IsAdult:  p.IsAdult,
			IDType:   p.IDType,
			IDNumber: p.IDNumber,
		}
	}

	return BookingDTO{
		ID:           bk.ID(),
		TicketNumber: bk.TicketNumber(),
		AccountID:    bk.AccountID(),
		StartsFrom:   string(bk.Origin()),
		Destination:  string(bk.Destination()),
		TravelDate:   bk.TravelDate().Format(bookingDomain.TravelDateLayout),
		Adults:       bk.Adults(),
		Children:     bk.Children(),
		TotalPrice:   bk.TotalPrice(),
		Currency:     bk.Currency(),
		Status:       string(bk.Status()),
		Passengers:   passengers,
		CancelledAt:  bk.CancelledAt(),
		CreatedAt:    bk.CreatedAt(),
	}
}
