package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftbus/service-ticketing/internal/domain"
	bookingDomain "github.com/swiftbus/service-ticketing/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TicketNumber string     `gorm:"uniqueIndex;not null;size:20"`
	AccountID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	Origin       string     `gorm:"not null;size:50"`
	Destination  string     `gorm:"not null;size:50"`
	TravelDate   time.Time  `gorm:"not null"`
	Adults       int        `gorm:"not null"`
	Children     int        `gorm:"not null"`
	TotalPrice   int64      `gorm:"not null"`
	Currency     string     `gorm:"not null;size:3;default:'INR'"`
	Status       string     `gorm:"not null;size:30;index"`
	CancelledAt  *time.Time `gorm:""`
	Version      int64      `gorm:"not null;default:1"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`

	Passengers []PassengerModel `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// PassengerModel is the GORM model for the passengers table.
type PassengerModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null"`
	Position  int       `gorm:"not null"`
	Name      string    `gorm:"not null;size:100"`
	Age       int       `gorm:"not null"`
	IsAdult   bool      `gorm:"not null"`
	IDType    string    `gorm:"size:30"`
	IDNumber  string    `gorm:"size:50"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PassengerModel) TableName() string {
	return "passengers"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking with its passengers by unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).
		Preload("Passengers", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByTicketNumber retrieves a booking by its ticket number.
func (r *GormBookingRepository) FindByTicketNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).
		Preload("Passengers", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("ticket_number = ?", number).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by ticket number: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByAccountID retrieves bookings for an account with pagination.
func (r *GormBookingRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where("account_id = ?", accountID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count account bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Preload("Passengers", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find account bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Preload("Passengers", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// CountByRoute returns booking counts grouped by ordered route (admin).
func (r *GormBookingRepository) CountByRoute(ctx context.Context) (map[string]int64, error) {
	type routeCount struct {
		Origin      string
		Destination string
		Count       int64
	}
	var results []routeCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("origin, destination, count(*) as count").
		Group("origin, destination").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by route: %w", err)
	}

	counts := make(map[string]int64)
	for _, rc := range results {
		counts[rc.Origin+"-"+rc.Destination] = rc.Count
	}
	return counts, nil
}

// RevenueTotal returns the summed price of all non-cancelled bookings (admin).
func (r *GormBookingRepository) RevenueTotal(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("status <> ?", string(bookingDomain.StatusCancelled)).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}

// Save persists a new booking and its passengers in a single transaction.
// A failure on any passenger row rolls back the booking row as well, so a
// booking with a passenger shortfall is never observable.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	passengers := toPassengerModels(bk)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Passengers").Create(model).Error; err != nil {
			return err
		}
		for i := range passengers {
			if err := tx.Create(&passengers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists status changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// Only update if the version matches (current version - 1, since
	// IncrementVersion was called before persisting).
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":       model.Status,
			"cancelled_at": model.CancelledAt,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("stale_booking", "booking was modified by another request")
	}
	return nil
}

// OverrideStatus writes an arbitrary status string without transition checks.
func (r *GormBookingRepository) OverrideStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to override booking status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("booking", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:           bk.ID(),
		TicketNumber: bk.TicketNumber(),
		AccountID:    bk.AccountID(),
		Origin:       string(bk.Origin()),
		Destination:  string(bk.Destination()),
		TravelDate:   bk.TravelDate(),
		Adults:       bk.Adults(),
		Children:     bk.Children(),
		TotalPrice:   bk.TotalPrice(),
		Currency:     bk.Currency(),
		Status:       string(bk.Status()),
		CancelledAt:  bk.CancelledAt(),
		Version:      bk.Version(),
		CreatedAt:    bk.CreatedAt(),
		UpdatedAt:    bk.UpdatedAt(),
	}
}

func toPassengerModels(bk *bookingDomain.Booking) []PassengerModel {
	passengers := bk.Passengers()
	models := make([]PassengerModel, len(passengers))
	for i, p := range passengers {
		models[i] = PassengerModel{
			ID:        uuid.New(),
			BookingID: bk.ID(),
			Position:  i,
			Name:      p.Name,
			Age:       p.Age,
			IsAdult:   p.IsAdult,
			IDType:    p.IDType,
			IDNumber:  p.IDNumber,
			CreatedAt: bk.CreatedAt(),
		}
	}
	return models
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		// Admin overrides can write statuses outside the enum; surface the
		// raw value rather than failing the read.
		status = bookingDomain.BookingStatus(m.Status)
	}

	passengers := make([]bookingDomain.Passenger, len(m.Passengers))
	for i, p := range m.Passengers {
		passengers[i] = bookingDomain.Passenger{
			Name:     p.Name,
			Age:      p.Age,
			IsAdult:  p.IsAdult,
			IDType:   p.IDType,
			IDNumber: p.IDNumber,
		}
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.TicketNumber,
		m.AccountID,
		bookingDomain.City(m.Origin),
		bookingDomain.City(m.Destination),
		m.TravelDate,
		m.Adults,
		m.Children,
		m.TotalPrice,
		m.Currency,
		status,
		passengers,
		m.CancelledAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
