package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/swiftbus/service-ticketing/internal/application"
	"github.com/swiftbus/service-ticketing/internal/domain"
	"github.com/swiftbus/service-ticketing/internal/domain/booking"
	"github.com/swiftbus/service-ticketing/internal/events"
)

func newBookingService(repo *fakeBookingRepo, pub *stubPublisher) *application.BookingService {
	return application.NewBookingService(repo, pub, zap.NewNop())
}

func validBookingRequest() application.CreateBookingRequest {
	return application.CreateBookingRequest{
		StartsFrom:  "Mumbai",
		Destination: "Delhi",
		TravelDate:  time.Now().UTC().AddDate(0, 0, 7).Format(booking.TravelDateLayout),
		Adults:      2,
		Children:    1,
		Passengers: []application.PassengerDTO{
			{Name: "Asha Patel", Age: 34, IsAdult: true, IDType: "aadhar", IDNumber: "1234-5678-9012"},
			{Name: "Ravi Patel", Age: 36, IsAdult: true},
			{Name: "Meera Patel", Age: 8},
		},
	}
}

func TestCreateBooking(t *testing.T) {
	repo := newFakeBookingRepo()
	pub := &stubPublisher{}
	svc := newBookingService(repo, pub)
	accountID := uuid.New()

	dto, err := svc.CreateBooking(context.Background(), accountID, validBookingRequest())
	require.NoError(t, err)

	assert.Equal(t, "confirmed", dto.Status)
	assert.Equal(t, int64(7500), dto.TotalPrice)
	assert.Equal(t, accountID, dto.AccountID)
	assert.Len(t, dto.Passengers, 3)

	// The aggregate landed in the repository.
	stored, err := repo.FindByID(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.TicketNumber, stored.TicketNumber())

	// A booking.created event went out.
	published := pub.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.TopicBookingEvents, published[0].Topic)
	assert.Equal(t, events.BookingCreated, published[0].EventType)
}

func TestCreateBooking_ValidationFailureWritesNothing(t *testing.T) {
	repo := newFakeBookingRepo()
	pub := &stubPublisher{}
	svc := newBookingService(repo, pub)

	req := validBookingRequest()
	req.Passengers = req.Passengers[:1]

	_, err := svc.CreateBooking(context.Background(), uuid.New(), req)
	require.Error(t, err)
	assert.Equal(t, booking.ReasonPassengerCountMismatch, domain.ReasonOf(err))

	assert.Empty(t, repo.bookings)
	assert.Empty(t, pub.published())
}

func TestCreateBooking_PublishFailureDoesNotFailRequest(t *testing.T) {
	repo := newFakeBookingRepo()
	pub := &stubPublisher{err: assert.AnError}
	svc := newBookingService(repo, pub)

	dto, err := svc.CreateBooking(context.Background(), uuid.New(), validBookingRequest())
	require.NoError(t, err)
	assert.NotNil(t, dto)
}

func TestGetBooking_OtherAccountSeesNotFound(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newBookingService(repo, &stubPublisher{})
	owner := uuid.New()

	dto, err := svc.CreateBooking(context.Background(), owner, validBookingRequest())
	require.NoError(t, err)

	_, err = svc.GetBooking(context.Background(), uuid.New(), dto.ID)
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindNotFound, appErr.Kind)

	got, err := svc.GetBooking(context.Background(), owner, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, got.ID)
}

func TestGetAccountBookings_Pagination(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newBookingService(repo, &stubPublisher{})
	accountID := uuid.New()

	for i := 0; i < 5; i++ {
		_, err := svc.CreateBooking(context.Background(), accountID, validBookingRequest())
		require.NoError(t, err)
	}

	result, err := svc.GetAccountBookings(context.Background(), accountID, 1, 3)
	require.NoError(t, err)
	assert.Len(t, result.Items, 3)
	assert.Equal(t, int64(5), result.Total)
	assert.Equal(t, 1, result.Page)

	result, err = svc.GetAccountBookings(context.Background(), accountID, 2, 3)
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
}

func TestCancelBooking(t *testing.T) {
	repo := newFakeBookingRepo()
	pub := &stubPublisher{}
	svc := newBookingService(repo, pub)
	accountID := uuid.New()

	dto, err := svc.CreateBooking(context.Background(), accountID, validBookingRequest())
	require.NoError(t, err)

	cancelled, err := svc.CancelBooking(context.Background(), accountID, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	// Second cancel is a conflict and the status stays cancelled.
	_, err = svc.CancelBooking(context.Background(), accountID, dto.ID)
	require.Error(t, err)
	assert.Equal(t, booking.ReasonAlreadyCancelled, domain.ReasonOf(err))

	stored, err := repo.FindByID(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, stored.Status())

	published := pub.published()
	require.Len(t, published, 2)
	assert.Equal(t, events.BookingCancelled, published[1].EventType)
}

func TestCancelBooking_OtherAccountSeesNotFound(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newBookingService(repo, &stubPublisher{})

	dto, err := svc.CreateBooking(context.Background(), uuid.New(), validBookingRequest())
	require.NoError(t, err)

	_, err = svc.CancelBooking(context.Background(), uuid.New(), dto.ID)
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindNotFound, appErr.Kind)
}

func TestGetDashboard(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newBookingService(repo, &stubPublisher{})
	accountID := uuid.New()

	first, err := svc.CreateBooking(context.Background(), accountID, validBookingRequest())
	require.NoError(t, err)
	_, err = svc.CreateBooking(context.Background(), accountID, validBookingRequest())
	require.NoError(t, err)

	_, err = svc.CancelBooking(context.Background(), accountID, first.ID)
	require.NoError(t, err)

	dashboard, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), dashboard.TotalBookings)
	assert.Equal(t, int64(7500), dashboard.TotalRevenue, "cancelled bookings do not count as revenue")
	assert.Equal(t, booking.CurrencyINR, dashboard.Currency)
	assert.Equal(t, int64(1), dashboard.ByStatus["confirmed"])
	assert.Equal(t, int64(1), dashboard.ByStatus["cancelled"])
}

func TestGetBookingStats_ByRoute(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newBookingService(repo, &stubPublisher{})

	_, err := svc.CreateBooking(context.Background(), uuid.New(), validBookingRequest())
	require.NoError(t, err)

	req := validBookingRequest()
	req.StartsFrom = "Pune"
	req.Destination = "Goa"
	_, err = svc.CreateBooking(context.Background(), uuid.New(), req)
	require.NoError(t, err)

	stats, err := svc.GetBookingStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ByRoute["Mumbai-Delhi"])
	assert.Equal(t, int64(1), stats.ByRoute["Pune-Goa"])
}

func TestOverrideStatus(t *testing.T) {
	repo := newFakeBookingRepo()
	pub := &stubPublisher{}
	svc := newBookingService(repo, pub)

	dto, err := svc.CreateBooking(context.Background(), uuid.New(), validBookingRequest())
	require.NoError(t, err)

	// Any non-empty string goes through, including values outside the enum.
	require.NoError(t, svc.OverrideStatus(context.Background(), dto.ID, "refund_review"))
	assert.Equal(t, "refund_review", repo.statuses[dto.ID])

	err = svc.OverrideStatus(context.Background(), dto.ID, "")
	require.Error(t, err)
	assert.Equal(t, "missing_status", domain.ReasonOf(err))

	err = svc.OverrideStatus(context.Background(), uuid.New(), "confirmed")
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindNotFound, appErr.Kind)
}
