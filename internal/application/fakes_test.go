package application_test

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/swiftbus/service-ticketing/internal/domain"
	accountDomain "github.com/swiftbus/service-ticketing/internal/domain/account"
	bookingDomain "github.com/swiftbus/service-ticketing/internal/domain/booking"
	paymentDomain "github.com/swiftbus/service-ticketing/internal/domain/payment"
)

// publishedEvent records one call to the stub publisher.
type publishedEvent struct {
	Topic     string
	EventType string
	Key       string
	Data      interface{}
}

// stubPublisher collects published events instead of talking to Kafka.
type stubPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *stubPublisher) Publish(_ context.Context, topic, eventType, key string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{Topic: topic, EventType: eventType, Key: key, Data: data})
	return nil
}

func (p *stubPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

// fakeBookingRepo is an in-memory BookingRepository.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
	statuses map[uuid.UUID]string
	saveErr  error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uuid.UUID]*bookingDomain.Booking),
		statuses: make(map[uuid.UUID]string),
	}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindByTicketNumber(_ context.Context, number string) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bk := range r.bookings {
		if bk.TicketNumber() == number {
			return bk, nil
		}
	}
	return nil, domain.NewNotFoundError("booking", number)
}

func (r *fakeBookingRepo) FindByAccountID(_ context.Context, accountID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var owned []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.AccountID() == accountID {
			owned = append(owned, bk)
		}
	}
	return paginate(owned, page, limit), int64(len(owned)), nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*bookingDomain.Booking, 0, len(r.bookings))
	for _, bk := range r.bookings {
		all = append(all, bk)
	}
	return paginate(all, page, limit), int64(len(all)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for id, bk := range r.bookings {
		status := string(bk.Status())
		if override, ok := r.statuses[id]; ok {
			status = override
		}
		counts[status]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) CountByRoute(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		route := string(bk.Origin()) + "-" + string(bk.Destination())
		counts[route]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) RevenueTotal(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, bk := range r.bookings {
		if bk.Status() != bookingDomain.StatusCancelled {
			total += bk.TotalPrice()
		}
	}
	return total, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[bk.ID()]; !ok {
		return domain.NewNotFoundError("booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) OverrideStatus(_ context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return domain.NewNotFoundError("booking", id.String())
	}
	r.statuses[id] = status
	return nil
}

func paginate(items []*bookingDomain.Booking, page, limit int) []*bookingDomain.Booking {
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// fakeAccountRepo is an in-memory AccountRepository.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*accountDomain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*accountDomain.Account)}
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*accountDomain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[id]
	if !ok {
		return nil, domain.NewNotFoundError("account", id.String())
	}
	return acc, nil
}

func (r *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*accountDomain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, acc := range r.accounts {
		if acc.Email() == strings.ToLower(strings.TrimSpace(email)) {
			return acc, nil
		}
	}
	return nil, domain.NewNotFoundError("account", email)
}

func (r *fakeAccountRepo) FindByResetToken(_ context.Context, token string) (*accountDomain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, acc := range r.accounts {
		if acc.ResetToken() != nil && *acc.ResetToken() == token {
			return acc, nil
		}
	}
	return nil, domain.NewNotFoundError("account", "by reset token")
}

func (r *fakeAccountRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, acc := range r.accounts {
		if acc.Username() == username || acc.Email() == strings.ToLower(email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAccountRepo) Save(_ context.Context, acc *accountDomain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[acc.ID()] = acc
	return nil
}

func (r *fakeAccountRepo) Update(_ context.Context, acc *accountDomain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[acc.ID()]; !ok {
		return domain.NewNotFoundError("account", acc.ID().String())
	}
	r.accounts[acc.ID()] = acc
	return nil
}

// fakePaymentRepo is an in-memory PaymentRepository.
type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*paymentDomain.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*paymentDomain.Payment)}
}

func (r *fakePaymentRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*paymentDomain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.BookingID() == bookingID {
			return p, nil
		}
	}
	return nil, domain.NewNotFoundError("payment", bookingID.String())
}

func (r *fakePaymentRepo) FindByTransactionID(_ context.Context, transactionID string) (*paymentDomain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.TransactionID() == transactionID {
			return p, nil
		}
	}
	return nil, domain.NewNotFoundError("payment", transactionID)
}

func (r *fakePaymentRepo) Save(_ context.Context, p *paymentDomain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[p.ID()] = p
	return nil
}

func (r *fakePaymentRepo) Update(_ context.Context, p *paymentDomain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[p.ID()]; !ok {
		return domain.NewNotFoundError("payment", p.ID().String())
	}
	r.payments[p.ID()] = p
	return nil
}
