package create_reservation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FieldService/internal/calendar"
	"github.com/m04kA/SMC-FieldService/internal/domain"
	resourcestorage "github.com/m04kA/SMC-FieldService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-FieldService/internal/integrations/notify"
	"github.com/m04kA/SMC-FieldService/internal/pricing"
	"github.com/m04kA/SMC-FieldService/pkg/ptr"
	"github.com/m04kA/SMC-FieldService/pkg/txmanager"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type fakeResourceRepo struct {
	resource *domain.Resource
}

func (r *fakeResourceRepo) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	if r.resource == nil || r.resource.ID != id {
		return nil, resourcestorage.ErrResourceNotFound
	}
	return r.resource, nil
}

// fakeReservationRepo хранит брони в памяти; доступ синхронизируется
// менеджером транзакций теста
type fakeReservationRepo struct {
	items  []*domain.Reservation
	nextID int64
}

func (r *fakeReservationRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	r.nextID++
	created := *res
	created.ID = r.nextID
	created.Code = fmt.Sprintf("FLD-%s-%05d", res.ReservationDate.Format("20060102"), r.nextID)
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	r.items = append(r.items, &created)
	return &created, nil
}

func (r *fakeReservationRepo) GetByResourceWithFilter(_ context.Context, filter domain.ResourceReservationsFilter) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, item := range r.items {
		if item.ResourceID != filter.ResourceID {
			continue
		}
		if filter.StartDate != nil && item.ReservationDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && item.ReservationDate.After(*filter.EndDate) {
			continue
		}
		if !filter.IncludeInactive && !item.IsActive() {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// serialTxManager сериализует транзакции мьютексом, как это делает
// уровень serializable в БД
type serialTxManager struct {
	mu sync.Mutex
}

func (m *serialTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type busyTxManager struct{}

func (busyTxManager) DoSerializable(context.Context, func(ctx context.Context) error) error {
	return fmt.Errorf("%w: could not serialize access", txmanager.ErrBusy)
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []notify.ReservationCreatedEvent
}

func (p *capturingPublisher) ReservationCreated(_ context.Context, event notify.ReservationCreatedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func testPolicy() domain.BookingPolicy {
	return domain.BookingPolicy{
		MinNoticeMinutes:    30,
		MaxAdvanceDays:      30,
		MinDurationMinutes:  60,
		MaxDurationMinutes:  360,
		DurationStepMinutes: 60,
	}
}

func testResource() *domain.Resource {
	return &domain.Resource{
		ID:               1,
		Name:             "Поле №1",
		BasePricePerHour: 100000,
	}
}

type fixture struct {
	uc        *UseCase
	repo      *fakeReservationRepo
	publisher *capturingPublisher
}

func newFixture(t *testing.T, res *domain.Resource, now time.Time) *fixture {
	t.Helper()

	repo := &fakeReservationRepo{}
	publisher := &capturingPublisher{}

	uc := NewUseCase(
		repo,
		&fakeResourceRepo{resource: res},
		pricing.New(domain.DefaultPeakMultiplier),
		calendar.New("06:00", "21:00"),
		testPolicy(),
		&serialTxManager{},
		publisher,
		nopLogger{},
	).WithTimeProvider(&fixedClock{now: now})

	return &fixture{uc: uc, repo: repo, publisher: publisher}
}

func TestExecute_CreatesPendingReservation(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, testResource(), now)

	req := validRequest()
	req.UserID = ptr.Ptr(int64(42))

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "FLD-20251015-00001", resp.Code)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, string(domain.PaymentUnpaid), resp.PaymentStatus)
	assert.Equal(t, 100000.0, resp.TotalPrice)
	assert.Equal(t, int64(42), *resp.UserID)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, resp.Code, f.publisher.events[0].Code)
	assert.NotEmpty(t, f.publisher.events[0].EventID)
}

func TestExecute_ConfirmFlagCreatesConfirmed(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, testResource(), now)

	req := validRequest()
	req.Confirm = true

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestExecute_GuestReservation(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, testResource(), now)

	req := validRequest()
	req.UserID = nil

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, resp.UserID)
}

func TestExecute_SlotConflict(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, testResource(), now)

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Пересекающийся слот на ту же дату
	req := validRequest()
	req.StartTime = "18:30"
	req.EndTime = "19:30"

	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_AdjacentSlotAllowed(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, testResource(), now)

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.StartTime = "19:00"
	req.EndTime = "20:00"

	_, err = f.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

// Отменённая бронь освобождает слот для новой
func TestExecute_CancelledSlotReusable(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, testResource(), now)

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	f.repo.items[0].Status = domain.StatusCancelled

	_, err = f.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_ResourceNotFound(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, testResource(), now)

	req := validRequest()
	req.ResourceID = 999

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestExecute_ResourceClosedForMaintenance(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)

	res := testResource()
	res.UnderMaintenance = true
	res.MaintenanceReason = ptr.Ptr("замена покрытия")

	f := newFixture(t, res, now)

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrResourceClosed)
	assert.Contains(t, err.Error(), "замена покрытия")
}

func TestExecute_StorageBusy(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, testResource(), now)

	uc := NewUseCase(
		f.repo,
		&fakeResourceRepo{resource: testResource()},
		pricing.New(domain.DefaultPeakMultiplier),
		calendar.New("06:00", "21:00"),
		testPolicy(),
		busyTxManager{},
		nil,
		nopLogger{},
	).WithTimeProvider(&fixedClock{now: now})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStorageBusy)
}

// Конкурентные заявки на один слот: ровно одна проходит, остальные
// получают конфликт
func TestExecute_ConcurrentSameSlot(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, testResource(), now)

	const attempts = 10

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), validRequest())
		}(i)
	}
	wg.Wait()

	var created, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		default:
			require.ErrorIs(t, err, ErrSlotConflict)
			conflicts++
		}
	}

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, f.repo.items, 1)
}
