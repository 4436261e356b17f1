package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FieldService/internal/calendar"
	"github.com/m04kA/SMC-FieldService/internal/domain"
	resourcestorage "github.com/m04kA/SMC-FieldService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-FieldService/internal/pricing"
	"github.com/m04kA/SMC-FieldService/pkg/ptr"
	"github.com/m04kA/SMC-FieldService/pkg/types"
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

type fakeReservationRepo struct {
	items []*domain.Reservation
}

func (r *fakeReservationRepo) ListActive(_ context.Context, resourceID int64, date time.Time) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, item := range r.items {
		if item.ResourceID == resourceID && item.ReservationDate.Equal(date) && item.IsActive() {
			out = append(out, item)
		}
	}
	return out, nil
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

func openEight(s string) *types.TimeString {
	ts := types.TimeString(s)
	return &ts
}

// Ресурс с коротким рабочим днём, чтобы сетка оставалась обозримой
func testResource() *domain.Resource {
	return &domain.Resource{
		ID:               1,
		Name:             "Корт №2",
		BasePricePerHour: 100000,
		OpenTime:         openEight("10:00"),
		CloseTime:        openEight("14:00"),
	}
}

func newUseCase(res *domain.Resource, reservations []*domain.Reservation, now time.Time) *UseCase {
	return NewUseCase(
		&fakeReservationRepo{items: reservations},
		&fakeResourceRepo{resource: res},
		pricing.New(domain.DefaultPeakMultiplier),
		calendar.New("06:00", "21:00"),
		testPolicy(),
		nopLogger{},
	).WithTimeProvider(&fixedClock{now: now})
}

func TestExecute_FullGrid(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	uc := newUseCase(testResource(), nil, now)

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 1, Date: "2025-10-15"})
	require.NoError(t, err)

	assert.True(t, resp.IsOpen)
	assert.Equal(t, "10:00", resp.OpenTime)
	assert.Equal(t, "14:00", resp.CloseTime)

	require.Len(t, resp.Slots, 4)
	assert.Equal(t, "10:00", resp.Slots[0].StartTime)
	assert.Equal(t, "11:00", resp.Slots[0].EndTime)
	assert.Equal(t, 100000.0, resp.Slots[0].Price)
}

func TestExecute_OccupiedSlotsHidden(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	reservations := []*domain.Reservation{
		{ResourceID: 1, ReservationDate: date, StartTime: "11:00", EndTime: "12:00", Status: domain.StatusConfirmed},
	}

	uc := newUseCase(testResource(), reservations, now)

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 1, Date: "2025-10-15"})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	for _, s := range resp.Slots {
		assert.NotEqual(t, "11:00", s.StartTime)
	}
}

// Отменённая бронь не скрывает слот
func TestExecute_CancelledReservationIgnored(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	reservations := []*domain.Reservation{
		{ResourceID: 1, ReservationDate: date, StartTime: "11:00", EndTime: "12:00", Status: domain.StatusCancelled},
	}

	uc := newUseCase(testResource(), reservations, now)

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 1, Date: "2025-10-15"})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 4)
}

// Запрос на сегодня: слоты внутри минимального буфера скрываются
func TestExecute_TodayBuffer(t *testing.T) {
	now := time.Date(2025, 10, 15, 10, 30, 0, 0, time.UTC)
	uc := newUseCase(testResource(), nil, now)

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 1, Date: "2025-10-15"})
	require.NoError(t, err)

	// 10:00 в прошлом; 11:00 ровно на границе буфера - показывается
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, "11:00", resp.Slots[0].StartTime)
}

// Закрытый день - валидный ответ без слотов, а не ошибка
func TestExecute_ClosedDay(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)

	res := testResource()
	res.UnderMaintenance = true
	res.MaintenanceReason = ptr.Ptr("ремонт освещения")

	uc := newUseCase(res, nil, now)

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 1, Date: "2025-10-15"})
	require.NoError(t, err)

	assert.False(t, resp.IsOpen)
	assert.Equal(t, "ремонт освещения", resp.ClosedReason)
	assert.Empty(t, resp.Slots)
}

func TestExecute_PeakSlotsMarked(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)

	res := testResource()
	res.PeakStartTime = openEight("12:00")
	res.PeakEndTime = openEight("14:00")
	res.PeakMultiplier = ptr.Ptr(1.5)

	uc := newUseCase(res, nil, now)

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 1, Date: "2025-10-15"})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 4)

	assert.False(t, resp.Slots[0].IsPeakHour)
	assert.Equal(t, 100000.0, resp.Slots[0].Price)

	last := resp.Slots[3]
	assert.True(t, last.IsPeakHour)
	assert.Equal(t, 150000.0, last.Price)
}

func TestExecute_DateValidation(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	uc := newUseCase(testResource(), nil, now)

	_, err := uc.Execute(context.Background(), &Request{ResourceID: 1, Date: "15.10.2025"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = uc.Execute(context.Background(), &Request{ResourceID: 1, Date: "2025-10-12"})
	assert.ErrorIs(t, err, ErrDateInPast)

	_, err = uc.Execute(context.Background(), &Request{ResourceID: 1, Date: "2025-12-01"})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)

	_, err = uc.Execute(context.Background(), &Request{ResourceID: 99, Date: "2025-10-15"})
	assert.ErrorIs(t, err, ErrResourceNotFound)
}
