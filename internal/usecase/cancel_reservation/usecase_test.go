package cancel_reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FieldService/internal/cancellation"
	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-FieldService/internal/integrations/notify"
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

type fakeReservationRepo struct {
	res        *domain.Reservation
	cancelErr  error
	lastUpdate *reservation.CancelUpdate
}

func (r *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	if r.res == nil || r.res.ID != id {
		return nil, reservation.ErrReservationNotFound
	}
	return r.res, nil
}

func (r *fakeReservationRepo) Cancel(_ context.Context, _ int64, upd reservation.CancelUpdate) error {
	if r.cancelErr != nil {
		return r.cancelErr
	}
	r.lastUpdate = &upd
	return nil
}

type fakeLedger struct {
	err      error
	userID   int64
	credited int64
	calls    int
}

func (l *fakeLedger) CreditWithGracefulDegradation(_ context.Context, userID, points int64, _ string) error {
	l.calls++
	if l.err != nil {
		return l.err
	}
	l.userID = userID
	l.credited = points
	return nil
}

type passTxManager struct{}

func (passTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type capturingPublisher struct {
	events []notify.ReservationCancelledEvent
}

func (p *capturingPublisher) ReservationCancelled(_ context.Context, event notify.ReservationCancelledEvent) {
	p.events = append(p.events, event)
}

var testNow = time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)

// paidReservation оплаченная бронь пользователя 42, начинающаяся
// через offset от testNow
func paidReservation(offset time.Duration) *domain.Reservation {
	start := testNow.Add(offset)
	return &domain.Reservation{
		ID:              1,
		Code:            "FLD-20251015-00001",
		ResourceID:      7,
		UserID:          ptr.Ptr(int64(42)),
		ReservationDate: time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:       types.NewTimeString(start),
		EndTime:         types.NewTimeString(start.Add(time.Hour)),
		Status:          domain.StatusConfirmed,
		PaymentStatus:   domain.PaymentPaid,
		TotalPrice:      150000,
	}
}

type fixture struct {
	uc        *UseCase
	repo      *fakeReservationRepo
	ledger    *fakeLedger
	publisher *capturingPublisher
}

func newFixture(t *testing.T, res *domain.Reservation) *fixture {
	t.Helper()

	repo := &fakeReservationRepo{res: res}
	ledger := &fakeLedger{}
	publisher := &capturingPublisher{}

	uc := NewUseCase(
		repo,
		cancellation.New(24, 50, 1000),
		ledger,
		passTxManager{},
		publisher,
		nopLogger{},
	).WithTimeProvider(&fixedClock{now: testNow})

	return &fixture{uc: uc, repo: repo, ledger: ledger, publisher: publisher}
}

func ownerRequest() *Request {
	return &Request{ReservationID: 1, CancelledBy: ptr.Ptr(int64(42))}
}

func TestExecute_FullRefund(t *testing.T) {
	f := newFixture(t, paidReservation(48*time.Hour))

	resp, err := f.uc.Execute(context.Background(), ownerRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, string(domain.PaymentRefunded), resp.PaymentStatus)
	assert.Equal(t, 100, resp.RefundPercent)
	assert.Equal(t, 150000.0, resp.RefundAmount)
	assert.Equal(t, int64(150), resp.PointsCredited)

	require.NotNil(t, f.repo.lastUpdate)
	assert.Equal(t, domain.PaymentRefunded, f.repo.lastUpdate.PaymentStatus)
	assert.Equal(t, cancellation.DefaultCancellationReason, f.repo.lastUpdate.Reason)

	assert.Equal(t, int64(42), f.ledger.userID)
	assert.Equal(t, int64(150), f.ledger.credited)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, "FLD-20251015-00001", f.publisher.events[0].Code)
}

func TestExecute_LateRefund(t *testing.T) {
	f := newFixture(t, paidReservation(23*time.Hour))

	resp, err := f.uc.Execute(context.Background(), ownerRequest())
	require.NoError(t, err)

	assert.Equal(t, 50, resp.RefundPercent)
	assert.Equal(t, 75000.0, resp.RefundAmount)
	assert.Equal(t, int64(75), resp.PointsCredited)
}

// Неоплаченная бронь: статус оплаты не меняется, баллы не начисляются
func TestExecute_UnpaidNoRefund(t *testing.T) {
	res := paidReservation(48 * time.Hour)
	res.PaymentStatus = domain.PaymentUnpaid

	f := newFixture(t, res)

	resp, err := f.uc.Execute(context.Background(), ownerRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentUnpaid), resp.PaymentStatus)
	assert.Equal(t, 0.0, resp.RefundAmount)
	assert.Equal(t, int64(0), resp.PointsCredited)
	assert.Equal(t, 0, f.ledger.calls)
}

func TestExecute_PastReservationRefused(t *testing.T) {
	f := newFixture(t, paidReservation(-time.Hour))

	_, err := f.uc.Execute(context.Background(), ownerRequest())
	assert.ErrorIs(t, err, ErrCancellationRefused)
	assert.Nil(t, f.repo.lastUpdate)
}

func TestExecute_TerminalStatus(t *testing.T) {
	res := paidReservation(48 * time.Hour)
	res.Status = domain.StatusCompleted

	f := newFixture(t, res)

	_, err := f.uc.Execute(context.Background(), ownerRequest())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExecute_NotFound(t *testing.T) {
	f := newFixture(t, paidReservation(48*time.Hour))

	req := ownerRequest()
	req.ReservationID = 999

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecute_ForbiddenForStranger(t *testing.T) {
	f := newFixture(t, paidReservation(48*time.Hour))

	req := &Request{ReservationID: 1, CancelledBy: ptr.Ptr(int64(99))}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestExecute_AdminOverride(t *testing.T) {
	f := newFixture(t, paidReservation(48*time.Hour))

	req := &Request{ReservationID: 1, IsAdmin: true, Reason: "запрос клиента по телефону"}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, "запрос клиента по телефону", f.repo.lastUpdate.Reason)
}

// Гостевую бронь может отменить только администратор
func TestExecute_GuestReservation(t *testing.T) {
	res := paidReservation(48 * time.Hour)
	res.UserID = nil

	f := newFixture(t, res)

	req := &Request{ReservationID: 1, CancelledBy: ptr.Ptr(int64(42))}
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrForbidden)

	resp, err := f.uc.Execute(context.Background(), &Request{ReservationID: 1, IsAdmin: true})
	require.NoError(t, err)
	// Баллы некому начислять
	assert.Equal(t, int64(0), resp.PointsCredited)
	assert.Equal(t, 0, f.ledger.calls)
}

// Проигрыш гонки конкурентной отмене: guarded UPDATE не нашёл активную бронь
func TestExecute_LostCancellationRace(t *testing.T) {
	f := newFixture(t, paidReservation(48*time.Hour))
	f.repo.cancelErr = reservation.ErrCannotCancel

	_, err := f.uc.Execute(context.Background(), ownerRequest())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// Сбой сервиса лояльности не откатывает отмену
func TestExecute_LedgerFailureDoesNotFailCancellation(t *testing.T) {
	f := newFixture(t, paidReservation(48*time.Hour))
	f.ledger.err = errors.New("loyalty service is down")

	resp, err := f.uc.Execute(context.Background(), ownerRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.PointsCredited)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
}
