package cancellation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/pkg/types"
)

func paidReservation(start time.Time, totalPrice float64) *domain.Reservation {
	return &domain.Reservation{
		ReservationDate: time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()),
		StartTime:       types.NewTimeString(start),
		EndTime:         types.NewTimeString(start.Add(time.Hour)),
		Status:          domain.StatusConfirmed,
		PaymentStatus:   domain.PaymentPaid,
		TotalPrice:      totalPrice,
	}
}

func TestEvaluate_FullRefund(t *testing.T) {
	policy := New(24, 50, 1000)

	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	start := now.Add(25 * time.Hour)

	decision, err := policy.Evaluate(paidReservation(start, 150000), now)
	require.NoError(t, err)

	assert.True(t, decision.CanCancel)
	assert.Equal(t, 100, decision.RefundPercent)
	assert.Equal(t, 150000.0, decision.RefundAmount)
	assert.Equal(t, domain.RefundMethodPoints, decision.RefundMethod)
	assert.Equal(t, int64(150), decision.Points)
}

func TestEvaluate_LateRefund(t *testing.T) {
	policy := New(24, 50, 1000)

	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	start := now.Add(23 * time.Hour)

	decision, err := policy.Evaluate(paidReservation(start, 150000), now)
	require.NoError(t, err)

	assert.True(t, decision.CanCancel)
	assert.Equal(t, 50, decision.RefundPercent)
	assert.Equal(t, 75000.0, decision.RefundAmount)
	assert.Equal(t, int64(75), decision.Points)
}

// Ровно 24 часа до начала - граница включается в полный возврат
func TestEvaluate_ExactNoticeBoundary(t *testing.T) {
	policy := New(24, 50, 1000)

	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	start := now.Add(24 * time.Hour)

	decision, err := policy.Evaluate(paidReservation(start, 100000), now)
	require.NoError(t, err)
	assert.Equal(t, 100, decision.RefundPercent)
}

func TestEvaluate_PastReservation(t *testing.T) {
	policy := New(24, 50, 1000)

	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)

	decision, err := policy.Evaluate(paidReservation(start, 100000), now)
	require.NoError(t, err)

	assert.False(t, decision.CanCancel)
	assert.Equal(t, ReasonPastReservation, decision.Reason)
}

// Неоплаченная бронь отменяется, но возврат принудительно нулевой
func TestEvaluate_UnpaidNoRefund(t *testing.T) {
	policy := New(24, 50, 1000)

	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	res := paidReservation(now.Add(48*time.Hour), 150000)
	res.PaymentStatus = domain.PaymentUnpaid

	decision, err := policy.Evaluate(res, now)
	require.NoError(t, err)

	assert.True(t, decision.CanCancel)
	assert.Equal(t, 100, decision.RefundPercent)
	assert.Equal(t, 0.0, decision.RefundAmount)
	assert.Equal(t, domain.RefundMethodNone, decision.RefundMethod)
	assert.Equal(t, int64(0), decision.Points)
}

// Сумма возврата и баллы округляются вниз
func TestEvaluate_FloorsRefundAndPoints(t *testing.T) {
	policy := New(24, 50, 1000)

	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)

	decision, err := policy.Evaluate(paidReservation(now.Add(time.Hour), 99999), now)
	require.NoError(t, err)

	// 50% от 99999 = 49999.5, floor -> 49999; 49999/1000 = 49 баллов
	assert.Equal(t, 49999.0, decision.RefundAmount)
	assert.Equal(t, int64(49), decision.Points)
}

func TestNew_Defaults(t *testing.T) {
	policy := New(0, 0, 0)

	assert.Equal(t, domain.DefaultFullRefundNoticeHours, policy.fullRefundNoticeHours)
	assert.Equal(t, domain.DefaultLateRefundPercent, policy.lateRefundPercent)
	assert.Equal(t, int64(domain.DefaultPointsPerCurrencyUnit), policy.pointsPerCurrencyUnit)
}
