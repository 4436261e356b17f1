package domain

// RefundMethod how a refund is disbursed
type RefundMethod string

const (
	// RefundMethodPoints возврат баллами на счёт лояльности
	RefundMethodPoints RefundMethod = "points"
	// RefundMethodNone возврат не выплачивается (бронь не была оплачена)
	RefundMethodNone RefundMethod = "none"
)

// RefundDecision is the outcome of evaluating the cancellation policy
// against a reservation at a point in time
type RefundDecision struct {
	CanCancel     bool
	Reason        string // причина отказа, пустая при CanCancel=true
	RefundPercent int    // 0, 50 или 100
	RefundAmount  float64
	RefundMethod  RefundMethod
	Points        int64 // баллы к зачислению на счёт лояльности
}
