package loyaltyservice

// ledgerRequest тело запроса на зачисление/списание баллов
type ledgerRequest struct {
	Points int64  `json:"points"`
	Reason string `json:"reason"`
}

// Balance баланс счёта лояльности
type Balance struct {
	UserID int64 `json:"user_id"`
	Points int64 `json:"points"`
}

// ErrorResponse модель ошибки от сервиса лояльности
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
