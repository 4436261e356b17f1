package loyaltyservice

import "errors"

var (
	// ErrAccountNotFound возвращается, когда счёт лояльности не найден
	ErrAccountNotFound = errors.New("loyaltyservice client: account not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("loyaltyservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("loyaltyservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что сервис лояльности недоступен; операция бронирования
	// при этом не прерывается
	ErrServiceDegraded = errors.New("loyaltyservice unavailable: graceful degradation applied")
)
