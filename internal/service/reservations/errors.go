package reservations

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyPaid возвращается при повторном подтверждении оплаты
	ErrAlreadyPaid = errors.New("reservation is already paid")

	// ErrNotPayable возвращается при попытке оплатить неактивную бронь
	ErrNotPayable = errors.New("reservation cannot be paid")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
