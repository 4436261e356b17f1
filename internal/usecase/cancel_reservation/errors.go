package cancel_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_reservation: invalid input data")

	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("cancel_reservation: reservation not found")

	// ErrForbidden возвращается при попытке отменить чужое бронирование
	ErrForbidden = errors.New("cancel_reservation: access denied")

	// ErrInvalidTransition возвращается при попытке отменить бронирование
	// в терминальном статусе (уже отменено или завершено)
	ErrInvalidTransition = errors.New("cancel_reservation: reservation is not active")

	// ErrCancellationRefused возвращается, когда политика отмены запрещает
	// отмену (бронь уже началась или прошла)
	ErrCancellationRefused = errors.New("cancel_reservation: cancellation refused by policy")

	// ErrStorageBusy возвращается при невозможности получить блокировку
	// за отведённое время; операцию можно повторить целиком
	ErrStorageBusy = errors.New("cancel_reservation: storage busy, retry the operation")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_reservation: internal error")
)
