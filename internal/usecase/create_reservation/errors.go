package create_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("create_reservation: resource not found")

	// ErrInvalidDate возвращается при некорректном формате даты
	ErrInvalidDate = errors.New("create_reservation: invalid reservation date")

	// ErrInvalidTime возвращается при некорректном формате времени
	// или когда время окончания не позже времени начала
	ErrInvalidTime = errors.New("create_reservation: invalid time range")

	// ErrTimeInPast возвращается, когда запрошенное время начала уже прошло
	ErrTimeInPast = errors.New("create_reservation: start time is in the past")

	// ErrTooLateToReserve возвращается, когда до начала брони остаётся
	// меньше минимального буфера
	ErrTooLateToReserve = errors.New("create_reservation: too late to reserve this slot")

	// ErrDateTooFarInFuture возвращается, когда дата превышает глубину бронирования
	ErrDateTooFarInFuture = errors.New("create_reservation: date is too far in the future")

	// ErrResourceClosed возвращается, когда ресурс не работает в указанную дату
	// (обслуживание или нерабочий день недели)
	ErrResourceClosed = errors.New("create_reservation: resource is closed on this date")

	// ErrOutsideOperatingHours возвращается, когда слот выходит за часы работы
	ErrOutsideOperatingHours = errors.New("create_reservation: slot is outside operating hours")

	// ErrInvalidDuration возвращается при недопустимой длительности брони
	ErrInvalidDuration = errors.New("create_reservation: invalid reservation duration")

	// ErrSlotConflict возвращается, когда слот пересекается с существующей бронью
	// Ожидаемый исход конкурентной гонки, а не системная ошибка
	ErrSlotConflict = errors.New("create_reservation: slot conflicts with an existing reservation")

	// ErrStorageBusy возвращается при невозможности получить блокировку
	// за отведённое время; операцию можно повторить целиком
	ErrStorageBusy = errors.New("create_reservation: storage busy, retry the operation")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
