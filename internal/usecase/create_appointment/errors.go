package create_appointment

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в салоне
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrServiceInactive возвращается, когда услуга выключена
	ErrServiceInactive = errors.New("create_appointment: service is not bookable")

	// ErrSalonClosed возвращается, когда салон закрыт в указанную дату
	ErrSalonClosed = errors.New("create_appointment: salon is closed on this date")

	// ErrOutsideOpeningHours возвращается, когда интервал не помещается
	// в рабочее окно дня
	ErrOutsideOpeningHours = errors.New("create_appointment: slot is outside opening hours")

	// ErrSlotInPast возвращается при попытке записаться на прошедшее время
	ErrSlotInPast = errors.New("create_appointment: slot is in the past")

	// ErrSlotNotAvailable возвращается, когда выбранный интервал пересекается
	// с существующей активной записью. Вызывающая сторона должна запросить
	// свежий список слотов и предложить выбрать заново
	ErrSlotNotAvailable = errors.New("create_appointment: slot is no longer available")

	// ErrScheduleMisconfigured возвращается при противоречивых календарных правилах
	ErrScheduleMisconfigured = errors.New("create_appointment: schedule misconfigured")

	// ErrInvalidDate возвращается при некорректной дате записи
	ErrInvalidDate = errors.New("create_appointment: invalid appointment date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase,
	// в том числе когда хранилище не ответило после всех повторов
	ErrInternal = errors.New("create_appointment: internal error")
)
