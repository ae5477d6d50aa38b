package get_available_slots

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в салоне
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrServiceInactive возвращается, когда услуга выключена или имеет
	// нулевую длительность - бронировать её нельзя
	ErrServiceInactive = errors.New("get_available_slots: service is not bookable")

	// ErrScheduleMisconfigured возвращается при противоречивых календарных
	// правилах (несколько строк расписания на один день недели)
	ErrScheduleMisconfigured = errors.New("get_available_slots: schedule misconfigured")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
