package schedule

import "errors"

var (
	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidWeekday возвращается при дне недели вне диапазона 0-6
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrInvalidTimeRange возвращается при некорректном рабочем окне
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInvalidGranularity возвращается при недопустимом шаге слотов
	ErrInvalidGranularity = errors.New("invalid slot granularity")

	// ErrClosedDayExists возвращается при повторном добавлении даты закрытия
	ErrClosedDayExists = errors.New("closed day already exists")

	// ErrClosedDayNotFound возвращается, когда дата закрытия не найдена
	ErrClosedDayNotFound = errors.New("closed day not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
