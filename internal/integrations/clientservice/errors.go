package clientservice

import "errors"

var (
	// ErrProfileNotFound возвращается, когда профиль клиента не найден
	ErrProfileNotFound = errors.New("clientservice client: profile not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("clientservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("clientservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Профиль клиента недоступен: запись создаётся без денормализованных
	// имени и телефона
	ErrServiceDegraded = errors.New("clientservice unavailable: graceful degradation applied")
)
