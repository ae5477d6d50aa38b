package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotTaken возвращается, когда вставка нарушила exclusion constraint
	// по пересечению интервалов (salon_id, date, timerange)
	ErrSlotTaken = errors.New("appointment.repository: time range already taken")

	// ErrSerialization возвращается при откате SERIALIZABLE транзакции (SQLSTATE 40001)
	// Вызывающая сторона может повторить попытку
	ErrSerialization = errors.New("appointment.repository: transaction serialization failure")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
