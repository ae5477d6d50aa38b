package schedule

import "errors"

var (
	// ErrOpeningHoursNotFound возвращается, когда для дня недели нет расписания
	ErrOpeningHoursNotFound = errors.New("schedule.repository: opening hours not found")

	// ErrDuplicateOpeningHours возвращается, когда для одного дня недели
	// найдено несколько строк расписания. Это противоречие в данных:
	// генератор слотов не выбирает одну из строк молча, а падает
	ErrDuplicateOpeningHours = errors.New("schedule.repository: duplicate opening hours for weekday")

	// ErrClosedDayNotFound возвращается, когда дата закрытия не найдена
	ErrClosedDayNotFound = errors.New("schedule.repository: closed day not found")

	// ErrClosedDayExists возвращается при повторном добавлении той же даты
	ErrClosedDayExists = errors.New("schedule.repository: closed day already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
