package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
// Ядро никогда не видит непровалидированный ввод: граница API обязана
// передать сюда уже разобранные дату и время
func validateRequest(req *Request) error {
	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	switch req.Origin {
	case domain.OriginClient, domain.OriginStaff:
	default:
		return fmt.Errorf("%w: unknown origin %q", ErrInvalidInput, req.Origin)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateNotInPast проверяет, что дата и время начала не в прошлом
func validateNotInPast(date time.Time, startTime types.TimeString, now time.Time) error {
	if isDateInPast(date, now) {
		return ErrSlotInPast
	}

	if isSameDay(date, now) && startTime.IsBefore(types.NewTimeString(now)) {
		return ErrSlotInPast
	}

	return nil
}

// validateFitsOpeningHours проверяет, что интервал [start, end) целиком
// помещается в рабочее окно дня
func validateFitsOpeningHours(hours *domain.OpeningHours, start, end types.TimeString) error {
	if start.IsBefore(hours.OpensAt) || end.IsAfter(hours.ClosesAt) {
		return fmt.Errorf("%w: [%s, %s) not within [%s, %s)",
			ErrOutsideOpeningHours, start, end, hours.OpensAt, hours.ClosesAt)
	}
	return nil
}

// findOverlap ищет активную запись, пересекающуюся с интервалом [start, end)
// Пересечение строгое: граничащие интервалы не конфликтуют
func findOverlap(start, end types.TimeString, appointments []*domain.Appointment) *domain.Appointment {
	candidate := domain.Interval{Start: start, End: end}

	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}
		busy := domain.Interval{Start: appt.StartTime, End: appt.EndTime}
		if candidate.Overlaps(busy) {
			return appt
		}
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
