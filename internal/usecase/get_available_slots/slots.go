package get_available_slots

import (
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// generateSlots перечисляет доступные слоты на день
// Чистая функция: одинаковые входы всегда дают одинаковый результат,
// никаких записей и обращений к внешнему состоянию
//
// Кандидаты идут от начала рабочего окна с шагом granularity (шаг сетки
// не зависит от длительности услуги и не обязан делить окно нацело).
// Кандидат t попадает в ответ, если:
//   - [t, t+duration) целиком помещается в рабочее окно
//   - t не в прошлом, когда запрошена сегодняшняя дата
//   - [t, t+duration) не пересекается НИ С ОДНИМ занятым интервалом
func generateSlots(
	hours *domain.OpeningHours,
	serviceDuration int,
	granularity int,
	requestDate time.Time,
	now time.Time,
	busy []domain.Interval,
) ([]domain.Slot, error) {
	// Салон закрыт в этот день недели
	if hours == nil || hours.IsClosed() {
		return []domain.Slot{}, nil
	}

	// Дата целиком в прошлом
	if isDateInPast(requestDate, now) {
		return []domain.Slot{}, nil
	}

	// Минимально допустимое время начала для сегодняшней даты
	var minStart types.TimeString
	if isSameDay(requestDate, now) {
		minStart = types.NewTimeString(now)
	}

	slots := make([]domain.Slot, 0)
	candidate := hours.OpensAt

	for candidate.IsBefore(hours.ClosesAt) {
		slotEnd, err := candidate.AddMinutes(serviceDuration)
		if err != nil {
			return nil, err
		}

		// Услуга не помещается до закрытия - дальше будет только хуже
		if slotEnd.IsAfter(hours.ClosesAt) {
			break
		}

		if acceptCandidate(candidate, slotEnd, minStart, busy) {
			slots = append(slots, domain.Slot{
				StartTime:       candidate,
				EndTime:         slotEnd,
				DurationMinutes: serviceDuration,
			})
		}

		candidate, err = candidate.AddMinutes(granularity)
		if err != nil {
			return nil, err
		}
	}

	return slots, nil
}

// acceptCandidate проверяет кандидата против прошедшего времени и busy set
func acceptCandidate(start, end, minStart types.TimeString, busy []domain.Interval) bool {
	// Прошедшие слоты не предлагаем
	if !minStart.IsZero() && start.IsBefore(minStart) {
		return false
	}

	// Пересечение проверяем с каждым занятым интервалом, не только с ближайшим
	candidate := domain.Interval{Start: start, End: end}
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return false
		}
	}

	return true
}

// busyIntervals собирает занятые интервалы из активных записей
// Конец интервала берется из записи (заморожен при создании), а не
// пересчитывается из текущей длительности услуги
func busyIntervals(appointments []*domain.Appointment) []domain.Interval {
	intervals := make([]domain.Interval, 0, len(appointments))
	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}
		intervals = append(intervals, domain.Interval{
			Start: appt.StartTime,
			End:   appt.EndTime,
		})
	}
	return intervals
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
