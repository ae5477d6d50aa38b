package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetBySalonWithFilter получает записи салона на конкретную дату (busy set)
	GetBySalonWithFilter(ctx context.Context, filter domain.SalonAppointmentsFilter) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория календарных правил
type ScheduleRepository interface {
	GetOpeningHours(ctx context.Context, salonID int64, weekday time.Weekday) (*domain.OpeningHours, error)
	IsClosedDay(ctx context.Context, salonID int64, date time.Time) (bool, error)
}

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	GetByID(ctx context.Context, salonID, serviceID int64) (*domain.Service, error)
}

// ConfigRepository интерфейс репозитория конфигурации бронирования
type ConfigRepository interface {
	GetBySalon(ctx context.Context, salonID int64) (*domain.SalonBookingConfig, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
