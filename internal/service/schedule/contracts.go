package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/internal/infra/cache/schedulecache"
)

// ScheduleRepository интерфейс репозитория календарных правил
type ScheduleRepository interface {
	GetWeek(ctx context.Context, salonID int64) ([]*domain.OpeningHours, error)
	UpsertOpeningHours(ctx context.Context, hours *domain.OpeningHours) (*domain.OpeningHours, error)
	ListClosedDays(ctx context.Context, salonID int64, from time.Time) ([]*domain.ClosedDay, error)
	AddClosedDay(ctx context.Context, day *domain.ClosedDay) (*domain.ClosedDay, error)
	RemoveClosedDay(ctx context.Context, salonID int64, date time.Time) error
}

// ConfigRepository интерфейс репозитория конфигурации бронирования
type ConfigRepository interface {
	GetBySalon(ctx context.Context, salonID int64) (*domain.SalonBookingConfig, error)
	Upsert(ctx context.Context, config *domain.SalonBookingConfig) (*domain.SalonBookingConfig, error)
}

// RulesCache кэш снапшотов календарных правил
type RulesCache interface {
	Get(ctx context.Context, salonID int64) (*schedulecache.Snapshot, error)
	Set(ctx context.Context, snap *schedulecache.Snapshot) error
	Invalidate(ctx context.Context, salonID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider абстракция времени для тестируемости
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
