package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/internal/infra/cache/schedulecache"
	scheduleRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/schedule"
	configRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/tenantconfig"
	"github.com/m04kA/SLN-BookingService/internal/service/schedule/models"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// Service сервис настроек календарных правил салона:
// недельное расписание, даты закрытия, шаг слотов и auto-confirm
//
// Чтение идет через Redis-кэш, любое изменение инвалидирует снапшот салона
type Service struct {
	scheduleRepo ScheduleRepository
	configRepo   ConfigRepository
	cache        RulesCache
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек расписания
func NewService(
	scheduleRepo ScheduleRepository,
	configRepo ConfigRepository,
	cache RulesCache,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		configRepo:   configRepo,
		cache:        cache,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetSchedule возвращает календарные правила салона
// Публичный метод - клиенту нужно видеть расписание до бронирования
func (s *Service) GetSchedule(ctx context.Context, salonID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for salon=%d", salonID)

	// Кэш: промах не фатален, идем в БД
	snap, err := s.cache.Get(ctx, salonID)
	if err != nil {
		s.logger.Warn("GetSchedule: cache read failed for salon=%d: %v", salonID, err)
	}
	if snap != nil {
		s.logger.Info("GetSchedule: cache hit for salon=%d", salonID)
		return models.FromSnapshot(snap), nil
	}

	snap, err = s.loadSnapshot(ctx, salonID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, snap); err != nil {
		s.logger.Warn("GetSchedule: cache write failed for salon=%d: %v", salonID, err)
	}

	s.logger.Info("GetSchedule: successfully fetched schedule for salon=%d (%d days, %d closed days)",
		salonID, len(snap.Days), len(snap.ClosedDays))
	return models.FromSnapshot(snap), nil
}

// UpdateSchedule обновляет календарные правила салона
// Доступно только staff
// Переданные дни недели апсертятся, даты закрытия добавляются/удаляются,
// конфигурация бронирования перезаписывается. Все в одной транзакции
func (s *Service) UpdateSchedule(ctx context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateSchedule: updating schedule for salon=%d by user=%d (%d days, +%d/-%d closed days, config=%v)",
		req.SalonID, req.Caller.UserID, len(req.Days), len(req.AddClosedDays), len(req.RemoveClosedDays), req.Config != nil)

	if !req.Caller.IsStaff {
		s.logger.Warn("UpdateSchedule: access denied for user=%d to salon=%d", req.Caller.UserID, req.SalonID)
		return nil, ErrAccessDenied
	}

	days, err := s.validateDays(req.Days)
	if err != nil {
		s.logger.Warn("UpdateSchedule: validation failed for salon=%d: %v", req.SalonID, err)
		return nil, err
	}

	addClosed, removeClosed, err := s.validateClosedDays(req.AddClosedDays, req.RemoveClosedDays)
	if err != nil {
		s.logger.Warn("UpdateSchedule: validation failed for salon=%d: %v", req.SalonID, err)
		return nil, err
	}

	if req.Config != nil {
		if err := s.validateConfig(req.Config); err != nil {
			s.logger.Warn("UpdateSchedule: validation failed for salon=%d: %v", req.SalonID, err)
			return nil, err
		}
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, day := range days {
			day.SalonID = req.SalonID
			if _, err := s.scheduleRepo.UpsertOpeningHours(txCtx, day); err != nil {
				return fmt.Errorf("%w: failed to upsert opening hours for weekday=%d: %v", ErrInternal, day.Weekday, err)
			}
		}

		for _, closed := range addClosed {
			closed.SalonID = req.SalonID
			if _, err := s.scheduleRepo.AddClosedDay(txCtx, closed); err != nil {
				if errors.Is(err, scheduleRepo.ErrClosedDayExists) {
					return fmt.Errorf("%w: %s", ErrClosedDayExists, closed.Date.Format(domain.DateFormat))
				}
				return fmt.Errorf("%w: failed to add closed day: %v", ErrInternal, err)
			}
		}

		for _, date := range removeClosed {
			if err := s.scheduleRepo.RemoveClosedDay(txCtx, req.SalonID, date); err != nil {
				if errors.Is(err, scheduleRepo.ErrClosedDayNotFound) {
					return fmt.Errorf("%w: %s", ErrClosedDayNotFound, date.Format(domain.DateFormat))
				}
				return fmt.Errorf("%w: failed to remove closed day: %v", ErrInternal, err)
			}
		}

		if req.Config != nil {
			config := &domain.SalonBookingConfig{
				SalonID:                req.SalonID,
				SlotGranularityMinutes: req.Config.SlotGranularityMinutes,
				AutoConfirm:            req.Config.AutoConfirm,
			}
			if _, err := s.configRepo.Upsert(txCtx, config); err != nil {
				return fmt.Errorf("%w: failed to upsert booking config: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		s.logger.Error("UpdateSchedule: transaction failed for salon=%d: %v", req.SalonID, err)
		return nil, err
	}

	// Снапшот устарел - генератор слотов не должен видеть старые правила
	if err := s.cache.Invalidate(ctx, req.SalonID); err != nil {
		s.logger.Warn("UpdateSchedule: cache invalidation failed for salon=%d: %v", req.SalonID, err)
	}

	snap, err := s.loadSnapshot(ctx, req.SalonID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, snap); err != nil {
		s.logger.Warn("UpdateSchedule: cache write failed for salon=%d: %v", req.SalonID, err)
	}

	s.logger.Info("UpdateSchedule: successfully updated schedule for salon=%d", req.SalonID)
	return models.FromSnapshot(snap), nil
}

// Вспомогательные методы

// loadSnapshot собирает снапшот правил салона из БД
func (s *Service) loadSnapshot(ctx context.Context, salonID int64) (*schedulecache.Snapshot, error) {
	days, err := s.scheduleRepo.GetWeek(ctx, salonID)
	if err != nil {
		s.logger.Error("loadSnapshot: failed to get week for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: failed to get week schedule: %v", ErrInternal, err)
	}

	today := truncateToDay(s.timeProvider.Now())
	closedDays, err := s.scheduleRepo.ListClosedDays(ctx, salonID, today)
	if err != nil {
		s.logger.Error("loadSnapshot: failed to list closed days for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: failed to list closed days: %v", ErrInternal, err)
	}

	config, err := s.configRepo.GetBySalon(ctx, salonID)
	if err != nil {
		if !errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Error("loadSnapshot: failed to get config for salon=%d: %v", salonID, err)
			return nil, fmt.Errorf("%w: failed to get booking config: %v", ErrInternal, err)
		}
		config = domain.DefaultSalonBookingConfig(salonID)
	}

	return &schedulecache.Snapshot{
		SalonID:    salonID,
		Days:       days,
		ClosedDays: closedDays,
		Config:     config,
	}, nil
}

func (s *Service) validateDays(days []models.DayInput) ([]*domain.OpeningHours, error) {
	seen := make(map[int]bool, len(days))
	result := make([]*domain.OpeningHours, 0, len(days))

	for _, day := range days {
		if day.Weekday < 0 || day.Weekday > 6 {
			return nil, fmt.Errorf("%w: weekday=%d", ErrInvalidWeekday, day.Weekday)
		}
		if seen[day.Weekday] {
			return nil, fmt.Errorf("%w: weekday=%d listed twice", ErrInvalidInput, day.Weekday)
		}
		seen[day.Weekday] = true

		opensAt, err := types.NewTimeStringFromString(day.OpensAt)
		if err != nil {
			return nil, fmt.Errorf("%w: opensAt=%s", ErrInvalidTimeRange, day.OpensAt)
		}
		closesAt, err := types.NewTimeStringFromString(day.ClosesAt)
		if err != nil {
			return nil, fmt.Errorf("%w: closesAt=%s", ErrInvalidTimeRange, day.ClosesAt)
		}

		// opensAt == closesAt означает закрытый день, opensAt > closesAt - ошибка
		if closesAt.IsBefore(opensAt) {
			return nil, fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, day.OpensAt, day.ClosesAt)
		}

		result = append(result, &domain.OpeningHours{
			Weekday:  time.Weekday(day.Weekday),
			OpensAt:  opensAt,
			ClosesAt: closesAt,
			IsActive: day.IsActive,
		})
	}

	return result, nil
}

func (s *Service) validateClosedDays(add []models.ClosedDayInput, remove []string) ([]*domain.ClosedDay, []time.Time, error) {
	addResult := make([]*domain.ClosedDay, 0, len(add))
	for _, input := range add {
		date, err := models.ParseClosedDate(input.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: date=%s", ErrInvalidInput, input.Date)
		}
		addResult = append(addResult, &domain.ClosedDay{
			Date:   date,
			Reason: input.Reason,
		})
	}

	removeResult := make([]time.Time, 0, len(remove))
	for _, raw := range remove {
		date, err := models.ParseClosedDate(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: date=%s", ErrInvalidInput, raw)
		}
		removeResult = append(removeResult, date)
	}

	return addResult, removeResult, nil
}

func (s *Service) validateConfig(config *models.ConfigInput) error {
	if config.SlotGranularityMinutes < domain.MinSlotGranularityMinutes ||
		config.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slotGranularityMinutes=%d", ErrInvalidGranularity, config.SlotGranularityMinutes)
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
