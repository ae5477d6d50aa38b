package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	catalogRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/schedule"
	configRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/tenantconfig"
)

// UseCase use case получения доступных слотов для записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalogRepo     CatalogRepository
	configRepo      ConfigRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	configRepo ConfigRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		catalogRepo:     catalogRepo,
		configRepo:      configRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Чтение без записей; "нет доступности" (закрытый день) - валидный
// результат с пустым списком, а не ошибка
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: salon=%d, service=%d, date=%s",
		req.SalonID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.catalogRepo.GetByID(ctx, req.SalonID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found in salon id=%d", req.ServiceID, req.SalonID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsBookable() {
		uc.logger.Warn("GetAvailableSlots: service id=%d is not bookable", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Получаем конфигурацию бронирования салона
	config, err := uc.configRepo.GetBySalon(ctx, req.SalonID)
	if err != nil {
		if !errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get booking config: %v", err)
			return nil, fmt.Errorf("%w: failed to get booking config: %v", ErrInternal, err)
		}
		config = domain.DefaultSalonBookingConfig(req.SalonID)
		uc.logger.Info("GetAvailableSlots: using default booking config for salon=%d", req.SalonID)
	}

	// 5. Дата полного закрытия перекрывает недельное расписание
	closed, err := uc.scheduleRepo.IsClosedDay(ctx, req.SalonID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to check closed day: %v", err)
		return nil, fmt.Errorf("%w: failed to check closed day: %v", ErrInternal, err)
	}
	if closed {
		uc.logger.Info("GetAvailableSlots: salon=%d is closed on %s", req.SalonID, req.Date.Format(domain.DateFormat))
		return emptyResponse(req), nil
	}

	// 6. Получаем расписание на день недели
	hours, err := uc.scheduleRepo.GetOpeningHours(ctx, req.SalonID, req.Date.Weekday())
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrOpeningHoursNotFound) {
			// Нет строки расписания - салон не работает в этот день недели
			uc.logger.Info("GetAvailableSlots: no opening hours for salon=%d weekday=%d",
				req.SalonID, int(req.Date.Weekday()))
			return emptyResponse(req), nil
		}
		if errors.Is(err, scheduleRepo.ErrDuplicateOpeningHours) {
			uc.logger.Error("GetAvailableSlots: duplicate opening hours for salon=%d weekday=%d",
				req.SalonID, int(req.Date.Weekday()))
			return nil, fmt.Errorf("%w: %v", ErrScheduleMisconfigured, err)
		}
		uc.logger.Error("GetAvailableSlots: failed to get opening hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get opening hours: %v", ErrInternal, err)
	}

	// 7. Получаем busy set - активные записи салона на эту дату
	filter := domain.SalonAppointmentsFilter{
		SalonID:         req.SalonID,
		StartDate:       &req.Date,
		EndDate:         &req.Date,
		IncludeInactive: false,
	}

	appointments, err := uc.appointmentRepo.GetBySalonWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 8. Генерируем слоты
	slots, err := generateSlots(
		hours,
		service.DurationMinutes,
		config.SlotGranularityMinutes,
		req.Date,
		now,
		busyIntervals(appointments),
	)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for salon=%d, service=%d, date=%s",
		len(slots), req.SalonID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:      req.Date,
		SalonID:   req.SalonID,
		ServiceID: req.ServiceID,
		Slots:     slots,
	}, nil
}

func emptyResponse(req *Request) *Response {
	return &Response{
		Date:      req.Date,
		SalonID:   req.SalonID,
		ServiceID: req.ServiceID,
		Slots:     []domain.Slot{},
	}
}
