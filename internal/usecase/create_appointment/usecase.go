package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/internal/events"
	appointmentRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/schedule"
	configRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/tenantconfig"
	clientClient "github.com/m04kA/SLN-BookingService/internal/integrations/clientservice"
)

// Ограниченное число повторов для откатов SERIALIZABLE транзакций
// и транзиентных ошибок хранилища. Бизнес-ошибки не повторяются
const (
	maxAttempts  = 3
	retryBackoff = 50 * time.Millisecond
)

// UseCase use case создания записи (booking coordinator)
//
// Слоты генерируются и выбираются клиентом в разное время, поэтому
// координатор не доверяет ранее показанному списку: проверка пересечений
// выполняется заново по текущему busy set внутри одной SERIALIZABLE
// транзакции с блокировкой дня (FOR UPDATE). Из двух конкурирующих
// бронирований пересекающихся интервалов фиксируется ровно одно,
// второе получает ErrSlotNotAvailable
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalogRepo     CatalogRepository
	configRepo      ConfigRepository
	clientClient    ClientServiceClient
	txManager       TransactionManager
	publisher       EventPublisher
	bookingMetrics  BookingMetrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	configRepo ConfigRepository,
	clientClient ClientServiceClient,
	txManager TransactionManager,
	publisher EventPublisher,
	bookingMetrics BookingMetrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		catalogRepo:     catalogRepo,
		configRepo:      configRepo,
		clientClient:    clientClient,
		txManager:       txManager,
		publisher:       publisher,
		bookingMetrics:  bookingMetrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: salon=%d, client=%d, service=%d, date=%s, time=%s, origin=%s",
		req.SalonID, req.ClientID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, req.Origin)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу (вне транзакции - каталог read-mostly)
	service, err := uc.catalogRepo.GetByID(ctx, req.SalonID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found in salon id=%d", req.ServiceID, req.SalonID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsBookable() {
		uc.logger.Warn("CreateAppointment: service id=%d is not bookable", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Резолвим профиль клиента для денормализации
	// Недоступность ClientService не блокирует бронирование
	var clientName, clientPhone *string
	profile, err := uc.clientClient.GetProfileWithGracefulDegradation(ctx, req.ClientID)
	switch {
	case err == nil:
		clientName = &profile.Name
		clientPhone = &profile.Phone
	case errors.Is(err, clientClient.ErrProfileNotFound),
		errors.Is(err, clientClient.ErrServiceDegraded):
		uc.logger.Warn("CreateAppointment: booking without client profile for client=%d: %v", req.ClientID, err)
	default:
		uc.logger.Error("CreateAppointment: failed to resolve client profile: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve client profile: %v", ErrInternal, err)
	}

	// 5. Атомарный check-then-insert с ограниченными повторами
	var result *domain.Appointment
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, lastErr = uc.tryBook(ctx, req, service, now, clientName, clientPhone)
		if lastErr == nil {
			break
		}

		if !appointmentRepo.IsRetryableError(lastErr) {
			return nil, lastErr
		}

		uc.logger.Warn("CreateAppointment: attempt %d/%d failed with retryable error: %v",
			attempt, maxAttempts, lastErr)

		if attempt < maxAttempts {
			time.Sleep(retryBackoff)
		}
	}

	if lastErr != nil {
		uc.logger.Error("CreateAppointment: all %d attempts failed: %v", maxAttempts, lastErr)
		return nil, fmt.Errorf("%w: store did not accept booking after %d attempts: %v",
			ErrInternal, maxAttempts, lastErr)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d status=%s",
		result.ID, result.Status)

	if uc.bookingMetrics != nil {
		uc.bookingMetrics.RecordAppointmentCreated(string(result.Status), string(result.Origin))
	}

	// 6. Публикуем доменные события - нотификатор внешний, доставки не ждем
	uc.publisher.Publish(events.FromAppointment(events.TypeAppointmentCreated, result))
	if result.Status == domain.StatusConfirmed {
		uc.publisher.Publish(events.FromAppointment(events.TypeAppointmentConfirmed, result))
	}

	return toResponse(result), nil
}

// tryBook выполняет одну попытку бронирования в SERIALIZABLE транзакции
func (uc *UseCase) tryBook(
	ctx context.Context,
	req *Request,
	service *domain.Service,
	now time.Time,
	clientName, clientPhone *string,
) (*domain.Appointment, error) {
	var result *domain.Appointment

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Конфигурация бронирования салона
		config, err := uc.configRepo.GetBySalon(txCtx, req.SalonID)
		if err != nil {
			if !errors.Is(err, configRepo.ErrConfigNotFound) {
				return fmt.Errorf("%w: failed to get booking config: %v", ErrInternal, err)
			}
			config = domain.DefaultSalonBookingConfig(req.SalonID)
		}

		// Дата закрытия перекрывает недельное расписание
		closed, err := uc.scheduleRepo.IsClosedDay(txCtx, req.SalonID, req.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to check closed day: %v", ErrInternal, err)
		}
		if closed {
			return ErrSalonClosed
		}

		// Рабочее окно дня
		hours, err := uc.scheduleRepo.GetOpeningHours(txCtx, req.SalonID, req.Date.Weekday())
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrOpeningHoursNotFound) {
				return ErrSalonClosed
			}
			if errors.Is(err, scheduleRepo.ErrDuplicateOpeningHours) {
				return fmt.Errorf("%w: %v", ErrScheduleMisconfigured, err)
			}
			return fmt.Errorf("%w: failed to get opening hours: %v", ErrInternal, err)
		}
		if hours.IsClosed() {
			return ErrSalonClosed
		}

		// Прошедшее время не бронируется
		if err := validateNotInPast(req.Date, req.StartTime, now); err != nil {
			return err
		}

		// Конец интервала замораживается от текущей длительности услуги
		endTime, err := req.StartTime.AddMinutes(service.DurationMinutes)
		if err != nil {
			return fmt.Errorf("%w: failed to compute end time: %v", ErrInvalidInput, err)
		}

		if err := validateFitsOpeningHours(hours, req.StartTime, endTime); err != nil {
			return err
		}

		// Busy set дня с блокировкой строк (FOR UPDATE внутри транзакции)
		filter := domain.SalonAppointmentsFilter{
			SalonID:         req.SalonID,
			StartDate:       &req.Date,
			EndDate:         &req.Date,
			IncludeInactive: false,
		}

		busy, err := uc.appointmentRepo.GetBySalonWithFilter(txCtx, filter)
		if err != nil {
			return err
		}

		// Пересечение проверяем с каждым занятым интервалом
		if conflict := findOverlap(req.StartTime, endTime, busy); conflict != nil {
			uc.logger.Warn("CreateAppointment: slot [%s, %s) overlaps appointment id=%d [%s, %s)",
				req.StartTime, endTime, conflict.ID, conflict.StartTime, conflict.EndTime)
			if uc.bookingMetrics != nil {
				uc.bookingMetrics.RecordSlotConflict("overlap")
			}
			return ErrSlotNotAvailable
		}

		appt := &domain.Appointment{
			SalonID:         req.SalonID,
			ClientID:        req.ClientID,
			ServiceID:       req.ServiceID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			DurationMinutes: service.DurationMinutes,
			Status:          config.InitialStatus(),
			Origin:          req.Origin,
			// Денормализация для истории
			ServiceName:  service.Name,
			ServicePrice: service.Price,
			ClientName:   clientName,
			ClientPhone:  clientPhone,
			Notes:        req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			// Exclusion constraint поймал гонку, которую не увидел FOR UPDATE
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				if uc.bookingMetrics != nil {
					uc.bookingMetrics.RecordSlotConflict("exclusion_constraint")
				}
				return ErrSlotNotAvailable
			}
			return err
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

func toResponse(appt *domain.Appointment) *Response {
	return &Response{
		ID:              appt.ID,
		SalonID:         appt.SalonID,
		ClientID:        appt.ClientID,
		ServiceID:       appt.ServiceID,
		Date:            appt.Date,
		StartTime:       appt.StartTime,
		EndTime:         appt.EndTime,
		DurationMinutes: appt.DurationMinutes,
		Status:          string(appt.Status),
		Origin:          string(appt.Origin),
		ServiceName:     appt.ServiceName,
		ServicePrice:    appt.ServicePrice,
		ClientName:      appt.ClientName,
		ClientPhone:     appt.ClientPhone,
		Notes:           appt.Notes,
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}
}
