package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/internal/events"
	appointmentRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/appointment"
	"github.com/m04kA/SLN-BookingService/internal/service/appointments/models"
)

// Service сервис жизненного цикла записей после их создания:
// просмотр, история, отмена и staff-переходы статусов
type Service struct {
	appointmentRepo AppointmentRepository
	publisher       EventPublisher
	metrics         LifecycleMetrics
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	publisher EventPublisher,
	metrics LifecycleMetrics,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		publisher:       publisher,
		metrics:         metrics,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Клиент видит только свою запись, staff - любую
func (s *Service) GetByID(ctx context.Context, id int64, caller models.Caller) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, caller.UserID)

	appt, err := s.fetch(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !caller.IsStaff && appt.ClientID != caller.UserID {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", caller.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appt), nil
}

// GetClientAppointments получает историю записей клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientAppointments(ctx context.Context, req *models.GetClientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetClientAppointments: fetching appointments for client=%d, status=%v", req.ClientID, req.Status)

	// Чужую историю видит только staff
	if !req.Caller.IsStaff && req.Caller.UserID != req.ClientID {
		s.logger.Warn("GetClientAppointments: access denied for user=%d to client=%d history", req.Caller.UserID, req.ClientID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientAppointments: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appts, err := s.appointmentRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientAppointments: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientAppointments: successfully fetched %d appointments for client=%d", len(appts), req.ClientID)
	return models.FromDomainAppointmentList(appts), nil
}

// GetSalonAppointments получает записи салона с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению неактивных записей
// Доступно только staff
func (s *Service) GetSalonAppointments(ctx context.Context, req *models.GetSalonAppointmentsRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("GetSalonAppointments: fetching appointments for salon=%d, user=%d", req.SalonID, req.Caller.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if !req.Caller.IsStaff {
		s.logger.Warn("GetSalonAppointments: access denied for user=%d to salon=%d", req.Caller.UserID, req.SalonID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetSalonAppointments: invalid filter for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appts, err := s.appointmentRepo.GetBySalonWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetSalonAppointments: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: GetSalonAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSalonAppointments: successfully fetched %d appointments for salon=%d", len(appts), req.SalonID)
	return models.FromDomainAppointmentList(appts), nil
}

// Cancel отменяет запись
// Клиент может отменить только свою запись, staff - любую
// Отмена снимает интервал с busy set: статус cancelled не учитывается
// генератором слотов
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", id, req.Caller.UserID)

	appt, err := s.fetch(ctx, "Cancel", id)
	if err != nil {
		return err
	}

	if !req.Caller.IsStaff && appt.ClientID != req.Caller.UserID {
		s.logger.Warn("Cancel: access denied for user=%d to cancel appointment id=%d", req.Caller.UserID, id)
		return ErrAccessDenied
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appt.Status)
		return ErrCannotCancel
	}

	if err := s.appointmentRepo.Cancel(ctx, id, req.CancellationReason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)

	s.recordTransition(appt.Status, domain.StatusCancelled)
	appt.Status = domain.StatusCancelled
	s.publisher.Publish(events.FromAppointment(events.TypeAppointmentCancelled, appt))

	return nil
}

// UpdateStatus переводит запись в новый статус через машину состояний
// Доступно только staff
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d",
		id, req.Status, req.Caller.UserID)

	if !req.Caller.IsStaff {
		s.logger.Warn("UpdateStatus: access denied for user=%d to appointment id=%d", req.Caller.UserID, id)
		return ErrAccessDenied
	}

	appt, err := s.fetch(ctx, "UpdateStatus", id)
	if err != nil {
		return err
	}

	requested, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	newStatus, err := domain.Transition(appt.Status, requested)
	if err != nil {
		s.logger.Warn("UpdateStatus: transition %s -> %s rejected for appointment id=%d",
			appt.Status, requested, id)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, requested)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found during update", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", id, newStatus)

	s.recordTransition(appt.Status, newStatus)
	appt.Status = newStatus
	if eventType := events.TypeForStatus(newStatus); eventType != "" {
		s.publisher.Publish(events.FromAppointment(eventType, appt))
	}

	return nil
}

// Вспомогательные методы

func (s *Service) fetch(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

func (s *Service) recordTransition(from, to domain.AppointmentStatus) {
	if s.metrics != nil {
		s.metrics.RecordStatusTransition(string(from), string(to))
	}
}
