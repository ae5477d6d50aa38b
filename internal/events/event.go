package events

import (
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
)

// Типы доменных событий
// Имя топика Kafka совпадает с типом события
const (
	TypeAppointmentCreated   = "appointment.created"
	TypeAppointmentConfirmed = "appointment.confirmed"
	TypeAppointmentCancelled = "appointment.cancelled"
	TypeAppointmentCompleted = "appointment.completed"
	TypeAppointmentNoShow    = "appointment.no_show"
)

// Event доменное событие о записи
// Внешний нотификатор (рассылки клиентам и персоналу) потребляет эти события;
// ядро не ждет доставки и не зависит от неё
type Event struct {
	Type          string    `json:"type"`
	OccurredAt    time.Time `json:"occurredAt"`
	SalonID       int64     `json:"salonId"`
	AppointmentID int64     `json:"appointmentId"`
	ClientID      int64     `json:"clientId"`
	ServiceID     int64     `json:"serviceId"`
	Date          string    `json:"date"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	Status        string    `json:"status"`
}

// FromAppointment собирает событие указанного типа из записи
func FromAppointment(eventType string, appt *domain.Appointment) Event {
	return Event{
		Type:          eventType,
		OccurredAt:    time.Now().UTC(),
		SalonID:       appt.SalonID,
		AppointmentID: appt.ID,
		ClientID:      appt.ClientID,
		ServiceID:     appt.ServiceID,
		Date:          appt.Date.Format(domain.DateFormat),
		StartTime:     appt.StartTime.String(),
		EndTime:       appt.EndTime.String(),
		Status:        string(appt.Status),
	}
}

// TypeForStatus возвращает тип события для перехода в указанный статус
func TypeForStatus(status domain.AppointmentStatus) string {
	switch status {
	case domain.StatusConfirmed:
		return TypeAppointmentConfirmed
	case domain.StatusCancelled:
		return TypeAppointmentCancelled
	case domain.StatusCompleted:
		return TypeAppointmentCompleted
	case domain.StatusNoShow:
		return TypeAppointmentNoShow
	default:
		return ""
	}
}
