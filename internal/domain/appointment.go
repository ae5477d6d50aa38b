package domain

import (
	"time"

	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no_show"
)

// AppointmentOrigin indicates who entered the appointment
type AppointmentOrigin string

const (
	OriginClient AppointmentOrigin = "client" // client self-service booking
	OriginStaff  AppointmentOrigin = "staff"  // entered by salon staff
)

// Appointment represents a booked time interval in a salon's day.
// EndTime is frozen at creation (start + service duration at that moment);
// later edits to the service duration never move existing appointments.
type Appointment struct {
	ID              int64
	SalonID         int64
	ClientID        int64
	ServiceID       int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          AppointmentStatus
	Origin          AppointmentOrigin

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64
	ClientName   *string
	ClientPhone  *string
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies its interval,
// i.e. it counts toward the busy set used by slot generation.
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsTerminal returns true if the appointment reached a final status.
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted || a.Status == StatusNoShow
}

// CanBeCancelled returns true if the appointment can still be cancelled.
func (a *Appointment) CanBeCancelled() bool {
	return CanTransition(a.Status, StatusCancelled)
}

// SalonAppointmentsFilter фильтр для выборки записей салона
type SalonAppointmentsFilter struct {
	SalonID         int64              // Обязательный параметр
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отмененные/завершенные записи
}
