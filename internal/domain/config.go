package domain

import "time"

// SalonBookingConfig represents per-salon booking behaviour:
// the step used to enumerate candidate slots and whether client bookings
// start out confirmed instead of pending.
type SalonBookingConfig struct {
	ID                     int64
	SalonID                int64
	SlotGranularityMinutes int
	AutoConfirm            bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InitialStatus returns the status a newly created appointment starts in.
func (c *SalonBookingConfig) InitialStatus() AppointmentStatus {
	if c.AutoConfirm {
		return StatusConfirmed
	}
	return StatusPending
}

// DefaultSalonBookingConfig возвращает конфигурацию по умолчанию
// Используется, когда салон еще не настраивал бронирование
func DefaultSalonBookingConfig(salonID int64) *SalonBookingConfig {
	return &SalonBookingConfig{
		SalonID:                salonID,
		SlotGranularityMinutes: DefaultSlotGranularityMinutes,
		AutoConfirm:            false,
	}
}
