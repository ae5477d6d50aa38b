package domain

import "time"

// Service represents a bookable salon service.
// DurationMinutes feeds slot generation; changing it later does not move
// appointments that were booked against the old duration.
type Service struct {
	ID              int64
	SalonID         int64
	Name            string
	Description     *string
	DurationMinutes int
	Price           float64
	IsActive        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBookable returns true if the service can be offered to clients.
func (s *Service) IsBookable() bool {
	return s.IsActive && s.DurationMinutes > 0
}
