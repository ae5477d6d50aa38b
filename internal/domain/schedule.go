package domain

import (
	"time"

	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// OpeningHours describes when a salon is open on one weekday.
// At most one row exists per (salon, weekday); duplicates are a
// configuration error surfaced by the schedule store.
type OpeningHours struct {
	ID       int64
	SalonID  int64
	Weekday  time.Weekday // 0 = Sunday ... 6 = Saturday
	OpensAt  types.TimeString
	ClosesAt types.TimeString
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsClosed returns true if the salon does not open on this weekday.
// An inactive row or a zero-length "00:00"-"00:00" window both mean closed.
func (h *OpeningHours) IsClosed() bool {
	if !h.IsActive {
		return true
	}
	return h.OpensAt.Equal(h.ClosesAt)
}

// ClosedDay marks one calendar date as fully closed, overriding the
// weekday opening hours for that date. Unique per (salon, date).
type ClosedDay struct {
	ID      int64
	SalonID int64
	Date    time.Time
	Reason  *string

	CreatedAt time.Time
}

// WeekSchedule собирает расписание салона на неделю для settings-ручек
type WeekSchedule struct {
	SalonID    int64
	Days       []*OpeningHours
	ClosedDays []*ClosedDay
}
