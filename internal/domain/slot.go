package domain

import "github.com/m04kA/SLN-BookingService/pkg/types"

// Slot represents a candidate appointment interval [start, end)
// offered to a client.
type Slot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}

// Interval represents a half-open busy interval [start, end) on one day.
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// Overlaps reports whether two half-open intervals intersect.
// [a,b) and [c,d) overlap iff a < d && c < b; touching boundaries
// (one ends exactly where the other starts) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.IsBefore(other.End) && other.Start.IsBefore(i.End)
}
