package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Interval
		overlap bool
	}{
		{
			name:    "identical intervals",
			a:       Interval{Start: "10:00", End: "11:00"},
			b:       Interval{Start: "10:00", End: "11:00"},
			overlap: true,
		},
		{
			name:    "partial overlap",
			a:       Interval{Start: "10:00", End: "11:00"},
			b:       Interval{Start: "10:30", End: "11:30"},
			overlap: true,
		},
		{
			name:    "containment",
			a:       Interval{Start: "09:00", End: "12:00"},
			b:       Interval{Start: "10:00", End: "10:30"},
			overlap: true,
		},
		{
			name:    "touching boundaries do not conflict",
			a:       Interval{Start: "10:00", End: "11:00"},
			b:       Interval{Start: "11:00", End: "12:00"},
			overlap: false,
		},
		{
			name:    "disjoint",
			a:       Interval{Start: "09:00", End: "09:30"},
			b:       Interval{Start: "14:00", End: "15:00"},
			overlap: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlap, tt.a.Overlaps(tt.b))
			// Пересечение симметрично
			assert.Equal(t, tt.overlap, tt.b.Overlaps(tt.a))
		})
	}
}
