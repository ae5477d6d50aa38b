package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "valid morning", input: "09:00", want: "09:00"},
		{name: "valid midnight", input: "00:00", want: "00:00"},
		{name: "valid end of day", input: "24:00", want: "24:00"},
		{name: "last minute", input: "23:59", want: "23:59"},
		{name: "past end of day", input: "24:01", wantErr: true},
		{name: "bad hour", input: "25:00", wantErr: true},
		{name: "bad minute", input: "10:60", wantErr: true},
		{name: "missing leading zero", input: "9:00", wantErr: true},
		{name: "with seconds", input: "09:00:00", wantErr: true},
		{name: "garbage", input: "half past", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	tests := []struct {
		name    string
		start   TimeString
		delta   int
		want    TimeString
		wantErr bool
	}{
		{name: "simple shift", start: "09:00", delta: 60, want: "10:00"},
		{name: "cross hour", start: "09:45", delta: 30, want: "10:15"},
		{name: "to end of day", start: "23:00", delta: 60, want: "24:00"},
		{name: "past midnight", start: "23:30", delta: 45, wantErr: true},
		{name: "negative within day", start: "10:00", delta: -30, want: "09:30"},
		{name: "negative below zero", start: "00:10", delta: -20, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.start.AddMinutes(tt.delta)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Comparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:01"))
	assert.False(t, TimeString("09:01").IsBefore("09:00"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))

	assert.True(t, TimeString("18:00").IsAfter("09:00"))
	assert.False(t, TimeString("09:00").IsAfter("18:00"))

	assert.True(t, TimeString("10:30").Equal("10:30"))
	assert.False(t, TimeString("10:30").Equal("10:31"))

	// "24:00" сравнивается как верхняя граница дня
	assert.True(t, TimeString("23:59").IsBefore("24:00"))
}

func TestNewTimeString(t *testing.T) {
	moment := time.Date(2026, 3, 2, 14, 7, 59, 0, time.UTC)
	assert.Equal(t, TimeString("14:07"), NewTimeString(moment))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// time.Time из драйвера
	require.NoError(t, ts.Scan(time.Date(2000, 1, 1, 9, 30, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("09:30"), ts)

	// Строка с секундами из Postgres TIME
	require.NoError(t, ts.Scan("18:45:00"))
	assert.Equal(t, TimeString("18:45"), ts)

	// Байты
	require.NoError(t, ts.Scan([]byte("07:15:00")))
	assert.Equal(t, TimeString("07:15"), ts)

	// NULL
	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	// Неожиданный тип
	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00", v)

	_, err = TimeString("not a time").Value()
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}
