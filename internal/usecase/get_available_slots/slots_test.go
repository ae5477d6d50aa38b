package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

func workingDay(opens, closes types.TimeString) *domain.OpeningHours {
	return &domain.OpeningHours{
		SalonID:  1,
		Weekday:  time.Monday,
		OpensAt:  opens,
		ClosesAt: closes,
		IsActive: true,
	}
}

func startTimes(slots []domain.Slot) []string {
	starts := make([]string, len(slots))
	for i, s := range slots {
		starts[i] = s.StartTime.String()
	}
	return starts
}

func TestGenerateSlots_FullDay(t *testing.T) {
	// Понедельник 09:00-18:00, услуга 60 минут, шаг 30 минут:
	// кандидаты 09:00..17:00, последний слот [17:00, 18:00)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // понедельник
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	slots, err := generateSlots(workingDay("09:00", "18:00"), 60, 30, date, now, nil)
	require.NoError(t, err)

	require.Len(t, slots, 17)
	assert.Equal(t, "09:00", slots[0].StartTime.String())
	assert.Equal(t, "10:00", slots[0].EndTime.String())
	assert.Equal(t, 60, slots[0].DurationMinutes)
	assert.Equal(t, "17:00", slots[16].StartTime.String())
	assert.Equal(t, "18:00", slots[16].EndTime.String())
}

func TestGenerateSlots_BusyIntervalExcludesOverlaps(t *testing.T) {
	// Занято [10:00, 11:00): выпадают кандидаты 09:30, 10:00 и 10:30,
	// а 09:00 (конец ровно в 10:00) и 11:00 (начало ровно в 11:00) остаются
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	busy := []domain.Interval{{Start: "10:00", End: "11:00"}}

	slots, err := generateSlots(workingDay("09:00", "18:00"), 60, 30, date, now, busy)
	require.NoError(t, err)

	starts := startTimes(slots)
	assert.Contains(t, starts, "09:00")
	assert.Contains(t, starts, "11:00")
	assert.NotContains(t, starts, "09:30")
	assert.NotContains(t, starts, "10:00")
	assert.NotContains(t, starts, "10:30")
	assert.Len(t, slots, 14)
}

func TestGenerateSlots_MultipleBusyIntervals(t *testing.T) {
	// Кандидат сверяется с каждым занятым интервалом, не только с первым
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	busy := []domain.Interval{
		{Start: "09:00", End: "10:00"},
		{Start: "12:00", End: "13:30"},
		{Start: "16:00", End: "17:00"},
	}

	slots, err := generateSlots(workingDay("09:00", "18:00"), 60, 30, date, now, busy)
	require.NoError(t, err)

	for _, slot := range slots {
		candidate := domain.Interval{Start: slot.StartTime, End: slot.EndTime}
		for _, b := range busy {
			assert.False(t, candidate.Overlaps(b),
				"slot [%s, %s) overlaps busy [%s, %s)", slot.StartTime, slot.EndTime, b.Start, b.End)
		}
	}

	starts := startTimes(slots)
	assert.Contains(t, starts, "10:00")
	assert.Contains(t, starts, "13:30")
	assert.Contains(t, starts, "17:00")
	assert.NotContains(t, starts, "11:30")
	assert.NotContains(t, starts, "15:30")
}

func TestGenerateSlots_ServiceLongerThanRemainingWindow(t *testing.T) {
	// Услуга 120 минут в окне 09:00-10:00 не помещается ни разу
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	slots, err := generateSlots(workingDay("09:00", "10:00"), 120, 30, date, now, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_GranularityDoesNotDivideWindow(t *testing.T) {
	// Окно 09:00-10:10, услуга 30, шаг 45: кандидаты 09:00 и 09:45
	// (09:45+30=10:15 не помещается), сетка не обязана делить окно нацело
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	slots, err := generateSlots(workingDay("09:00", "10:10"), 30, 45, date, now, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00"}, startTimes(slots))
}

func TestGenerateSlots_ClosedDay(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("inactive weekday", func(t *testing.T) {
		hours := workingDay("09:00", "18:00")
		hours.IsActive = false

		slots, err := generateSlots(hours, 60, 30, date, now, nil)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("zero length window", func(t *testing.T) {
		slots, err := generateSlots(workingDay("00:00", "00:00"), 60, 30, date, now, nil)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("nil hours", func(t *testing.T) {
		slots, err := generateSlots(nil, 60, 30, date, now, nil)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})
}

func TestGenerateSlots_PastDateIsEmpty(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)

	slots, err := generateSlots(workingDay("09:00", "18:00"), 60, 30, date, now, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_TodayFiltersPastStartTimes(t *testing.T) {
	// Сегодня 11:20: слоты с началом раньше 11:20 не предлагаются
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 2, 11, 20, 0, 0, time.UTC)

	slots, err := generateSlots(workingDay("09:00", "18:00"), 60, 30, date, now, nil)
	require.NoError(t, err)

	require.NotEmpty(t, slots)
	assert.Equal(t, "11:30", slots[0].StartTime.String())
	for _, slot := range slots {
		assert.False(t, slot.StartTime.IsBefore("11:20"),
			"slot %s starts in the past", slot.StartTime)
	}
}

func TestGenerateSlots_EndOfDayBoundary(t *testing.T) {
	// Окно до "24:00": последний слот заканчивается ровно в конце дня
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	slots, err := generateSlots(workingDay("22:00", "24:00"), 60, 60, date, now, nil)
	require.NoError(t, err)

	require.Len(t, slots, 2)
	assert.Equal(t, "23:00", slots[1].StartTime.String())
	assert.Equal(t, "24:00", slots[1].EndTime.String())
}

func TestBusyIntervals_SkipsInactiveAndKeepsFrozenEnd(t *testing.T) {
	appts := []*domain.Appointment{
		{Status: domain.StatusConfirmed, StartTime: "10:00", EndTime: "11:00"},
		{Status: domain.StatusPending, StartTime: "12:00", EndTime: "12:45"},
		{Status: domain.StatusCancelled, StartTime: "14:00", EndTime: "15:00"},
		{Status: domain.StatusCompleted, StartTime: "16:00", EndTime: "17:00"},
	}

	intervals := busyIntervals(appts)

	// Отмененные и завершенные записи не занимают интервал
	require.Len(t, intervals, 2)
	assert.Equal(t, domain.Interval{Start: "10:00", End: "11:00"}, intervals[0])
	// Конец интервала берется из записи, а не из текущей длительности услуги
	assert.Equal(t, domain.Interval{Start: "12:00", End: "12:45"}, intervals[1])
}
