package schedulecache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SLN-BookingService/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client, ttl), mr
}

func sampleSnapshot() *Snapshot {
	reason := "праздник"
	return &Snapshot{
		SalonID: 1,
		Days: []*domain.OpeningHours{
			{SalonID: 1, Weekday: time.Monday, OpensAt: "09:00", ClosesAt: "18:00", IsActive: true},
			{SalonID: 1, Weekday: time.Sunday, OpensAt: "00:00", ClosesAt: "00:00", IsActive: false},
		},
		ClosedDays: []*domain.ClosedDay{
			{SalonID: 1, Date: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), Reason: &reason},
		},
		Config: &domain.SalonBookingConfig{
			SalonID:                1,
			SlotGranularityMinutes: 30,
			AutoConfirm:            true,
		},
	}
}

func TestCache_SetGet(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sampleSnapshot()))

	got, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, int64(1), got.SalonID)
	require.Len(t, got.Days, 2)
	assert.Equal(t, "09:00", got.Days[0].OpensAt.String())
	assert.False(t, got.Days[1].IsActive)
	require.Len(t, got.ClosedDays, 1)
	require.NotNil(t, got.ClosedDays[0].Reason)
	assert.Equal(t, "праздник", *got.ClosedDays[0].Reason)
	require.NotNil(t, got.Config)
	assert.True(t, got.Config.AutoConfirm)
}

func TestCache_GetMiss(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)

	got, err := cache.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_Invalidate(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sampleSnapshot()))
	require.NoError(t, cache.Invalidate(ctx, 1))

	got, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Инвалидация отсутствующего ключа не ошибка
	assert.NoError(t, cache.Invalidate(ctx, 1))
}

func TestCache_TTLExpiry(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sampleSnapshot()))

	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_KeysAreScopedPerSalon(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	first := sampleSnapshot()
	second := sampleSnapshot()
	second.SalonID = 2
	second.Config.AutoConfirm = false

	require.NoError(t, cache.Set(ctx, first))
	require.NoError(t, cache.Set(ctx, second))
	require.NoError(t, cache.Invalidate(ctx, 1))

	got, err := cache.Get(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.SalonID)
	assert.False(t, got.Config.AutoConfirm)
}

func TestCache_NilClientIsNoop(t *testing.T) {
	cache := New(nil, time.Minute)
	ctx := context.Background()

	got, err := cache.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, cache.Set(ctx, sampleSnapshot()))
	assert.NoError(t, cache.Invalidate(ctx, 1))
}
