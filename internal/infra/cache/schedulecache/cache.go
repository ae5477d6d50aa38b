package schedulecache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SLN-BookingService/internal/domain"
)

// Snapshot кэшируемое представление календарных правил салона
// Собирается settings-сервисом из расписания, дат закрытия и конфигурации
type Snapshot struct {
	SalonID    int64                      `json:"salonId"`
	Days       []*domain.OpeningHours     `json:"days"`
	ClosedDays []*domain.ClosedDay        `json:"closedDays"`
	Config     *domain.SalonBookingConfig `json:"config"`
}

// Cache кэш календарных правил в Redis
// Правила меняются редко (правки настроек), а читаются на каждый запрос
// слотов, поэтому settings-ручки ходят через кэш с TTL и явной инвалидацией
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New создает кэш календарных правил
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get возвращает снапшот правил салона или nil при промахе кэша
func (c *Cache) Get(ctx context.Context, salonID int64) (*Snapshot, error) {
	if c.client == nil {
		return nil, nil
	}

	val, err := c.client.Get(ctx, key(salonID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("schedulecache: get: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, fmt.Errorf("schedulecache: unmarshal: %w", err)
	}

	return &snap, nil
}

// Set сохраняет снапшот правил салона с TTL
func (c *Cache) Set(ctx context.Context, snap *Snapshot) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("schedulecache: marshal: %w", err)
	}

	if err := c.client.Set(ctx, key(snap.SalonID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("schedulecache: set: %w", err)
	}

	return nil
}

// Invalidate удаляет снапшот салона
// Вызывается после любой правки расписания, дат закрытия или конфигурации
func (c *Cache) Invalidate(ctx context.Context, salonID int64) error {
	if c.client == nil {
		return nil
	}

	if err := c.client.Del(ctx, key(salonID)).Err(); err != nil {
		return fmt.Errorf("schedulecache: invalidate: %w", err)
	}

	return nil
}

func key(salonID int64) string {
	return fmt.Sprintf("salon_schedule:%d", salonID)
}
