package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
)

const (
	allDoctorsField = "all"
	generationTTL   = 24 * time.Hour
)

// LayoutRedisCache stores computed day layouts in one hash per clinic day so
// a write to that day drops every doctor filter at once. A counter per day
// is bumped on every invalidation; fills carrying an older counter are
// discarded.
type LayoutRedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewLayoutRedisCache(client *redis.Client, ttl time.Duration) *LayoutRedisCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &LayoutRedisCache{client: client, ttl: ttl}
}

func DayKey(clinicID uuid.UUID, day string) string {
	return fmt.Sprintf("layout:%s:%s", clinicID, day)
}

func GenerationKey(clinicID uuid.UUID, day string) string {
	return fmt.Sprintf("layoutgen:%s:%s", clinicID, day)
}

func DoctorField(doctorID uuid.UUID) string {
	if doctorID == uuid.Nil {
		return allDoctorsField
	}
	return doctorID.String()
}

func (c *LayoutRedisCache) Get(
	ctx context.Context,
	clinicID uuid.UUID,
	day string,
	doctorID uuid.UUID,
) (*dto.DayLayoutDTO, bool, error) {

	raw, err := c.client.HGet(ctx, DayKey(clinicID, day), DoctorField(doctorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var layout dto.DayLayoutDTO
	if err := json.Unmarshal(raw, &layout); err != nil {
		return nil, false, err
	}
	return &layout, true, nil
}

func (c *LayoutRedisCache) Generation(
	ctx context.Context,
	clinicID uuid.UUID,
	day string,
) (int64, error) {

	gen, err := c.client.Get(ctx, GenerationKey(clinicID, day)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set writes layout under WATCH of the day's counter. A stale generation,
// or a counter bumped mid-transaction, silently skips the write.
func (c *LayoutRedisCache) Set(
	ctx context.Context,
	clinicID uuid.UUID,
	day string,
	doctorID uuid.UUID,
	generation int64,
	layout *dto.DayLayoutDTO,
) error {

	raw, err := json.Marshal(layout)
	if err != nil {
		return err
	}

	key := DayKey(clinicID, day)
	genKey := GenerationKey(clinicID, day)

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, DoctorField(doctorID), raw)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, genKey)

	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *LayoutRedisCache) Invalidate(
	ctx context.Context,
	clinicID uuid.UUID,
	days ...string,
) error {

	if len(days) == 0 {
		return nil
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, day := range days {
			genKey := GenerationKey(clinicID, day)
			pipe.Incr(ctx, genKey)
			pipe.Expire(ctx, genKey, generationTTL)
			pipe.Del(ctx, DayKey(clinicID, day))
		}
		return nil
	})
	return err
}
