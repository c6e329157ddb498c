package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

var _ ucAppointment.LayoutCache = (*LayoutRedisCache)(nil)

func newTestCache(t *testing.T) (*LayoutRedisCache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewLayoutRedisCache(client, time.Minute), srv
}

func TestDayKey(t *testing.T) {
	clinicID := uuid.MustParse("7a0b5d7e-3a4b-4c39-9d0a-0b7d0c5c1f11")
	assert.Equal(t, "layout:7a0b5d7e-3a4b-4c39-9d0a-0b7d0c5c1f11:2024-03-11", DayKey(clinicID, "2024-03-11"))
	assert.Equal(t, "layoutgen:7a0b5d7e-3a4b-4c39-9d0a-0b7d0c5c1f11:2024-03-11", GenerationKey(clinicID, "2024-03-11"))
}

func TestDoctorField(t *testing.T) {
	assert.Equal(t, "all", DoctorField(uuid.Nil))

	id := uuid.New()
	assert.Equal(t, id.String(), DoctorField(id))
}

func TestLayoutRedisCache_RoundTrip(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()
	clinicID := uuid.New()

	_, ok, err := c.Get(ctx, clinicID, "2024-03-11", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, ok)

	gen, err := c.Generation(ctx, clinicID, "2024-03-11")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	layout := &dto.DayLayoutDTO{Date: "2024-03-11", Policy: "shared", HourHeight: 120}
	require.NoError(t, c.Set(ctx, clinicID, "2024-03-11", uuid.Nil, gen, layout))

	got, ok, err := c.Get(ctx, clinicID, "2024-03-11", uuid.Nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, layout.Date, got.Date)
	assert.Equal(t, 120.0, got.HourHeight)
	assert.Equal(t, time.Minute, srv.TTL(DayKey(clinicID, "2024-03-11")))
}

func TestLayoutRedisCache_InvalidateDropsDayAndBumpsGeneration(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	clinicID := uuid.New()
	doctorID := uuid.New()

	require.NoError(t, c.Set(ctx, clinicID, "2024-03-11", uuid.Nil, 0, &dto.DayLayoutDTO{Date: "2024-03-11"}))
	require.NoError(t, c.Set(ctx, clinicID, "2024-03-11", doctorID, 0, &dto.DayLayoutDTO{Date: "2024-03-11"}))
	require.NoError(t, c.Set(ctx, clinicID, "2024-03-12", uuid.Nil, 0, &dto.DayLayoutDTO{Date: "2024-03-12"}))

	require.NoError(t, c.Invalidate(ctx, clinicID, "2024-03-11"))

	_, ok, err := c.Get(ctx, clinicID, "2024-03-11", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, clinicID, "2024-03-11", doctorID)
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, clinicID, "2024-03-12", uuid.Nil)
	assert.True(t, ok, "other days stay cached")

	gen, err := c.Generation(ctx, clinicID, "2024-03-11")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	require.NoError(t, c.Invalidate(ctx, clinicID))
}

func TestLayoutRedisCache_StaleFillIsDropped(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	clinicID := uuid.New()

	// A reader takes the generation and loads rows...
	gen, err := c.Generation(ctx, clinicID, "2024-03-11")
	require.NoError(t, err)

	// ...a write lands and invalidates the day...
	require.NoError(t, c.Invalidate(ctx, clinicID, "2024-03-11"))

	// ...and the reader's fill, built from pre-write rows, must not stick.
	require.NoError(t, c.Set(ctx, clinicID, "2024-03-11", uuid.Nil, gen, &dto.DayLayoutDTO{Date: "stale"}))

	_, ok, err := c.Get(ctx, clinicID, "2024-03-11", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, ok)

	fresh, err := c.Generation(ctx, clinicID, "2024-03-11")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, clinicID, "2024-03-11", uuid.Nil, fresh, &dto.DayLayoutDTO{Date: "2024-03-11"}))

	got, ok, err := c.Get(ctx, clinicID, "2024-03-11", uuid.Nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2024-03-11", got.Date)
}
