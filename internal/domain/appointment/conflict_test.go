package appointment

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func TestHasConflict_Scenario(t *testing.T) {
	existing := []models.Appointment{appt(drOrtega, clock(9, 0), clock(10, 0))}

	assert.True(t, HasConflict(Interval{clock(9, 30), clock(10, 15)}, drOrtega, existing, uuid.Nil))
	assert.False(t, HasConflict(Interval{clock(10, 0), clock(10, 30)}, drOrtega, existing, uuid.Nil), "touching ends do not overlap")
	assert.False(t, HasConflict(Interval{clock(8, 0), clock(9, 0)}, drOrtega, existing, uuid.Nil))
	assert.True(t, HasConflict(Interval{clock(8, 0), clock(11, 0)}, drOrtega, existing, uuid.Nil), "containing interval")
	assert.True(t, HasConflict(Interval{clock(9, 15), clock(9, 45)}, drOrtega, existing, uuid.Nil), "contained interval")
}

func TestHasConflict_Filters(t *testing.T) {
	self := appt(drOrtega, clock(9, 0), clock(10, 0))
	cancelled := withStatus(appt(drOrtega, clock(11, 0), clock(12, 0)), StatusCancelled)
	completed := withStatus(appt(drOrtega, clock(13, 0), clock(14, 0)), StatusCompleted)
	other := appt(drLindqvist, clock(15, 0), clock(16, 0))
	existing := []models.Appointment{self, cancelled, completed, other}

	assert.False(t, HasConflict(Interval{clock(9, 0), clock(10, 0)}, drOrtega, existing, self.ID), "edited appointment skips itself")
	assert.True(t, HasConflict(Interval{clock(9, 0), clock(10, 0)}, drOrtega, existing, uuid.Nil))
	assert.False(t, HasConflict(Interval{clock(11, 0), clock(12, 0)}, drOrtega, existing, uuid.Nil), "cancelled never blocks")
	assert.True(t, HasConflict(Interval{clock(13, 0), clock(14, 0)}, drOrtega, existing, uuid.Nil), "completed still blocks")
	assert.False(t, HasConflict(Interval{clock(15, 0), clock(16, 0)}, drOrtega, existing, uuid.Nil), "other resource")
	assert.False(t, HasConflict(Interval{clock(9, 0), clock(10, 0)}, drOrtega, nil, uuid.Nil))
}

func TestFindConflict_ReturnsFirstInListOrder(t *testing.T) {
	a := appt(drOrtega, clock(10, 0), clock(11, 0))
	b := appt(drOrtega, clock(9, 0), clock(10, 30))

	hit, ok := FindConflict(Interval{clock(9, 30), clock(10, 30)}, drOrtega, []models.Appointment{a, b}, uuid.Nil)
	require.True(t, ok)
	assert.Equal(t, a.ID, hit.ID)
}

func TestHasConflict_Symmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	randomInterval := func() Interval {
		start := clock(0, 0).Add(time.Duration(rng.Intn(96)) * 15 * time.Minute)
		return Interval{Start: start, End: start.Add(time.Duration(1+rng.Intn(8)) * 15 * time.Minute)}
	}

	for i := 0; i < 500; i++ {
		x, y := randomInterval(), randomInterval()
		apX := appt(drOrtega, x.Start, x.End)
		apY := appt(drOrtega, y.Start, y.End)

		xy := HasConflict(x, drOrtega, []models.Appointment{apY}, uuid.Nil)
		yx := HasConflict(y, drOrtega, []models.Appointment{apX}, uuid.Nil)
		require.Equal(t, xy, yx, "x=%v y=%v", x, y)
		require.Equal(t, x.Overlaps(y), xy)
	}
}

func TestInterval(t *testing.T) {
	iv := Interval{clock(9, 0), clock(10, 0)}

	assert.Equal(t, time.Hour, iv.Duration())
	assert.Equal(t, Interval{clock(9, 45), clock(10, 45)}, iv.Shift(45*time.Minute))
	assert.True(t, iv.Equal(Interval{clock(9, 0), clock(10, 0)}))
	assert.NoError(t, iv.Validate())
	assert.Error(t, Interval{clock(10, 0), clock(10, 0)}.Validate())
	assert.Error(t, Interval{clock(10, 0), clock(9, 0)}.Validate())
}
