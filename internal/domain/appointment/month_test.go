package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func TestNewMonthGrid(t *testing.T) {
	g := NewMonthGrid(2024, time.March, time.Sunday, time.UTC)

	assert.Equal(t, time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC), g.First())
	assert.Equal(t, time.Date(2024, 4, 7, 0, 0, 0, 0, time.UTC), g.End())
	assert.Len(t, g.Days, MonthGridDays)
	for i, d := range g.Days {
		if i%7 == 0 {
			assert.Equal(t, time.Sunday, d.Weekday())
		}
	}
	assert.False(t, g.InMonth(g.First()))
	assert.True(t, g.InMonth(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)))
}

func TestNewMonthGrid_MonthStartingOnWeekStart(t *testing.T) {
	g := NewMonthGrid(2024, time.September, time.Sunday, time.UTC)
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), g.First())

	monday := NewMonthGrid(2024, time.September, time.Monday, time.UTC)
	assert.Equal(t, time.Date(2024, 8, 26, 0, 0, 0, 0, time.UTC), monday.First())
}

func TestBucketByDay(t *testing.T) {
	g := NewMonthGrid(2024, time.March, time.Sunday, time.UTC)
	first := appt(drOrtega, clock(14, 0), clock(15, 0))
	second := appt(drOrtega, clock(9, 0), clock(10, 0))
	trailing := appt(drOrtega, time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC), time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC))
	outside := appt(drOrtega, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	buckets := BucketByDay([]models.Appointment{first, second, trailing, outside}, g)

	assert.Len(t, buckets, MonthGridDays)
	require.Len(t, buckets["2024-03-11"], 2)
	assert.Equal(t, first.ID, buckets["2024-03-11"][0].ID, "source order is kept")
	assert.Len(t, buckets["2024-04-02"], 1)
	assert.NotContains(t, buckets, "2024-05-01")
	assert.NotNil(t, buckets["2024-03-12"])
	assert.Empty(t, buckets["2024-03-12"])
}

func TestSummarize_CapsAndOverflow(t *testing.T) {
	g := NewMonthGrid(2024, time.March, time.Sunday, time.UTC)
	var day []models.Appointment
	for h := 8; h < 13; h++ {
		day = append(day, appt(drOrtega, clock(h, 0), clock(h+1, 0)))
	}

	cells := Summarize(g, day, 0, OrderInsertion)

	require.Len(t, cells, MonthGridDays)
	var cell DayCell
	for _, c := range cells {
		if c.Date.Day() == 11 && c.Date.Month() == time.March {
			cell = c
		}
	}
	assert.True(t, cell.InMonth)
	assert.Equal(t, 5, cell.Total)
	assert.Len(t, cell.Visible, DefaultMonthCellLimit)
	assert.Equal(t, 1, cell.Overflow)
	assert.Equal(t, "+1 more", cell.OverflowLabel())
	assert.Equal(t, day[0].ID, cell.Visible[0].ID)

	assert.Equal(t, "", cells[0].OverflowLabel())
	assert.Empty(t, cells[0].Visible)
}

func TestSummarize_ChronologicalOrder(t *testing.T) {
	g := NewMonthGrid(2024, time.March, time.Sunday, time.UTC)
	late := appt(drOrtega, clock(15, 0), clock(16, 0))
	early := appt(drOrtega, clock(8, 0), clock(9, 0))
	mid := appt(drLindqvist, clock(11, 0), clock(12, 0))

	in := []models.Appointment{late, early, mid}
	byInsertion := Summarize(g, in, 2, OrderInsertion)
	byStart := Summarize(g, in, 2, OrderChronological)

	idx := 15 // 2024-03-11 is the 16th cell of a page starting 2024-02-25
	require.Equal(t, 11, byStart[idx].Date.Day())

	assert.Equal(t, late.ID, byInsertion[idx].Visible[0].ID)
	assert.Equal(t, early.ID, byStart[idx].Visible[0].ID)
	assert.Equal(t, mid.ID, byStart[idx].Visible[1].ID)
	assert.Equal(t, 1, byStart[idx].Overflow)
	assert.Equal(t, late.ID, in[0].ID, "caller slice is not reordered")
}

func TestParseMonthOrder(t *testing.T) {
	o, err := ParseMonthOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderInsertion, o)

	o, err = ParseMonthOrder("chronological")
	require.NoError(t, err)
	assert.Equal(t, OrderChronological, o)

	_, err = ParseMonthOrder("alphabetical")
	assert.Error(t, err)
}
