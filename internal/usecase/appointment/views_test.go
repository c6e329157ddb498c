package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

func TestDayLayout_ThreeWayOverlap(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, f.doctor, day(9, 0), day(10, 0), "")
	b := f.add(t, f.doctor, day(9, 30), day(10, 30), "")
	c := f.add(t, f.doctor, day(10, 0), day(11, 0), "")

	uc := NewDayLayout(f.repo, nil, f.settings)
	layout, err := uc.Execute(context.Background(), f.clinic.ID, uuid.Nil, day(12, 0))
	require.NoError(t, err)

	assert.Equal(t, "2024-03-11", layout.Date)
	assert.Equal(t, 2880.0, layout.GridHeight)
	require.Len(t, layout.Blocks, 3)

	byID := map[uuid.UUID]dto.BlockDTO{}
	for _, blk := range layout.Blocks {
		byID[blk.ID] = blk
	}

	assert.Equal(t, 2, byID[a.ID].Columns)
	assert.Equal(t, 0.0, byID[a.ID].Left)
	assert.Equal(t, 50.0, byID[a.ID].Width)
	assert.Equal(t, 50.0, byID[b.ID].Left)
	assert.Equal(t, 0.0, byID[c.ID].Left)

	assert.Equal(t, 1080.0, byID[a.ID].Top)
	assert.Equal(t, 120.0, byID[a.ID].Height)
	assert.Equal(t, "Dr. Ortega", byID[a.ID].DoctorName)
}

func TestDayLayout_DimsTerminalAndKeepsThemInLayout(t *testing.T) {
	f := newFixture(t)
	live := f.add(t, f.doctor, day(9, 0), day(10, 0), "")
	gone := f.add(t, f.doctor, day(9, 0), day(10, 0), string(domain.StatusCancelled))

	layout, err := NewDayLayout(f.repo, nil, f.settings).
		Execute(context.Background(), f.clinic.ID, f.doctor.ID, day(0, 0))
	require.NoError(t, err)
	require.Len(t, layout.Blocks, 2)

	assert.Equal(t, live.ID, layout.Blocks[0].ID)
	assert.False(t, layout.Blocks[0].Dimmed)
	assert.Equal(t, gone.ID, layout.Blocks[1].ID)
	assert.True(t, layout.Blocks[1].Dimmed)
	assert.Equal(t, 2, layout.Blocks[1].Columns)
}

func TestDayLayout_PerResourcePolicy(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.doctor, day(9, 0), day(10, 0), "")
	f.add(t, f.other, day(9, 0), day(10, 0), "")

	f.settings.Policy = domain.PolicyPerResource
	layout, err := NewDayLayout(f.repo, nil, f.settings).
		Execute(context.Background(), f.clinic.ID, uuid.Nil, day(0, 0))
	require.NoError(t, err)

	for _, blk := range layout.Blocks {
		assert.Equal(t, 1, blk.Columns)
		assert.Equal(t, 100.0, blk.Width)
	}
	assert.Equal(t, "per_resource", layout.Policy)
}

func TestDayLayout_UsesCache(t *testing.T) {
	f := newFixture(t)
	cached := &dto.DayLayoutDTO{Date: "2024-03-11", Policy: "shared"}

	cache := &mockCache{}
	cache.On("Get", mock.Anything, f.clinic.ID, "2024-03-11", uuid.Nil).Return(cached, true, nil).Once()

	got, err := NewDayLayout(f.repo, cache, f.settings).
		Execute(context.Background(), f.clinic.ID, uuid.Nil, day(15, 0))
	require.NoError(t, err)
	assert.Same(t, cached, got)
	cache.AssertExpectations(t)
}

func TestDayLayout_FillsCacheOnMiss(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.doctor, day(9, 0), day(10, 0), "")

	cache := &mockCache{}
	cache.On("Get", mock.Anything, f.clinic.ID, "2024-03-11", f.doctor.ID).Return(nil, false, nil).Once()
	cache.On("Generation", mock.Anything, f.clinic.ID, "2024-03-11").Return(int64(7), nil).Once()
	cache.On("Set", mock.Anything, f.clinic.ID, "2024-03-11", f.doctor.ID, int64(7), mock.MatchedBy(func(l *dto.DayLayoutDTO) bool {
		return len(l.Blocks) == 1
	})).Return(nil).Once()

	_, err := NewDayLayout(f.repo, cache, f.settings).
		Execute(context.Background(), f.clinic.ID, f.doctor.ID, day(9, 0))
	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestDayLayout_SkipsFillWithoutGeneration(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.doctor, day(9, 0), day(10, 0), "")

	cache := &mockCache{}
	cache.On("Get", mock.Anything, f.clinic.ID, "2024-03-11", uuid.Nil).Return(nil, false, nil).Once()
	cache.On("Generation", mock.Anything, f.clinic.ID, "2024-03-11").Return(int64(0), errors.New("connection refused")).Once()

	layout, err := NewDayLayout(f.repo, cache, f.settings).
		Execute(context.Background(), f.clinic.ID, uuid.Nil, day(9, 0))
	require.NoError(t, err)
	assert.Len(t, layout.Blocks, 1)
	cache.AssertExpectations(t)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWeekLayout_StartsOnConfiguredWeekday(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.doctor, day(9, 0), day(10, 0), "")
	f.add(t, f.doctor, day(9, 0).AddDate(0, 0, -1), day(10, 0).AddDate(0, 0, -1), "")

	week, err := NewWeekLayout(f.repo, f.settings).
		Execute(context.Background(), f.clinic.ID, uuid.Nil, day(12, 0))
	require.NoError(t, err)

	assert.Equal(t, "2024-03-10", week.Start)
	assert.Equal(t, "2024-03-16", week.End)
	require.Len(t, week.Days, 7)
	assert.Len(t, week.Days[0].Blocks, 1)
	assert.Len(t, week.Days[1].Blocks, 1)
	assert.Empty(t, week.Days[2].Blocks)

	f.settings.WeekStart = time.Monday
	week, err = NewWeekLayout(f.repo, f.settings).
		Execute(context.Background(), f.clinic.ID, uuid.Nil, day(12, 0))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", week.Start)
}

func TestMonthView_CapsCellsAndCountsOverflow(t *testing.T) {
	f := newFixture(t)
	for h := 8; h < 14; h++ {
		f.add(t, f.doctor, day(h, 0), day(h, 30), "")
	}

	month, err := NewMonthView(f.repo, f.settings).
		Execute(context.Background(), f.clinic.ID, uuid.Nil, 2024, 3)
	require.NoError(t, err)

	require.Len(t, month.Cells, domain.MonthGridDays)
	assert.Equal(t, "2024-02-25", month.Cells[0].Date)
	assert.False(t, month.Cells[0].InMonth)
	assert.Equal(t, "Sunday", month.WeekStart)

	var cell dto.MonthCellDTO
	for _, c := range month.Cells {
		if c.Date == "2024-03-11" {
			cell = c
		}
	}
	assert.Equal(t, 6, cell.Total)
	assert.Len(t, cell.Appointments, 4)
	assert.Equal(t, 2, cell.Overflow)
	assert.Equal(t, "+2 more", cell.OverflowLabel)
}

func TestMonthView_InvalidMonth(t *testing.T) {
	f := newFixture(t)
	_, err := NewMonthView(f.repo, f.settings).
		Execute(context.Background(), f.clinic.ID, uuid.Nil, 2024, 13)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidDate))
}

func TestGetAvailability(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.doctor, day(9, 0), day(10, 0), "")
	f.add(t, f.doctor, day(11, 0), day(12, 0), string(domain.StatusCancelled))

	slots, err := NewGetAvailability(f.repo, f.settings).Execute(context.Background(), domain.AvailabilityInput{
		ClinicID: f.clinic.ID,
		DoctorID: f.doctor.ID,
		Date:     day(0, 0),
		Duration: time.Hour,
		Step:     30 * time.Minute,
	})
	require.NoError(t, err)

	starts := map[string]bool{}
	for _, s := range slots {
		starts[s.Start] = true
	}
	assert.True(t, starts["08:00"])
	assert.False(t, starts["08:30"])
	assert.False(t, starts["09:30"])
	assert.True(t, starts["10:00"])
	assert.True(t, starts["11:00"], "cancelled appointments free their time")
	assert.True(t, starts["23:00"])
	assert.Len(t, slots, 44)
}

func TestSlotAtOffset(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.doctor, day(9, 0), day(10, 0), "")
	uc := NewSlotAtOffset(f.repo, f.settings)
	ctx := context.Background()

	slot, err := uc.Execute(ctx, f.clinic.ID, uuid.Nil, day(15, 0), 90)
	require.NoError(t, err)
	assert.Equal(t, day(0, 45), slot.Start)
	assert.Equal(t, day(1, 45), slot.End)
	assert.Nil(t, slot.DoctorID)

	slot, err = uc.Execute(ctx, f.clinic.ID, f.doctor.ID, day(0, 0), 1110)
	require.NoError(t, err)
	assert.Equal(t, day(9, 15), slot.Start)
	assert.True(t, slot.Conflict)

	_, err = uc.Execute(ctx, f.clinic.ID, uuid.Nil, day(0, 0), 2880)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidInterval))
}

func TestCheckConflict(t *testing.T) {
	f := newFixture(t)
	existing := f.add(t, f.doctor, day(9, 0), day(10, 0), "")
	uc := NewCheckConflict(f.repo)
	ctx := context.Background()

	hit, err := uc.Execute(ctx, CheckConflictInput{
		ClinicID: f.clinic.ID,
		DoctorID: f.doctor.ID,
		Start:    day(9, 30),
		End:      day(10, 15),
	})
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, existing.ID, hit.ID)

	hit, err = uc.Execute(ctx, CheckConflictInput{
		ClinicID: f.clinic.ID,
		DoctorID: f.doctor.ID,
		Start:    day(10, 0),
		End:      day(10, 30),
	})
	require.NoError(t, err)
	assert.Nil(t, hit)

	hit, err = uc.Execute(ctx, CheckConflictInput{
		ClinicID:  f.clinic.ID,
		DoctorID:  f.doctor.ID,
		Start:     day(9, 30),
		End:       day(10, 15),
		ExcludeID: existing.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, hit)
}
