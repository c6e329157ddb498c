package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

func TestReschedule_CommitsSnappedMove(t *testing.T) {
	f := newFixture(t)
	ap := f.add(t, f.doctor, day(9, 0), day(10, 0), "")

	rec := &mockRecorder{}
	expectAction(rec, audit.ActionAppointmentRescheduled)
	cache := &mockCache{}
	cache.On("Invalidate", mock.Anything, f.clinic.ID, []string{"2024-03-11"}).Return(nil).Once()

	uc := NewRescheduleAppointment(f.repo, rec, cache, f.settings)
	out, err := uc.Execute(context.Background(), RescheduleInput{
		ClinicID:      f.clinic.ID,
		StaffID:       f.staffID,
		AppointmentID: ap.ID,
		PixelDelta:    90,
	})
	require.NoError(t, err)

	assert.True(t, out.Result.Committed)
	assert.Equal(t, domain.NoticeRescheduled, out.Result.Notice)
	assert.Equal(t, 45, out.Result.SnappedMinutes)
	assert.Equal(t, day(9, 45), out.Appointment.StartTime)
	assert.Equal(t, day(10, 45), out.Appointment.EndTime)

	stored, err := f.repo.GetAppointment(context.Background(), f.clinic.ID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, day(9, 45), stored.StartTime)
	assert.Equal(t, day(10, 45), stored.EndTime)

	rec.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestReschedule_ConflictLeavesRowUntouched(t *testing.T) {
	f := newFixture(t)
	ap := f.add(t, f.doctor, day(9, 0), day(10, 0), "")
	f.add(t, f.doctor, day(10, 30), day(11, 30), "")

	rec := &mockRecorder{}
	expectAction(rec, audit.ActionRescheduleConflict)

	uc := NewRescheduleAppointment(f.repo, rec, nil, f.settings)
	out, err := uc.Execute(context.Background(), RescheduleInput{
		ClinicID:      f.clinic.ID,
		AppointmentID: ap.ID,
		PixelDelta:    120,
	})
	require.NoError(t, err)

	assert.False(t, out.Result.Committed)
	assert.Equal(t, domain.DragReverted, out.Result.State)
	assert.Equal(t, domain.ReasonConflict, out.Result.Reason)
	assert.Equal(t, domain.NoticeConflict, out.Result.Notice)
	assert.Equal(t, day(9, 0), out.Appointment.StartTime)

	stored, err := f.repo.GetAppointment(context.Background(), f.clinic.ID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, day(9, 0), stored.StartTime)
	assert.Equal(t, day(10, 0), stored.EndTime)
	rec.AssertExpectations(t)
}

func TestReschedule_NoMovementIsSilent(t *testing.T) {
	f := newFixture(t)
	ap := f.add(t, f.doctor, day(9, 0), day(10, 0), "")

	rec := &mockRecorder{}
	cache := &mockCache{}

	uc := NewRescheduleAppointment(f.repo, rec, cache, f.settings)
	out, err := uc.Execute(context.Background(), RescheduleInput{
		ClinicID:      f.clinic.ID,
		AppointmentID: ap.ID,
		PixelDelta:    10,
	})
	require.NoError(t, err)

	assert.False(t, out.Result.Committed)
	assert.Equal(t, domain.ReasonNoMovement, out.Result.Reason)
	assert.Equal(t, domain.NoticeNone, out.Result.Notice)
	rec.AssertNotCalled(t, "Dispatch", mock.Anything)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything, mock.Anything)
}

func TestReschedule_StaysInsideTheDay(t *testing.T) {
	f := newFixture(t)
	ap := f.add(t, f.doctor, day(22, 0), day(23, 0), "")

	rec := &mockRecorder{}
	rec.On("Dispatch", mock.Anything)

	uc := NewRescheduleAppointment(f.repo, rec, nil, f.settings)
	out, err := uc.Execute(context.Background(), RescheduleInput{
		ClinicID:      f.clinic.ID,
		AppointmentID: ap.ID,
		PixelDelta:    600,
	})
	require.NoError(t, err)

	require.True(t, out.Result.Committed)
	assert.Equal(t, day(23, 0), out.Appointment.StartTime)
	assert.Equal(t, day(0, 0).AddDate(0, 0, 1), out.Appointment.EndTime)
}

func TestReschedule_CustomGrid(t *testing.T) {
	f := newFixture(t)
	ap := f.add(t, f.doctor, day(9, 0), day(10, 0), "")

	rec := &mockRecorder{}
	rec.On("Dispatch", mock.Anything)

	uc := NewRescheduleAppointment(f.repo, rec, nil, f.settings)
	out, err := uc.Execute(context.Background(), RescheduleInput{
		ClinicID:      f.clinic.ID,
		AppointmentID: ap.ID,
		PixelDelta:    -40,
		HourHeight:    60,
		Snap:          30 * time.Minute,
	})
	require.NoError(t, err)

	assert.Equal(t, -30, out.Result.SnappedMinutes)
	assert.Equal(t, day(8, 30), out.Appointment.StartTime)
}

func TestReschedule_RejectsTerminalAndMissing(t *testing.T) {
	f := newFixture(t)
	done := f.add(t, f.doctor, day(9, 0), day(10, 0), string(domain.StatusCompleted))

	uc := NewRescheduleAppointment(f.repo, &mockRecorder{}, nil, f.settings)

	_, err := uc.Execute(context.Background(), RescheduleInput{
		ClinicID:      f.clinic.ID,
		AppointmentID: done.ID,
		PixelDelta:    120,
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState))

	_, err = uc.Execute(context.Background(), RescheduleInput{
		ClinicID:      f.clinic.ID,
		AppointmentID: uuid.New(),
		PixelDelta:    120,
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAppointmentNotFound))
}

func TestReschedule_ZeroDeltaNearMidnightIsNoOp(t *testing.T) {
	f := newFixture(t)
	ap := f.add(t, f.doctor, day(23, 58), day(23, 59), "")

	rec := &mockRecorder{}

	uc := NewRescheduleAppointment(f.repo, rec, nil, f.settings)
	out, err := uc.Execute(context.Background(), RescheduleInput{
		ClinicID:      f.clinic.ID,
		StaffID:       f.staffID,
		AppointmentID: ap.ID,
		PixelDelta:    0,
	})
	require.NoError(t, err)

	assert.False(t, out.Result.Committed)
	assert.Equal(t, domain.ReasonNoMovement, out.Result.Reason)
	assert.Equal(t, domain.NoticeNone, out.Result.Notice)

	stored, err := f.repo.GetAppointment(context.Background(), f.clinic.ID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, day(23, 58), stored.StartTime)
	assert.Equal(t, day(23, 59), stored.EndTime)

	rec.AssertNotCalled(t, "Dispatch", mock.Anything)
}
