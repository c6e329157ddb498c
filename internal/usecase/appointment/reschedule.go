package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type RescheduleInput struct {
	ClinicID      uuid.UUID
	StaffID       uuid.UUID
	AppointmentID uuid.UUID

	// PixelDelta is the net vertical pointer movement of the gesture.
	PixelDelta float64
	// HourHeight and Snap override the configured grid when positive.
	HourHeight float64
	Snap       time.Duration
}

type RescheduleOutput struct {
	Result      domain.Result
	Appointment *models.Appointment
}

// RescheduleAppointment replays a finished drag gesture on the server:
// begin, move by the net delta, release against the doctor's day.
type RescheduleAppointment struct {
	repo     domain.Repository
	audit    audit.Recorder
	cache    LayoutCache
	settings Settings
}

func NewRescheduleAppointment(
	repo domain.Repository,
	audit audit.Recorder,
	cache LayoutCache,
	settings Settings,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:     repo,
		audit:    audit,
		cache:    cacheOrNoop(cache),
		settings: settings,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*RescheduleOutput, error) {

	grid := uc.settings.Grid
	if in.HourHeight > 0 {
		grid.HourHeight = in.HourHeight
	}
	snap := uc.settings.Snap
	if in.Snap > 0 {
		snap = in.Snap
	}

	var (
		ap  *models.Appointment
		res domain.Result
	)

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = loadAppointment(ctx, tx, in.ClinicID, in.AppointmentID)
		if err != nil {
			return err
		}
		if domain.Status(ap.Status).Terminal() {
			return httperr.ErrBusiness(httperr.CodeInvalidState)
		}

		gesture := domain.BeginDrag(ap, grid)
		gesture.Move(in.PixelDelta)

		// the gesture is clamped to the appointment's own day, so the
		// doctor's rows for that day are every possible collision
		dayStart, dayEnd := dayBounds(ap.StartTime, uc.settings.location())
		existing, err := tx.ListOverlapping(ctx, ap.DoctorID, dayStart, dayEnd)
		if err != nil {
			return err
		}

		res = gesture.Release(existing, snap)
		if !res.Committed {
			return nil
		}
		return persistErr(tx.UpdateAppointment(ctx, ap))
	})
	if err != nil {
		return nil, err
	}

	switch res.Notice {
	case domain.NoticeRescheduled:
		uc.audit.Dispatch(audit.Event{
			ClinicID: in.ClinicID,
			StaffID:  staffRef(in.StaffID),
			Action:   audit.ActionAppointmentRescheduled,
			Entity:   audit.EntityAppointment,
			EntityID: &ap.ID,
			Metadata: rescheduleMetadata(res),
		})
		invalidateDays(ctx, uc.cache, in.ClinicID, uc.settings.location(), res.Previous, res.Interval)
	case domain.NoticeConflict:
		uc.audit.Dispatch(audit.Event{
			ClinicID: in.ClinicID,
			StaffID:  staffRef(in.StaffID),
			Action:   audit.ActionRescheduleConflict,
			Entity:   audit.EntityAppointment,
			EntityID: &ap.ID,
			Metadata: rescheduleMetadata(res),
		})
	}

	return &RescheduleOutput{Result: res, Appointment: ap}, nil
}

func rescheduleMetadata(res domain.Result) map[string]any {
	return map[string]any{
		"previous_start":  res.Previous.Start,
		"previous_end":    res.Previous.End,
		"snapped_minutes": res.SnappedMinutes,
	}
}
