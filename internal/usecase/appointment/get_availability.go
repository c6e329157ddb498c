package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type GetAvailability struct {
	repo     domain.Repository
	settings Settings
}

func NewGetAvailability(repo domain.Repository, settings Settings) *GetAvailability {
	return &GetAvailability{repo: repo, settings: settings}
}

// Execute walks the doctor's day in Step increments (the snap interval by
// default) and keeps every Duration-long slot that fits the doctor's
// working hours and that the conflict detector accepts.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	if in.Duration <= 0 {
		in.Duration = DefaultAppointmentDuration
	}
	step := in.Step
	if step <= 0 {
		step = uc.settings.Snap
	}
	if step <= 0 {
		step = domain.DefaultSnap
	}

	doctor, err := loadDoctor(ctx, uc.repo, in.ClinicID, in.DoctorID)
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := dayBounds(in.Date, uc.settings.location())
	if in.Duration > dayEnd.Sub(dayStart) {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidInterval)
	}

	hours, err := uc.repo.GetWorkingHours(ctx, doctor.ID, dayStart.Weekday())
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	appointments, err := uc.repo.ListOverlapping(ctx, doctor.ID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	slots := []domain.TimeSlot{}
	for cur := dayStart; !cur.Add(in.Duration).After(dayEnd); cur = cur.Add(step) {
		candidate := domain.Interval{Start: cur, End: cur.Add(in.Duration)}
		if !domain.WithinWorkingHours(hours, candidate) {
			continue
		}
		if domain.HasConflict(candidate, doctor.ID, appointments, uuid.Nil) {
			continue
		}
		slots = append(slots, domain.TimeSlot{
			Start: candidate.Start.Format(domain.ClockLayout),
			End:   candidate.End.Format(domain.ClockLayout),
		})
	}

	return slots, nil
}
