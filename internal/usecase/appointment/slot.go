package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// CLICK TO CREATE
// ======================================================

type SlotAtOffset struct {
	repo     domain.Repository
	settings Settings
}

func NewSlotAtOffset(
	repo domain.Repository,
	settings Settings,
) *SlotAtOffset {
	return &SlotAtOffset{
		repo:     repo,
		settings: settings,
	}
}

// Execute converts a click on the day grid into a one hour stub. With a
// doctor the stub is also checked against that doctor's schedule.
func (uc *SlotAtOffset) Execute(
	ctx context.Context,
	clinicID uuid.UUID,
	doctorID uuid.UUID,
	date time.Time,
	offset float64,
) (*dto.SlotDTO, error) {

	grid := uc.settings.Grid.Normalized()
	if offset < 0 || offset >= grid.Height() {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidInterval)
	}

	dayStart, _ := dayBounds(date, uc.settings.location())
	start := domain.OffsetToTime(offset, grid.HourHeight, dayStart)

	out := &dto.SlotDTO{
		Date:   dayStart.Format(domain.DateLayout),
		Offset: offset,
		Start:  start,
		End:    start.Add(DefaultAppointmentDuration),
	}

	if doctorID == uuid.Nil {
		return out, nil
	}

	doctor, err := loadDoctor(ctx, uc.repo, clinicID, doctorID)
	if err != nil {
		return nil, err
	}
	out.DoctorID = &doctor.ID

	existing, err := uc.repo.ListOverlapping(ctx, doctor.ID, out.Start, out.End)
	if err != nil {
		return nil, err
	}
	out.Conflict = domain.HasConflict(
		domain.Interval{Start: out.Start, End: out.End},
		doctor.ID,
		existing,
		uuid.Nil,
	)
	return out, nil
}

// ======================================================
// CONFLICT CHECK
// ======================================================

type CheckConflictInput struct {
	ClinicID  uuid.UUID
	DoctorID  uuid.UUID
	Start     time.Time
	End       time.Time
	ExcludeID uuid.UUID
}

type CheckConflict struct {
	repo domain.Repository
}

func NewCheckConflict(repo domain.Repository) *CheckConflict {
	return &CheckConflict{repo: repo}
}

// Execute returns the first colliding appointment, or nil.
func (uc *CheckConflict) Execute(
	ctx context.Context,
	in CheckConflictInput,
) (*models.Appointment, error) {

	iv := domain.Interval{Start: in.Start, End: in.End}
	if err := iv.Validate(); err != nil {
		return nil, err
	}

	doctor, err := loadDoctor(ctx, uc.repo, in.ClinicID, in.DoctorID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.ListOverlapping(ctx, doctor.ID, iv.Start, iv.End)
	if err != nil {
		return nil, err
	}

	hit, ok := domain.FindConflict(iv, doctor.ID, existing, in.ExcludeID)
	if !ok {
		return nil, nil
	}
	found := *hit
	return &found, nil
}
