package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

type DeleteAppointment struct {
	repo     domain.Repository
	audit    audit.Recorder
	cache    LayoutCache
	settings Settings
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit audit.Recorder,
	cache LayoutCache,
	settings Settings,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:     repo,
		audit:    audit,
		cache:    cacheOrNoop(cache),
		settings: settings,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	clinicID uuid.UUID,
	staffID uuid.UUID,
	appointmentID uuid.UUID,
) error {

	ap, err := loadAppointment(ctx, uc.repo, clinicID, appointmentID)
	if err != nil {
		return err
	}

	if err := uc.repo.DeleteAppointment(ctx, clinicID, ap.ID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		StaffID:  staffRef(staffID),
		Action:   audit.ActionAppointmentDeleted,
		Entity:   audit.EntityAppointment,
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"doctor_id":  ap.DoctorID,
			"start_time": ap.StartTime,
		},
	})
	invalidateDays(ctx, uc.cache, clinicID, uc.settings.location(), domain.IntervalOf(*ap))

	return nil
}
