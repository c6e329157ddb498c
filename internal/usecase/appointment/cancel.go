package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type CancelAppointment struct {
	repo     domain.Repository
	audit    audit.Recorder
	cache    LayoutCache
	settings Settings
	now      func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	audit audit.Recorder,
	cache LayoutCache,
	settings Settings,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		audit:    audit,
		cache:    cacheOrNoop(cache),
		settings: settings,
		now:      time.Now,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	clinicID uuid.UUID,
	staffID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, uc.repo, clinicID, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap, uc.now().In(uc.settings.location())); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		StaffID:  staffRef(staffID),
		Action:   audit.ActionAppointmentCancelled,
		Entity:   audit.EntityAppointment,
		EntityID: &ap.ID,
	})
	invalidateDays(ctx, uc.cache, clinicID, uc.settings.location(), domain.IntervalOf(*ap))

	return ap, nil
}
