package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ChangeStatus struct {
	repo     domain.Repository
	audit    audit.Recorder
	cache    LayoutCache
	settings Settings
	now      func() time.Time
}

func NewChangeStatus(
	repo domain.Repository,
	audit audit.Recorder,
	cache LayoutCache,
	settings Settings,
) *ChangeStatus {
	return &ChangeStatus{
		repo:     repo,
		audit:    audit,
		cache:    cacheOrNoop(cache),
		settings: settings,
		now:      time.Now,
	}
}

func (uc *ChangeStatus) Execute(
	ctx context.Context,
	clinicID uuid.UUID,
	staffID uuid.UUID,
	appointmentID uuid.UUID,
	status string,
) (*models.Appointment, error) {

	next, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	ap, err := loadAppointment(ctx, uc.repo, clinicID, appointmentID)
	if err != nil {
		return nil, err
	}

	previous := ap.Status
	if err := domain.ChangeStatus(ap, next, uc.now().In(uc.settings.location())); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		StaffID:  staffRef(staffID),
		Action:   audit.ActionAppointmentStatus,
		Entity:   audit.EntityAppointment,
		EntityID: &ap.ID,
		Metadata: map[string]string{
			"from": previous,
			"to":   ap.Status,
		},
	})
	invalidateDays(ctx, uc.cache, clinicID, uc.settings.location(), domain.IntervalOf(*ap))

	return ap, nil
}
