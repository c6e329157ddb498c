package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type UpdateAppointmentInput struct {
	ClinicID      uuid.UUID
	StaffID       uuid.UUID
	AppointmentID uuid.UUID

	// DoctorID uuid.Nil keeps the current doctor.
	DoctorID uuid.UUID
	Start    time.Time
	End      time.Time

	Details AppointmentDetails
}

type UpdateAppointment struct {
	repo     domain.Repository
	audit    audit.Recorder
	cache    LayoutCache
	settings Settings
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit audit.Recorder,
	cache LayoutCache,
	settings Settings,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:     repo,
		audit:    audit,
		cache:    cacheOrNoop(cache),
		settings: settings,
	}
}

// Execute replaces the editable fields. The appointment is excluded from
// its own conflict check; cancelled appointments are not checked at all.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	iv := domain.Interval{Start: in.Start, End: in.End}
	if err := iv.Validate(); err != nil {
		return nil, err
	}

	var (
		ap       *models.Appointment
		previous domain.Interval
	)

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = loadAppointment(ctx, tx, in.ClinicID, in.AppointmentID)
		if err != nil {
			return err
		}
		previous = domain.IntervalOf(*ap)

		doctorID := ap.DoctorID
		if in.DoctorID != uuid.Nil && in.DoctorID != ap.DoctorID {
			doctor, err := loadDoctor(ctx, tx, in.ClinicID, in.DoctorID)
			if err != nil {
				return err
			}
			doctorID = doctor.ID
		}

		if domain.Status(ap.Status).BlocksTime() {
			if err := assertFree(ctx, tx, iv, doctorID, ap.ID); err != nil {
				return err
			}
		}

		ap.DoctorID = doctorID
		ap.Doctor = nil
		ap.StartTime, ap.EndTime = iv.Start, iv.End
		ap.PetName = in.Details.PetName
		ap.OwnerName = in.Details.OwnerName
		ap.VisitType = in.Details.VisitType
		ap.ServiceType = in.Details.ServiceType
		ap.IsDesignated = in.Details.IsDesignated
		ap.Notes = in.Details.Notes

		return persistErr(tx.UpdateAppointment(ctx, ap))
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: in.ClinicID,
		StaffID:  staffRef(in.StaffID),
		Action:   audit.ActionAppointmentUpdated,
		Entity:   audit.EntityAppointment,
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"previous_start": previous.Start,
			"previous_end":   previous.End,
			"start_time":     ap.StartTime,
			"end_time":       ap.EndTime,
		},
	})
	invalidateDays(ctx, uc.cache, in.ClinicID, uc.settings.location(), previous, iv)

	return ap, nil
}
