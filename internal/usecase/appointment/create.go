package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const DefaultAppointmentDuration = time.Hour

// ======================================================
// INPUT
// ======================================================

type AppointmentDetails struct {
	PetName      string
	OwnerName    string
	VisitType    string
	ServiceType  string
	IsDesignated bool
	Notes        string
}

type CreateAppointmentInput struct {
	ClinicID uuid.UUID
	StaffID  uuid.UUID
	DoctorID uuid.UUID

	Start time.Time
	// End defaults to Start plus one hour when zero.
	End time.Time

	Details AppointmentDetails
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	audit    audit.Recorder
	cache    LayoutCache
	settings Settings
}

func NewCreateAppointment(
	repo domain.Repository,
	audit audit.Recorder,
	cache LayoutCache,
	settings Settings,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		audit:    audit,
		cache:    cacheOrNoop(cache),
		settings: settings,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	end := in.End
	if end.IsZero() {
		end = in.Start.Add(DefaultAppointmentDuration)
	}

	iv := domain.Interval{Start: in.Start, End: end}
	if err := iv.Validate(); err != nil {
		return nil, err
	}

	doctor, err := loadDoctor(ctx, uc.repo, in.ClinicID, in.DoctorID)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		ClinicID:     in.ClinicID,
		DoctorID:     doctor.ID,
		StartTime:    iv.Start,
		EndTime:      iv.End,
		Status:       string(domain.InitialStatus()),
		PetName:      in.Details.PetName,
		OwnerName:    in.Details.OwnerName,
		VisitType:    in.Details.VisitType,
		ServiceType:  in.Details.ServiceType,
		IsDesignated: in.Details.IsDesignated,
		Notes:        in.Details.Notes,
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := assertFree(ctx, tx, iv, doctor.ID, uuid.Nil); err != nil {
			return err
		}
		return persistErr(tx.CreateAppointment(ctx, ap))
	})
	if err != nil {
		return nil, err
	}

	ap.Doctor = doctor

	uc.audit.Dispatch(audit.Event{
		ClinicID: in.ClinicID,
		StaffID:  staffRef(in.StaffID),
		Action:   audit.ActionAppointmentCreated,
		Entity:   audit.EntityAppointment,
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"doctor_id":  doctor.ID,
			"start_time": ap.StartTime,
			"end_time":   ap.EndTime,
		},
	})
	invalidateDays(ctx, uc.cache, in.ClinicID, uc.settings.location(), iv)

	return ap, nil
}
