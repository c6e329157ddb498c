package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ErrNotFound is returned by repositories when a clinic, doctor or
// appointment does not exist in the caller's clinic.
var ErrNotFound = errors.New("record not found")

type Repository interface {
	// -------- Clinic / Staff --------
	GetClinicByID(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Clinic, error)

	GetDoctor(
		ctx context.Context,
		clinicID uuid.UUID,
		doctorID uuid.UUID,
	) (*models.Staff, error)

	ListDoctors(
		ctx context.Context,
		clinicID uuid.UUID,
	) ([]models.Staff, error)

	// -------- Working hours --------
	// GetWorkingHours returns ErrNotFound when the doctor has no entry for
	// weekday.
	GetWorkingHours(
		ctx context.Context,
		doctorID uuid.UUID,
		weekday time.Weekday,
	) (*models.WorkingHours, error)

	ListWorkingHours(
		ctx context.Context,
		doctorID uuid.UUID,
	) ([]models.WorkingHours, error)

	// ReplaceWorkingHours swaps the doctor's whole weekly schedule.
	ReplaceWorkingHours(
		ctx context.Context,
		doctorID uuid.UUID,
		hours []models.WorkingHours,
	) error

	// -------- Appointment (write) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		clinicID uuid.UUID,
		appointmentID uuid.UUID,
	) error

	// -------- Appointment (read) --------
	GetAppointment(
		ctx context.Context,
		clinicID uuid.UUID,
		appointmentID uuid.UUID,
	) (*models.Appointment, error)

	// ListOverlapping returns every appointment of the doctor, cancelled
	// included, whose interval intersects [start, end).
	ListOverlapping(
		ctx context.Context,
		doctorID uuid.UUID,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// ListAppointmentsForPeriod returns appointments starting in
	// [start, end) ordered by insertion. doctorID uuid.Nil means every
	// doctor of the clinic.
	ListAppointmentsForPeriod(
		ctx context.Context,
		clinicID uuid.UUID,
		doctorID uuid.UUID,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// Transaction runs fn against a repository bound to one unit of work.
	// Reads through ListOverlapping inside fn hold the rows until commit.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error
}
