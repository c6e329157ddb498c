package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID           uuid.UUID `json:"id"`
	DoctorID     uuid.UUID `json:"doctor_id"`
	DoctorName   string    `json:"doctor_name,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	PetName      string    `json:"pet_name"`
	OwnerName    string    `json:"owner_name"`
	VisitType    string    `json:"visit_type,omitempty"`
	ServiceType  string    `json:"service_type,omitempty"`
	IsDesignated bool      `json:"is_designated"`
	Notes        string    `json:"notes,omitempty"`
}

func FromAppointment(ap models.Appointment) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:           ap.ID,
		DoctorID:     ap.DoctorID,
		StartTime:    ap.StartTime,
		EndTime:      ap.EndTime,
		Status:       ap.Status,
		PetName:      ap.PetName,
		OwnerName:    ap.OwnerName,
		VisitType:    ap.VisitType,
		ServiceType:  ap.ServiceType,
		IsDesignated: ap.IsDesignated,
		Notes:        ap.Notes,
	}
	if ap.Doctor != nil {
		out.DoctorName = ap.Doctor.Name
	}
	return out
}

func FromAppointments(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, FromAppointment(ap))
	}
	return out
}
