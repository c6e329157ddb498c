package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ClinicID uuid.UUID `gorm:"type:uuid;index" json:"clinic_id"`

	// DoctorID is the resource the interval is scoped to.
	DoctorID uuid.UUID `gorm:"type:uuid;index:idx_appointments_doctor_start,priority:1" json:"doctor_id"`
	Doctor   *Staff    `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"doctor,omitempty"`

	StartTime time.Time `gorm:"index:idx_appointments_doctor_start,priority:2" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:30;default:'confirmed'" json:"status"`

	PetName      string `gorm:"size:100" json:"pet_name"`
	OwnerName    string `gorm:"size:100" json:"owner_name"`
	VisitType    string `gorm:"size:20" json:"visit_type"`
	ServiceType  string `gorm:"size:30" json:"service_type"`
	IsDesignated bool   `gorm:"default:false" json:"is_designated"`
	Notes        string `gorm:"type:text" json:"notes"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
