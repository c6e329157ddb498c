package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkingHours is one weekday of a doctor's schedule. Times are "15:04"
// wall-clock strings; an empty lunch pair means no break.
type WorkingHours struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DoctorID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_working_hours_doctor_weekday" json:"doctor_id"`

	Weekday int `gorm:"uniqueIndex:idx_working_hours_doctor_weekday" json:"weekday"`

	StartTime  string `gorm:"size:5" json:"start_time"`
	EndTime    string `gorm:"size:5" json:"end_time"`
	LunchStart string `gorm:"size:5" json:"lunch_start"`
	LunchEnd   string `gorm:"size:5" json:"lunch_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *WorkingHours) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
