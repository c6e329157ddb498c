package appointment

import (
	"time"

	"github.com/google/uuid"
)

type AvailabilityInput struct {
	ClinicID uuid.UUID
	DoctorID uuid.UUID
	Date     time.Time
	Duration time.Duration
	Step     time.Duration
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
