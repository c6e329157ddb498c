package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var (
	drOrtega    = uuid.MustParse("0b6f3c1e-7c0e-4f5e-9d2b-6a1f1d4c2a01")
	drLindqvist = uuid.MustParse("0b6f3c1e-7c0e-4f5e-9d2b-6a1f1d4c2a02")
)

// clock returns a time on Monday 2024-03-11 UTC.
func clock(hour, minute int) time.Time {
	return time.Date(2024, 3, 11, hour, minute, 0, 0, time.UTC)
}

func appt(doctor uuid.UUID, start, end time.Time) models.Appointment {
	return models.Appointment{
		ID:        uuid.New(),
		DoctorID:  doctor,
		StartTime: start,
		EndTime:   end,
		Status:    string(StatusConfirmed),
	}
}

func withStatus(ap models.Appointment, s Status) models.Appointment {
	ap.Status = string(s)
	return ap
}
