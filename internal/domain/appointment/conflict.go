package appointment

import (
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// HasConflict reports whether candidate collides with any non-cancelled
// appointment of the same resource. excludeID (usually the appointment
// being edited) is skipped; uuid.Nil skips nothing.
func HasConflict(
	candidate Interval,
	resource uuid.UUID,
	existing []models.Appointment,
	excludeID uuid.UUID,
) bool {
	_, found := FindConflict(candidate, resource, existing, excludeID)
	return found
}

// FindConflict returns the first colliding appointment in list order.
func FindConflict(
	candidate Interval,
	resource uuid.UUID,
	existing []models.Appointment,
	excludeID uuid.UUID,
) (*models.Appointment, bool) {

	for i := range existing {
		ap := &existing[i]

		if ap.DoctorID != resource {
			continue
		}
		if !Status(ap.Status).BlocksTime() {
			continue
		}
		if excludeID != uuid.Nil && ap.ID == excludeID {
			continue
		}

		if candidate.Start.Before(ap.EndTime) && candidate.End.After(ap.StartTime) {
			return ap, true
		}
	}

	return nil, false
}
