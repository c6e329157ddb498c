package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// ChangeStatus routes terminal targets through Cancel and Complete so the
// timestamps are always recorded.
func ChangeStatus(ap *models.Appointment, next Status, now time.Time) error {
	switch next {
	case StatusCancelled:
		return Cancel(ap, now)
	case StatusCompleted:
		return Complete(ap, now)
	}

	if err := CanTransition(Status(ap.Status), next); err != nil {
		return err
	}
	ap.Status = string(next)
	return nil
}

func IntervalOf(ap models.Appointment) Interval {
	return Interval{Start: ap.StartTime, End: ap.EndTime}
}
