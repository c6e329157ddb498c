package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const ClockLayout = "15:04"

// WithinWorkingHours reports whether iv fits inside the doctor's shift for
// that weekday and misses the lunch break. A nil schedule means the doctor
// has not configured hours and every time is accepted.
func WithinWorkingHours(wh *models.WorkingHours, iv Interval) bool {
	if wh == nil {
		return true
	}
	if !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return false
	}

	workStart, err := clockOn(iv.Start, wh.StartTime)
	if err != nil {
		return false
	}
	workEnd, err := clockOn(iv.Start, wh.EndTime)
	if err != nil {
		return false
	}

	if iv.Start.Before(workStart) || iv.End.After(workEnd) {
		return false
	}

	if wh.LunchStart != "" && wh.LunchEnd != "" {
		lunchStart, err1 := clockOn(iv.Start, wh.LunchStart)
		lunchEnd, err2 := clockOn(iv.Start, wh.LunchEnd)
		if err1 == nil && err2 == nil &&
			iv.Overlaps(Interval{Start: lunchStart, End: lunchEnd}) {
			return false
		}
	}

	return true
}

// ValidateWorkingHours checks the "15:04" fields of one weekday entry.
// Inactive days carry no times.
func ValidateWorkingHours(wh models.WorkingHours) error {
	if wh.Weekday < 0 || wh.Weekday > 6 {
		return httperr.ErrBusiness(httperr.CodeInvalidWorkingHours)
	}
	if !wh.Active {
		return nil
	}

	day := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	start, err := clockOn(day, wh.StartTime)
	if err != nil {
		return httperr.ErrBusiness(httperr.CodeInvalidWorkingHours)
	}
	end, err := clockOn(day, wh.EndTime)
	if err != nil || !start.Before(end) {
		return httperr.ErrBusiness(httperr.CodeInvalidWorkingHours)
	}

	if wh.LunchStart == "" && wh.LunchEnd == "" {
		return nil
	}
	lunchStart, err := clockOn(day, wh.LunchStart)
	if err != nil {
		return httperr.ErrBusiness(httperr.CodeInvalidWorkingHours)
	}
	lunchEnd, err := clockOn(day, wh.LunchEnd)
	if err != nil || !lunchStart.Before(lunchEnd) ||
		lunchStart.Before(start) || lunchEnd.After(end) {
		return httperr.ErrBusiness(httperr.CodeInvalidWorkingHours)
	}
	return nil
}

// clockOn places an "HH:MM" wall-clock value on day's date and location.
func clockOn(day time.Time, hm string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, hm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	), nil
}
