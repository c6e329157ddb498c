package appointment

import "github.com/BruksfildServices01/clinic-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusConfirmed       Status = "confirmed"
	StatusCheckedIn       Status = "checked_in"
	StatusInConsultation  Status = "in_consultation"
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
)

var knownStatuses = map[Status]struct{}{
	StatusConfirmed:       {},
	StatusCheckedIn:       {},
	StatusInConsultation:  {},
	StatusAwaitingPayment: {},
	StatusCompleted:       {},
	StatusCancelled:       {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := knownStatuses[st]; !ok {
		return "", httperr.ErrBusiness(httperr.CodeInvalidStatus)
	}
	return st, nil
}

// Terminal statuses accept no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// BlocksTime reports whether an appointment in this status takes part in
// conflict detection.
func (s Status) BlocksTime() bool {
	return s != StatusCancelled
}

// Dimmed appointments are still laid out but rendered faded.
func (s Status) Dimmed() bool {
	return s.Terminal()
}

// ===============================
// Validations
// ===============================

func CanCancel(current Status) error {
	if current.Terminal() {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func CanComplete(current Status) error {
	if current.Terminal() {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func CanTransition(current, next Status) error {
	if _, ok := knownStatuses[next]; !ok {
		return httperr.ErrBusiness(httperr.CodeInvalidStatus)
	}
	if current.Terminal() && current != next {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func InitialStatus() Status {
	return StatusConfirmed
}
