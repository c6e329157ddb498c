package httperr

import "errors"

const (
	CodeTimeConflict        = "time_conflict"
	CodeAppointmentNotFound = "appointment_not_found"
	CodeDoctorNotFound      = "doctor_not_found"
	CodeInvalidState        = "invalid_state"
	CodeInvalidStatus       = "invalid_status"
	CodeInvalidInterval     = "invalid_interval"
	CodeMissingResource     = "missing_resource"
	CodeInvalidDate         = "invalid_date"
	CodeInvalidWorkingHours = "invalid_working_hours"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode returns the code of a business error anywhere in err's chain.
func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}
