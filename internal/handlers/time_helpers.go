package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
)

// --------------------------------------------------
// Dates
// --------------------------------------------------

func parseDate(dateStr string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(domain.DateLayout, dateStr, loc)
}

func parseDateTime(dateStr, clock string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(
		domain.DateLayout+" "+domain.ClockLayout,
		dateStr+" "+clock,
		loc,
	)
}

// --------------------------------------------------
// Context / params
// --------------------------------------------------

func actor(c *gin.Context) (clinicID uuid.UUID, staffID uuid.UUID) {
	clinicID, _ = c.MustGet(middleware.ContextClinicID).(uuid.UUID)
	staffID, _ = c.MustGet(middleware.ContextStaffID).(uuid.UUID)
	return clinicID, staffID
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses an optional id; empty yields uuid.Nil.
func optionalUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}

func queryDoctor(c *gin.Context) (uuid.UUID, bool) {
	id, err := optionalUUID(c.Query("doctor_id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Invalid doctor id.")
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string) (int, bool) {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0, false
	}
	return v, true
}

// --------------------------------------------------
// Errors
// --------------------------------------------------

func writeUseCaseError(c *gin.Context, err error, fallbackCode string) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		logger.FromContext(c.Request.Context()).Error("request failed",
			slog.String("code", fallbackCode),
			slog.String("error", err.Error()),
		)
		httperr.Internal(c, fallbackCode, "Unexpected error.")
		return
	}

	switch code {
	case httperr.CodeTimeConflict:
		httperr.Conflict(c, code, "The doctor already has an appointment at this time.")
	case httperr.CodeAppointmentNotFound:
		httperr.NotFound(c, code, "Appointment not found.")
	case httperr.CodeDoctorNotFound:
		httperr.NotFound(c, code, "Doctor not found.")
	case httperr.CodeInvalidState:
		httperr.Write(c, http.StatusUnprocessableEntity, code, "The appointment cannot change from its current status.")
	default:
		httperr.BadRequest(c, code, "Invalid request.")
	}
}
