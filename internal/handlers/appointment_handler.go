package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentUseCases struct {
	Create       *ucAppointment.CreateAppointment
	Update       *ucAppointment.UpdateAppointment
	Reschedule   *ucAppointment.RescheduleAppointment
	Cancel       *ucAppointment.CancelAppointment
	Complete     *ucAppointment.CompleteAppointment
	ChangeStatus *ucAppointment.ChangeStatus
	Delete       *ucAppointment.DeleteAppointment
	DayLayout    *ucAppointment.DayLayout
	WeekLayout   *ucAppointment.WeekLayout
	Month        *ucAppointment.MonthView
	Slot         *ucAppointment.SlotAtOffset
	Availability *ucAppointment.GetAvailability
	Conflicts    *ucAppointment.CheckConflict
}

type AppointmentHandler struct {
	uc       AppointmentUseCases
	location *time.Location
}

func NewAppointmentHandler(
	uc AppointmentUseCases,
	location *time.Location,
) *AppointmentHandler {
	if location == nil {
		location = time.Local
	}
	return &AppointmentHandler{
		uc:       uc,
		location: location,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type AppointmentRequest struct {
	DoctorID    string `json:"doctor_id"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	EndTime     string `json:"end_time"`
	DurationMin int    `json:"duration_min" binding:"omitempty,min=1,max=1440"`

	PetName      string `json:"pet_name" binding:"required"`
	OwnerName    string `json:"owner_name" binding:"required"`
	VisitType    string `json:"visit_type"`
	ServiceType  string `json:"service_type"`
	IsDesignated bool   `json:"is_designated"`
	Notes        string `json:"notes"`
}

type RescheduleRequest struct {
	PixelDelta  *float64 `json:"pixel_delta" binding:"required"`
	HourHeight  float64  `json:"hour_height" binding:"omitempty,gt=0"`
	SnapMinutes int      `json:"snap_minutes" binding:"omitempty,min=1,max=60"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ConflictRequest struct {
	DoctorID  string `json:"doctor_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	ExcludeID string `json:"exclude_id"`
}

// interval resolves start and end; end falls back to duration, then to
// zero so the use case applies its default.
func (h *AppointmentHandler) interval(req AppointmentRequest) (time.Time, time.Time, bool) {
	start, err := parseDateTime(req.Date, req.Time, h.location)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	switch {
	case req.EndTime != "":
		end, err := parseDateTime(req.Date, req.EndTime, h.location)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		return start, end, true
	case req.DurationMin > 0:
		return start, start.Add(time.Duration(req.DurationMin) * time.Minute), true
	}
	return start, time.Time{}, true
}

func (req AppointmentRequest) details() ucAppointment.AppointmentDetails {
	return ucAppointment.AppointmentDetails{
		PetName:      req.PetName,
		OwnerName:    req.OwnerName,
		VisitType:    req.VisitType,
		ServiceType:  req.ServiceType,
		IsDesignated: req.IsDesignated,
		Notes:        req.Notes,
	}
}

// ======================================================
// CREATE / UPDATE / DELETE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	clinicID, staffID := actor(c)

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	doctorID, err := optionalUUID(req.DoctorID)
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Invalid doctor id.")
		return
	}

	start, end, ok := h.interval(req)
	if !ok {
		httperr.BadRequest(c, httperr.CodeInvalidDate, "Invalid date or time.")
		return
	}

	ap, err := h.uc.Create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		ClinicID: clinicID,
		StaffID:  staffID,
		DoctorID: doctorID,
		Start:    start,
		End:      end,
		Details:  req.details(),
	})
	if err != nil {
		writeUseCaseError(c, err, "failed_to_create_appointment")
		return
	}

	c.JSON(http.StatusCreated, dto.FromAppointment(*ap))
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	clinicID, staffID := actor(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	doctorID, err := optionalUUID(req.DoctorID)
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Invalid doctor id.")
		return
	}

	start, end, ok := h.interval(req)
	if !ok || end.IsZero() {
		httperr.BadRequest(c, httperr.CodeInvalidDate, "Invalid date or time.")
		return
	}

	ap, err := h.uc.Update.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		ClinicID:      clinicID,
		StaffID:       staffID,
		AppointmentID: id,
		DoctorID:      doctorID,
		Start:         start,
		End:           end,
		Details:       req.details(),
	})
	if err != nil {
		writeUseCaseError(c, err, "failed_to_update_appointment")
		return
	}

	httpresp.OK(c, dto.FromAppointment(*ap))
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	clinicID, staffID := actor(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.uc.Delete.Execute(c.Request.Context(), clinicID, staffID, id); err != nil {
		writeUseCaseError(c, err, "failed_to_delete_appointment")
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// DRAG RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	clinicID, staffID := actor(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	out, err := h.uc.Reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleInput{
		ClinicID:      clinicID,
		StaffID:       staffID,
		AppointmentID: id,
		PixelDelta:    *req.PixelDelta,
		HourHeight:    req.HourHeight,
		Snap:          time.Duration(req.SnapMinutes) * time.Minute,
	})
	if err != nil {
		writeUseCaseError(c, err, "failed_to_reschedule_appointment")
		return
	}

	res := out.Result
	body := dto.RescheduleResultDTO{
		State:          string(res.State),
		Committed:      res.Committed,
		StartTime:      res.Interval.Start,
		EndTime:        res.Interval.End,
		PreviousStart:  res.Previous.Start,
		PreviousEnd:    res.Previous.End,
		SnappedMinutes: res.SnappedMinutes,
		Reason:         res.Reason,
		Notice:         string(res.Notice),
	}
	if out.Appointment != nil {
		ap := dto.FromAppointment(*out.Appointment)
		body.Appointment = &ap
	}

	// a rejected drag is an expected outcome, reported with the
	// original interval rather than as an error
	status := http.StatusOK
	if res.Reason == domain.ReasonConflict {
		status = http.StatusConflict
	}
	c.JSON(status, body)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	clinicID, staffID := actor(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.uc.ChangeStatus.Execute(c.Request.Context(), clinicID, staffID, id, req.Status)
	if err != nil {
		writeUseCaseError(c, err, "failed_to_change_status")
		return
	}

	httpresp.OK(c, dto.FromAppointment(*ap))
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	clinicID, staffID := actor(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	ap, err := h.uc.Cancel.Execute(c.Request.Context(), clinicID, staffID, id)
	if err != nil {
		writeUseCaseError(c, err, "failed_to_cancel_appointment")
		return
	}

	httpresp.OK(c, dto.FromAppointment(*ap))
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	clinicID, staffID := actor(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	ap, err := h.uc.Complete.Execute(c.Request.Context(), clinicID, staffID, id)
	if err != nil {
		writeUseCaseError(c, err, "failed_to_complete_appointment")
		return
	}

	httpresp.OK(c, dto.FromAppointment(*ap))
}

// ======================================================
// CALENDAR VIEWS
// ======================================================

func (h *AppointmentHandler) DayLayout(c *gin.Context) {
	h.layout(c, func(clinicID, doctorID uuid.UUID, date time.Time) (any, error) {
		return h.uc.DayLayout.Execute(c.Request.Context(), clinicID, doctorID, date)
	})
}

func (h *AppointmentHandler) WeekLayout(c *gin.Context) {
	h.layout(c, func(clinicID, doctorID uuid.UUID, date time.Time) (any, error) {
		return h.uc.WeekLayout.Execute(c.Request.Context(), clinicID, doctorID, date)
	})
}

func (h *AppointmentHandler) layout(
	c *gin.Context,
	run func(clinicID, doctorID uuid.UUID, date time.Time) (any, error),
) {
	clinicID, _ := actor(c)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter date is required.")
		return
	}

	date, err := parseDate(dateStr, h.location)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidDate, "Invalid date.")
		return
	}

	doctorID, ok := queryDoctor(c)
	if !ok {
		return
	}

	out, err := run(clinicID, doctorID, date)
	if err != nil {
		writeUseCaseError(c, err, "failed_to_layout_appointments")
		return
	}

	httpresp.OK(c, out)
}

func (h *AppointmentHandler) Month(c *gin.Context) {
	clinicID, _ := actor(c)

	year, okYear := queryInt(c, "year")
	month, okMonth := queryInt(c, "month")
	if !okYear || !okMonth {
		httperr.BadRequest(c, "missing_year_or_month", "Query parameters year and month are required.")
		return
	}

	doctorID, ok := queryDoctor(c)
	if !ok {
		return
	}

	out, err := h.uc.Month.Execute(c.Request.Context(), clinicID, doctorID, year, month)
	if err != nil {
		writeUseCaseError(c, err, "failed_to_list_month")
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// SLOTS / CONFLICTS
// ======================================================

func (h *AppointmentHandler) Slot(c *gin.Context) {
	clinicID, _ := actor(c)

	date, err := parseDate(c.Query("date"), h.location)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidDate, "Invalid date.")
		return
	}

	offset, err := strconv.ParseFloat(c.Query("offset"), 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_offset", "Query parameter offset is required.")
		return
	}

	doctorID, ok := queryDoctor(c)
	if !ok {
		return
	}

	out, err := h.uc.Slot.Execute(c.Request.Context(), clinicID, doctorID, date, offset)
	if err != nil {
		writeUseCaseError(c, err, "failed_to_resolve_slot")
		return
	}

	httpresp.OK(c, out)
}

func (h *AppointmentHandler) Availability(c *gin.Context) {
	clinicID, _ := actor(c)

	date, err := parseDate(c.Query("date"), h.location)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidDate, "Invalid date.")
		return
	}

	doctorID, ok := queryDoctor(c)
	if !ok {
		return
	}

	duration, _ := queryInt(c, "duration_min")
	step, _ := queryInt(c, "step_min")

	slots, err := h.uc.Availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		ClinicID: clinicID,
		DoctorID: doctorID,
		Date:     date,
		Duration: time.Duration(duration) * time.Minute,
		Step:     time.Duration(step) * time.Minute,
	})
	if err != nil {
		writeUseCaseError(c, err, "failed_to_get_availability")
		return
	}

	httpresp.List(c, slots)
}

func (h *AppointmentHandler) CheckConflict(c *gin.Context) {
	clinicID, _ := actor(c)

	var req ConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Invalid doctor id.")
		return
	}
	excludeID, err := optionalUUID(req.ExcludeID)
	if err != nil {
		httperr.BadRequest(c, "invalid_exclude_id", "Invalid exclude id.")
		return
	}

	start, errStart := parseDateTime(req.Date, req.Time, h.location)
	end, errEnd := parseDateTime(req.Date, req.EndTime, h.location)
	if errStart != nil || errEnd != nil {
		httperr.BadRequest(c, httperr.CodeInvalidDate, "Invalid date or time.")
		return
	}

	hit, err := h.uc.Conflicts.Execute(c.Request.Context(), ucAppointment.CheckConflictInput{
		ClinicID:  clinicID,
		DoctorID:  doctorID,
		Start:     start,
		End:       end,
		ExcludeID: excludeID,
	})
	if err != nil {
		writeUseCaseError(c, err, "failed_to_check_conflict")
		return
	}

	out := dto.ConflictDTO{Conflict: hit != nil}
	if hit != nil {
		with := dto.FromAppointment(*hit)
		out.With = &with
	}
	httpresp.OK(c, out)
}
