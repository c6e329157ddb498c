package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

type WorkingHoursHandler struct {
	uc *ucAppointment.WorkingHours
}

func NewWorkingHoursHandler(uc *ucAppointment.WorkingHours) *WorkingHoursHandler {
	return &WorkingHoursHandler{uc: uc}
}

type WorkingDayConfig struct {
	Weekday    *int   `json:"weekday" binding:"required,min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func doctorParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Invalid doctor id.")
		return uuid.Nil, false
	}
	return id, true
}

// GET /api/me/doctors/:id/working-hours
func (h *WorkingHoursHandler) Get(c *gin.Context) {
	clinicID, _ := actor(c)
	doctorID, ok := doctorParam(c)
	if !ok {
		return
	}

	hours, err := h.uc.Get(c.Request.Context(), clinicID, doctorID)
	if err != nil {
		writeUseCaseError(c, err, "failed_to_get_working_hours")
		return
	}
	httpresp.List(c, hours)
}

// PUT /api/me/doctors/:id/working-hours
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	clinicID, _ := actor(c)
	doctorID, ok := doctorParam(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	days := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		days = append(days, models.WorkingHours{
			Weekday:    *d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			LunchStart: d.LunchStart,
			LunchEnd:   d.LunchEnd,
		})
	}

	saved, err := h.uc.Replace(c.Request.Context(), clinicID, doctorID, days)
	if err != nil {
		writeUseCaseError(c, err, "failed_to_save_working_hours")
		return
	}
	httpresp.List(c, saved)
}
