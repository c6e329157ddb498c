package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type MeHandler struct {
	db   *gorm.DB
	repo domain.Repository
}

func NewMeHandler(db *gorm.DB, repo domain.Repository) *MeHandler {
	return &MeHandler{db: db, repo: repo}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	clinicID, staffID := actor(c)

	var staff models.Staff
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Clinic").
		Where("id = ? AND clinic_id = ?", staffID, clinicID).
		First(&staff).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "staff_not_found", "Staff member not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_staff", "Unexpected error.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"staff":  staffJSON(&staff),
		"clinic": clinicJSON(staff.Clinic),
	})
}

// ListDoctors returns the schedulable resources of the caller's clinic.
func (h *MeHandler) ListDoctors(c *gin.Context) {
	clinicID, _ := actor(c)

	doctors, err := h.repo.ListDoctors(c.Request.Context(), clinicID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_doctors", "Unexpected error.")
		return
	}

	out := make([]gin.H, 0, len(doctors))
	for i := range doctors {
		out = append(out, staffJSON(&doctors[i]))
	}
	httpresp.List(c, out)
}
