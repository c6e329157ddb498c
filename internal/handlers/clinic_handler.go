package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ClinicHandler struct {
	db *gorm.DB
}

func NewClinicHandler(db *gorm.DB) *ClinicHandler {
	return &ClinicHandler{db: db}
}

type UpdateClinicRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=100"`
	Phone   *string `json:"phone" binding:"omitempty,max=20"`
	Address *string `json:"address" binding:"omitempty,max=255"`
}

func (h *ClinicHandler) load(c *gin.Context) (*models.Clinic, bool) {
	clinicID, _ := actor(c)

	var clinic models.Clinic
	if err := h.db.WithContext(c.Request.Context()).First(&clinic, "id = ?", clinicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "clinic_not_found", "Clinic not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_clinic", "Unexpected error.")
		return nil, false
	}
	return &clinic, true
}

func (h *ClinicHandler) GetMeClinic(c *gin.Context) {
	clinic, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, clinic)
}

func (h *ClinicHandler) UpdateMeClinic(c *gin.Context) {
	clinic, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		clinic.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		clinic.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		clinic.Address = strings.TrimSpace(*req.Address)
	}

	if err := h.db.WithContext(c.Request.Context()).Save(clinic).Error; err != nil {
		httperr.Internal(c, "failed_to_update_clinic", "Unexpected error.")
		return
	}

	c.JSON(http.StatusOK, clinic)
}
