package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// Deps are the singletons built once in main.
type Deps struct {
	DB       *gorm.DB
	Repo     domain.Repository
	Audit    audit.Recorder
	Cache    ucAppointment.LayoutCache
	Config   *config.Config
	Settings ucAppointment.Settings
}

func NewAppointmentUseCases(
	repo domain.Repository,
	recorder audit.Recorder,
	cache ucAppointment.LayoutCache,
	settings ucAppointment.Settings,
) handlers.AppointmentUseCases {
	return handlers.AppointmentUseCases{
		Create:       ucAppointment.NewCreateAppointment(repo, recorder, cache, settings),
		Update:       ucAppointment.NewUpdateAppointment(repo, recorder, cache, settings),
		Reschedule:   ucAppointment.NewRescheduleAppointment(repo, recorder, cache, settings),
		Cancel:       ucAppointment.NewCancelAppointment(repo, recorder, cache, settings),
		Complete:     ucAppointment.NewCompleteAppointment(repo, recorder, cache, settings),
		ChangeStatus: ucAppointment.NewChangeStatus(repo, recorder, cache, settings),
		Delete:       ucAppointment.NewDeleteAppointment(repo, recorder, cache, settings),
		DayLayout:    ucAppointment.NewDayLayout(repo, cache, settings),
		WeekLayout:   ucAppointment.NewWeekLayout(repo, settings),
		Month:        ucAppointment.NewMonthView(repo, settings),
		Slot:         ucAppointment.NewSlotAtOffset(repo, settings),
		Availability: ucAppointment.NewGetAvailability(repo, settings),
		Conflicts:    ucAppointment.NewCheckConflict(repo),
	}
}

// RegisterAppointmentRoutes mounts the calendar endpoints on an already
// authenticated group.
func RegisterAppointmentRoutes(
	secured *gin.RouterGroup,
	h *handlers.AppointmentHandler,
	writeLimit gin.HandlerFunc,
) {
	// ------------------------------
	// READ
	// ------------------------------
	secured.GET("/me/appointments", h.DayLayout)
	secured.GET("/me/appointments/week", h.WeekLayout)
	secured.GET("/me/appointments/month", h.Month)
	secured.GET("/me/appointments/slot", h.Slot)
	secured.GET("/me/appointments/availability", h.Availability)
	secured.POST("/me/appointments/conflicts", h.CheckConflict)

	// ------------------------------
	// WRITE
	// ------------------------------
	writes := secured.Group("/me/appointments")
	writes.Use(writeLimit)
	{
		writes.POST("", h.Create)
		writes.PUT("/:id", h.Update)
		writes.PATCH("/:id/reschedule", h.Reschedule)
		writes.PATCH("/:id/status", h.ChangeStatus)
		writes.PATCH("/:id/cancel", h.Cancel)
		writes.PATCH("/:id/complete", h.Complete)
		writes.DELETE("/:id", h.Delete)
	}
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.CORSMiddleware(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config)
	meHandler := handlers.NewMeHandler(d.DB, d.Repo)
	clinicHandler := handlers.NewClinicHandler(d.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, d.Settings.Location)

	workingHoursHandler := handlers.NewWorkingHoursHandler(ucAppointment.NewWorkingHours(d.Repo))

	appointmentHandler := handlers.NewAppointmentHandler(
		NewAppointmentUseCases(d.Repo, d.Audit, d.Cache, d.Settings),
		d.Settings.Location,
	)

	writeLimit := middleware.RateLimit(d.Config.RateLimitPerSecond, d.Config.RateLimitBurst)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", writeLimit, authHandler.Register)
		api.POST("/auth/login", writeLimit, authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/doctors", meHandler.ListDoctors)
			secured.GET("/me/doctors/:id/working-hours", workingHoursHandler.Get)
			secured.PUT("/me/doctors/:id/working-hours", writeLimit, workingHoursHandler.Update)

			secured.GET("/me/clinic", clinicHandler.GetMeClinic)
			secured.PATCH("/me/clinic", clinicHandler.UpdateMeClinic)

			RegisterAppointmentRoutes(secured, appointmentHandler, writeLimit)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
