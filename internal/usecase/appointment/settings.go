package appointment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// SETTINGS
// ======================================================

// Settings carries the calendar geometry shared by every use case.
type Settings struct {
	Grid           domain.Grid
	Snap           time.Duration
	WeekStart      time.Weekday
	MonthCellLimit int
	Policy         domain.LayoutPolicy
	MonthOrder     domain.MonthOrder
	Location       *time.Location
}

func DefaultSettings() Settings {
	return Settings{
		Grid:           domain.DefaultGrid(),
		Snap:           domain.DefaultSnap,
		WeekStart:      time.Sunday,
		MonthCellLimit: domain.DefaultMonthCellLimit,
		Policy:         domain.PolicySharedGrid,
		MonthOrder:     domain.OrderInsertion,
		Location:       time.Local,
	}
}

func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	policy, err := domain.ParseLayoutPolicy(cfg.LayoutPolicy)
	if err != nil {
		return Settings{}, err
	}
	order, err := domain.ParseMonthOrder(cfg.MonthOrder)
	if err != nil {
		return Settings{}, err
	}

	s := DefaultSettings()
	s.Grid.HourHeight = cfg.HourHeight
	s.Grid.MinExtent = cfg.MinBlockHeight
	s.Snap = cfg.Snap()
	s.WeekStart = cfg.FirstWeekday()
	s.MonthCellLimit = cfg.MonthCellLimit
	s.Policy = policy
	s.MonthOrder = order
	return s, nil
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

// ======================================================
// LAYOUT CACHE
// ======================================================

// LayoutCache stores computed day layouts keyed by clinic, day and doctor
// filter (uuid.Nil for all doctors).
type LayoutCache interface {
	Get(ctx context.Context, clinicID uuid.UUID, day string, doctorID uuid.UUID) (*dto.DayLayoutDTO, bool, error)
	// Generation is the day's invalidation counter. Read it before loading
	// the rows a layout is built from and hand it back to Set.
	Generation(ctx context.Context, clinicID uuid.UUID, day string) (int64, error)
	// Set stores layout only if the day is still at generation, so a fill
	// racing a write's Invalidate is dropped.
	Set(ctx context.Context, clinicID uuid.UUID, day string, doctorID uuid.UUID, generation int64, layout *dto.DayLayoutDTO) error
	Invalidate(ctx context.Context, clinicID uuid.UUID, days ...string) error
}

// NoCache always misses. It stands in when no Redis URL is configured.
type NoCache struct{}

func (NoCache) Get(context.Context, uuid.UUID, string, uuid.UUID) (*dto.DayLayoutDTO, bool, error) {
	return nil, false, nil
}
func (NoCache) Generation(context.Context, uuid.UUID, string) (int64, error) { return 0, nil }
func (NoCache) Set(context.Context, uuid.UUID, string, uuid.UUID, int64, *dto.DayLayoutDTO) error {
	return nil
}
func (NoCache) Invalidate(context.Context, uuid.UUID, ...string) error { return nil }

func cacheOrNoop(c LayoutCache) LayoutCache {
	if c == nil {
		return NoCache{}
	}
	return c
}

// invalidateDays drops cached layouts for the calendar days the intervals
// start on. Cache failures are logged, never returned.
func invalidateDays(
	ctx context.Context,
	cache LayoutCache,
	clinicID uuid.UUID,
	loc *time.Location,
	intervals ...domain.Interval,
) {
	seen := make(map[string]struct{}, len(intervals))
	days := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		day := iv.Start.In(loc).Format(domain.DateLayout)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}

	if err := cache.Invalidate(ctx, clinicID, days...); err != nil {
		logger.FromContext(ctx).Warn("layout cache invalidate failed",
			slog.String("clinic_id", clinicID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// ======================================================
// HELPERS
// ======================================================

func dayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	d := day.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func loadAppointment(
	ctx context.Context,
	repo domain.Repository,
	clinicID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	ap, err := repo.GetAppointment(ctx, clinicID, appointmentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}
	return ap, err
}

func loadDoctor(
	ctx context.Context,
	repo domain.Repository,
	clinicID uuid.UUID,
	doctorID uuid.UUID,
) (*models.Staff, error) {

	if doctorID == uuid.Nil {
		return nil, httperr.ErrBusiness(httperr.CodeMissingResource)
	}

	doctor, err := repo.GetDoctor(ctx, clinicID, doctorID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeDoctorNotFound)
	}
	return doctor, err
}

// assertFree loads the doctor's rows around candidate and runs the
// conflict detector over them.
func assertFree(
	ctx context.Context,
	repo domain.Repository,
	candidate domain.Interval,
	doctorID uuid.UUID,
	excludeID uuid.UUID,
) error {

	existing, err := repo.ListOverlapping(ctx, doctorID, candidate.Start, candidate.End)
	if err != nil {
		return err
	}
	if domain.HasConflict(candidate, doctorID, existing, excludeID) {
		return httperr.ErrBusiness(httperr.CodeTimeConflict)
	}
	return nil
}

// persistErr turns a database overlap rejection into the business conflict
// raised by the in-process check.
func persistErr(err error) error {
	if httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness(httperr.CodeTimeConflict)
	}
	return err
}

func staffRef(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
