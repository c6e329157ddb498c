package appointment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// DAY
// ======================================================

type DayLayout struct {
	repo     domain.Repository
	cache    LayoutCache
	settings Settings
}

func NewDayLayout(
	repo domain.Repository,
	cache LayoutCache,
	settings Settings,
) *DayLayout {
	return &DayLayout{
		repo:     repo,
		cache:    cacheOrNoop(cache),
		settings: settings,
	}
}

// Execute lays out every appointment starting on date. doctorID uuid.Nil
// shows the whole clinic.
func (uc *DayLayout) Execute(
	ctx context.Context,
	clinicID uuid.UUID,
	doctorID uuid.UUID,
	date time.Time,
) (*dto.DayLayoutDTO, error) {

	loc := uc.settings.location()
	start, end := dayBounds(date, loc)
	day := start.Format(domain.DateLayout)

	if cached, ok, err := uc.cache.Get(ctx, clinicID, day, doctorID); err != nil {
		logger.FromContext(ctx).Warn("layout cache read failed", slog.String("error", err.Error()))
	} else if ok {
		return cached, nil
	}

	generation, genErr := uc.cache.Generation(ctx, clinicID, day)
	if genErr != nil {
		logger.FromContext(ctx).Warn("layout cache generation read failed", slog.String("error", genErr.Error()))
	}

	apps, err := uc.repo.ListAppointmentsForPeriod(ctx, clinicID, doctorID, start, end)
	if err != nil {
		return nil, err
	}

	layout := buildDayLayout(day, apps, uc.settings)

	if genErr == nil {
		if err := uc.cache.Set(ctx, clinicID, day, doctorID, generation, &layout); err != nil {
			logger.FromContext(ctx).Warn("layout cache write failed", slog.String("error", err.Error()))
		}
	}
	return &layout, nil
}

// buildDayLayout keeps the blocks in source order; placement does not
// reorder them.
func buildDayLayout(day string, apps []models.Appointment, settings Settings) dto.DayLayoutDTO {
	grid := settings.Grid.Normalized()
	placements := domain.LayoutDayWithPolicy(apps, settings.Policy)

	blocks := make([]dto.BlockDTO, 0, len(apps))
	for _, ap := range apps {
		block := grid.Block(ap)
		placement, ok := placements[ap.ID]
		if !ok {
			placement = domain.FullWidth
		}
		drag := grid.DragConstraints(block)

		blocks = append(blocks, dto.BlockDTO{
			AppointmentListDTO: dto.FromAppointment(ap),
			Top:                block.Top,
			Height:             block.Height,
			Column:             placement.Column,
			Columns:            placement.Columns,
			Left:               placement.LeftPercent(),
			Width:              placement.WidthPercent(),
			Dimmed:             domain.Status(ap.Status).Dimmed(),
			DragTop:            drag.Top,
			DragBottom:         drag.Bottom,
		})
	}

	policy := settings.Policy
	if policy == "" {
		policy = domain.PolicySharedGrid
	}

	return dto.DayLayoutDTO{
		Date:       day,
		Policy:     string(policy),
		HourHeight: grid.HourHeight,
		GridHeight: grid.Height(),
		Blocks:     blocks,
	}
}

// ======================================================
// WEEK
// ======================================================

type WeekLayout struct {
	repo     domain.Repository
	settings Settings
}

func NewWeekLayout(
	repo domain.Repository,
	settings Settings,
) *WeekLayout {
	return &WeekLayout{
		repo:     repo,
		settings: settings,
	}
}

func WeekStartOf(date time.Time, weekStart time.Weekday, loc *time.Location) time.Time {
	start, _ := dayBounds(date, loc)
	back := (int(start.Weekday()) - int(weekStart) + 7) % 7
	return start.AddDate(0, 0, -back)
}

func (uc *WeekLayout) Execute(
	ctx context.Context,
	clinicID uuid.UUID,
	doctorID uuid.UUID,
	date time.Time,
) (*dto.WeekLayoutDTO, error) {

	loc := uc.settings.location()
	start := WeekStartOf(date, uc.settings.WeekStart, loc)
	end := start.AddDate(0, 0, 7)

	apps, err := uc.repo.ListAppointmentsForPeriod(ctx, clinicID, doctorID, start, end)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]models.Appointment, 7)
	for _, ap := range apps {
		key := ap.StartTime.In(loc).Format(domain.DateLayout)
		byDay[key] = append(byDay[key], ap)
	}

	out := &dto.WeekLayoutDTO{
		Start: start.Format(domain.DateLayout),
		End:   end.AddDate(0, 0, -1).Format(domain.DateLayout),
		Days:  make([]dto.DayLayoutDTO, 0, 7),
	}
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i).Format(domain.DateLayout)
		out.Days = append(out.Days, buildDayLayout(day, byDay[day], uc.settings))
	}
	return out, nil
}
