package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type MonthView struct {
	repo     domain.Repository
	settings Settings
}

func NewMonthView(
	repo domain.Repository,
	settings Settings,
) *MonthView {
	return &MonthView{
		repo:     repo,
		settings: settings,
	}
}

// Execute buckets the whole 6-week page, so the leading and trailing days
// of neighbouring months carry their appointments too.
func (uc *MonthView) Execute(
	ctx context.Context,
	clinicID uuid.UUID,
	doctorID uuid.UUID,
	year int,
	month int,
) (*dto.MonthDTO, error) {

	if month < 1 || month > 12 || year < 1 {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDate)
	}

	grid := domain.NewMonthGrid(year, time.Month(month), uc.settings.WeekStart, uc.settings.location())

	apps, err := uc.repo.ListAppointmentsForPeriod(ctx, clinicID, doctorID, grid.First(), grid.End())
	if err != nil {
		return nil, err
	}

	cells := domain.Summarize(grid, apps, uc.settings.MonthCellLimit, uc.settings.MonthOrder)

	out := &dto.MonthDTO{
		Year:      year,
		Month:     month,
		WeekStart: uc.settings.WeekStart.String(),
		Cells:     make([]dto.MonthCellDTO, 0, len(cells)),
	}
	for _, c := range cells {
		out.Cells = append(out.Cells, dto.MonthCellDTO{
			Date:          c.Date.Format(domain.DateLayout),
			InMonth:       c.InMonth,
			Appointments:  dto.FromAppointments(c.Visible),
			Total:         c.Total,
			Overflow:      c.Overflow,
			OverflowLabel: c.OverflowLabel(),
		})
	}
	return out, nil
}
