package appointment

import (
	"fmt"
	"sort"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	MonthGridDays         = 42
	DefaultMonthCellLimit = 4
	DateLayout            = "2006-01-02"
)

// MonthOrder is the display order of appointments inside one month cell.
type MonthOrder string

const (
	// OrderInsertion keeps the order of the source list.
	OrderInsertion MonthOrder = "insertion"
	// OrderChronological sorts by start time, ties in source order.
	OrderChronological MonthOrder = "chronological"
)

func ParseMonthOrder(s string) (MonthOrder, error) {
	switch MonthOrder(s) {
	case "", OrderInsertion:
		return OrderInsertion, nil
	case OrderChronological:
		return OrderChronological, nil
	}
	return "", fmt.Errorf("unknown month order %q", s)
}

// MonthGrid is the 6-week calendar page for one month.
type MonthGrid struct {
	Year  int
	Month time.Month
	Days  [MonthGridDays]time.Time
}

// NewMonthGrid starts the page at the weekStart on or before the first of
// the month.
func NewMonthGrid(year int, month time.Month, weekStart time.Weekday, loc *time.Location) MonthGrid {
	if loc == nil {
		loc = time.Local
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	back := (int(first.Weekday()) - int(weekStart) + 7) % 7
	start := first.AddDate(0, 0, -back)

	g := MonthGrid{Year: first.Year(), Month: first.Month()}
	for i := range g.Days {
		g.Days[i] = start.AddDate(0, 0, i)
	}
	return g
}

func (g MonthGrid) First() time.Time { return g.Days[0] }

// End is the exclusive upper bound of the page.
func (g MonthGrid) End() time.Time { return g.Days[MonthGridDays-1].AddDate(0, 0, 1) }

func (g MonthGrid) InMonth(day time.Time) bool {
	return day.Year() == g.Year && day.Month() == g.Month
}

// BucketByDay groups appointments by the calendar day of their start. Every
// grid day has an entry; appointments outside the page are dropped. Order
// within a day is the source order.
func BucketByDay(appointments []models.Appointment, grid MonthGrid) map[string][]models.Appointment {
	buckets := make(map[string][]models.Appointment, MonthGridDays)
	for _, day := range grid.Days {
		buckets[day.Format(DateLayout)] = []models.Appointment{}
	}

	loc := grid.First().Location()
	for _, ap := range appointments {
		key := ap.StartTime.In(loc).Format(DateLayout)
		if _, ok := buckets[key]; !ok {
			continue
		}
		buckets[key] = append(buckets[key], ap)
	}
	return buckets
}

// DayCell is one rendered square of the month page.
type DayCell struct {
	Date     time.Time            `json:"date"`
	InMonth  bool                 `json:"in_month"`
	Visible  []models.Appointment `json:"visible"`
	Total    int                  `json:"total"`
	Overflow int                  `json:"overflow"`
}

// OverflowLabel is the "+N more" summary, empty when nothing is hidden.
func (c DayCell) OverflowLabel() string {
	if c.Overflow <= 0 {
		return ""
	}
	return fmt.Sprintf("+%d more", c.Overflow)
}

// Summarize caps every cell at limit entries (DefaultMonthCellLimit when
// limit <= 0) and reports the remainder as Overflow.
func Summarize(
	grid MonthGrid,
	appointments []models.Appointment,
	limit int,
	order MonthOrder,
) []DayCell {

	if limit <= 0 {
		limit = DefaultMonthCellLimit
	}

	buckets := BucketByDay(appointments, grid)
	cells := make([]DayCell, 0, MonthGridDays)

	for _, day := range grid.Days {
		entries := buckets[day.Format(DateLayout)]

		if order == OrderChronological {
			sort.SliceStable(entries, func(i, j int) bool {
				return entries[i].StartTime.Before(entries[j].StartTime)
			})
		}

		visible := entries
		if len(visible) > limit {
			visible = visible[:limit]
		}

		cells = append(cells, DayCell{
			Date:     day,
			InMonth:  grid.InMonth(day),
			Visible:  visible,
			Total:    len(entries),
			Overflow: len(entries) - len(visible),
		})
	}
	return cells
}
