package appointment

import (
	"math"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	DefaultHourHeight = 120.0
	DefaultMinExtent  = 24.0
	HoursPerDay       = 24
)

// TimeToOffset maps the wall-clock time of t to the top edge of a block in
// a day grid where one hour is hourHeight tall.
func TimeToOffset(t time.Time, hourHeight float64) float64 {
	minutes := float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60
	return minutes / 60 * hourHeight
}

// DurationToExtent never returns less than minExtent so very short
// appointments stay clickable.
func DurationToExtent(durationMinutes, hourHeight, minExtent float64) float64 {
	return math.Max(durationMinutes/60*hourHeight, minExtent)
}

// OffsetToTime is the inverse of TimeToOffset anchored at midnight of
// dayBase. Partial minutes are floored.
func OffsetToTime(pixelOffset, hourHeight float64, dayBase time.Time) time.Time {
	totalMinutes := int(math.Floor(pixelOffset / hourHeight * 60))
	midnight := time.Date(dayBase.Year(), dayBase.Month(), dayBase.Day(), 0, 0, 0, 0, dayBase.Location())
	return midnight.Add(time.Duration(totalMinutes) * time.Minute)
}

// Grid describes the vertical time axis of a day column.
type Grid struct {
	HourHeight float64
	MinExtent  float64
	Hours      int
}

func DefaultGrid() Grid {
	return Grid{
		HourHeight: DefaultHourHeight,
		MinExtent:  DefaultMinExtent,
		Hours:      HoursPerDay,
	}
}

// Normalized fills zero fields with defaults.
func (g Grid) Normalized() Grid {
	if g.HourHeight <= 0 {
		g.HourHeight = DefaultHourHeight
	}
	if g.MinExtent < 0 {
		g.MinExtent = 0
	}
	if g.Hours <= 0 {
		g.Hours = HoursPerDay
	}
	return g
}

func (g Grid) Height() float64 {
	g = g.Normalized()
	return float64(g.Hours) * g.HourHeight
}

// Block is the vertical placement of one appointment.
type Block struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

func (g Grid) Block(ap models.Appointment) Block {
	g = g.Normalized()
	minutes := ap.EndTime.Sub(ap.StartTime).Minutes()
	return Block{
		Top:    TimeToOffset(ap.StartTime, g.HourHeight),
		Height: DurationToExtent(minutes, g.HourHeight, g.MinExtent),
	}
}

// Constraints bound the vertical drag offset of a block: Top is the most
// negative offset allowed, Bottom the most positive.
type Constraints struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// DragConstraints always admits a zero offset: a block drawn past the grid
// edge (a short appointment floored to MinExtent near midnight) may stay
// where it is.
func (g Grid) DragConstraints(b Block) Constraints {
	return Constraints{
		Top:    math.Min(0, -b.Top),
		Bottom: math.Max(0, g.Height()-(b.Top+b.Height)),
	}
}

func (c Constraints) Clamp(dy float64) float64 {
	if dy < c.Top {
		return c.Top
	}
	if c.Bottom >= c.Top && dy > c.Bottom {
		return c.Bottom
	}
	return dy
}
