package appointment

import (
	"math"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const DefaultSnap = 15 * time.Minute

// DragState is the lifecycle of one drag gesture.
type DragState string

const (
	DragIdle      DragState = "idle"
	DragDragging  DragState = "dragging"
	DragCommitted DragState = "committed"
	DragReverted  DragState = "reverted"
)

// Notice is what the caller should surface to the user after a gesture.
type Notice string

const (
	NoticeNone        Notice = ""
	NoticeConflict    Notice = "conflict"
	NoticeRescheduled Notice = "rescheduled"
)

const (
	ReasonNoMovement  = "no_movement"
	ReasonConflict    = "time_conflict"
	ReasonNotDragging = "not_dragging"
)

type Result struct {
	State          DragState `json:"state"`
	Committed      bool      `json:"committed"`
	Interval       Interval  `json:"interval"`
	Previous       Interval  `json:"previous"`
	SnappedMinutes int       `json:"snapped_minutes"`
	Reason         string    `json:"reason,omitempty"`
	Notice         Notice    `json:"notice,omitempty"`
}

// SnapMinutes rounds a raw minute delta to the nearest multiple of snap.
// Halves round away from zero.
func SnapMinutes(movedMinutes float64, snap time.Duration) int {
	step := snap.Minutes()
	if step <= 0 {
		step = DefaultSnap.Minutes()
	}
	return int(math.Round(movedMinutes/step) * step)
}

// Gesture holds the ephemeral state of a single drag. Nothing it tracks is
// written to the appointment until Release decides to commit.
type Gesture struct {
	target      *models.Appointment
	original    Interval
	hourHeight  float64
	constraints Constraints
	offset      float64
	state       DragState
}

// BeginDrag records the appointment's current interval and the vertical
// travel allowed inside grid.
func BeginDrag(ap *models.Appointment, grid Grid) *Gesture {
	grid = grid.Normalized()
	block := grid.Block(*ap)

	return &Gesture{
		target:      ap,
		original:    IntervalOf(*ap),
		hourHeight:  grid.HourHeight,
		constraints: grid.DragConstraints(block),
		state:       DragDragging,
	}
}

func (g *Gesture) State() DragState { return g.state }
func (g *Gesture) Offset() float64 { return g.offset }
func (g *Gesture) Constraints() Constraints { return g.constraints }
func (g *Gesture) Original() Interval { return g.original }

// Move sets the accumulated pointer offset, clamped to the grid.
func (g *Gesture) Move(dy float64) {
	if g.state != DragDragging {
		return
	}
	g.offset = g.constraints.Clamp(dy)
}

// Release ends the gesture. all is the resource's appointment collection
// used for conflict detection; the dragged appointment itself is
// excluded by id.
func (g *Gesture) Release(all []models.Appointment, snap time.Duration) Result {
	if g.state != DragDragging {
		return Result{
			State:    g.state,
			Interval: IntervalOf(*g.target),
			Previous: g.original,
			Reason:   ReasonNotDragging,
		}
	}

	bounds := &minuteBounds{
		min: g.constraints.Top / g.hourHeight * 60,
		max: g.constraints.Bottom / g.hourHeight * 60,
	}
	res := settle(g.target, g.original, all, g.offset, g.hourHeight, snap, bounds)
	g.state = res.State
	return res
}

// Cancel abandons the gesture without touching the appointment.
func (g *Gesture) Cancel() {
	if g.state == DragDragging {
		g.state = DragReverted
	}
}

// Reschedule is the one-shot form of BeginDrag/Move/Release used when the
// pointer delta is already known. No grid clamping is applied.
func Reschedule(
	ap *models.Appointment,
	all []models.Appointment,
	pixelDelta float64,
	hourHeight float64,
	snap time.Duration,
) Result {
	if hourHeight <= 0 {
		hourHeight = DefaultHourHeight
	}
	return settle(ap, IntervalOf(*ap), all, pixelDelta, hourHeight, snap, nil)
}

// minuteBounds keeps a snapped delta inside the grid; rounding a clamped
// offset up to the next snap step could otherwise push a block past
// midnight.
type minuteBounds struct {
	min, max float64
}

func (b *minuteBounds) fit(snapped int, snap time.Duration) int {
	if b == nil {
		return snapped
	}
	step := int(snap.Minutes())
	if step <= 0 {
		step = int(DefaultSnap.Minutes())
	}
	for snapped > 0 && float64(snapped) > b.max {
		snapped -= step
	}
	for snapped < 0 && float64(snapped) < b.min {
		snapped += step
	}
	return snapped
}

func settle(
	ap *models.Appointment,
	original Interval,
	all []models.Appointment,
	offset float64,
	hourHeight float64,
	snap time.Duration,
	bounds *minuteBounds,
) Result {

	moved := offset / hourHeight * 60
	snapped := bounds.fit(SnapMinutes(moved, snap), snap)

	if snapped == 0 {
		return Result{
			State:    DragReverted,
			Interval: original,
			Previous: original,
			Reason:   ReasonNoMovement,
		}
	}

	candidate := original.Shift(time.Duration(snapped) * time.Minute)

	if HasConflict(candidate, ap.DoctorID, all, ap.ID) {
		restore(ap, original)
		return Result{
			State:          DragReverted,
			Interval:       original,
			Previous:       original,
			SnappedMinutes: snapped,
			Reason:         ReasonConflict,
			Notice:         NoticeConflict,
		}
	}

	restore(ap, candidate)
	return Result{
		State:          DragCommitted,
		Committed:      true,
		Interval:       candidate,
		Previous:       original,
		SnappedMinutes: snapped,
		Notice:         NoticeRescheduled,
	}
}

// restore writes both ends together.
func restore(ap *models.Appointment, iv Interval) {
	ap.StartTime, ap.EndTime = iv.Start, iv.End
}
