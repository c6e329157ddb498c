package appointment

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// LayoutPolicy decides which appointments compete for columns.
type LayoutPolicy string

const (
	// PolicySharedGrid lays out every appointment of the day in one column
	// group regardless of doctor.
	PolicySharedGrid LayoutPolicy = "shared"
	// PolicyPerResource clusters each doctor independently.
	PolicyPerResource LayoutPolicy = "per_resource"
)

func ParseLayoutPolicy(s string) (LayoutPolicy, error) {
	switch LayoutPolicy(s) {
	case "", PolicySharedGrid:
		return PolicySharedGrid, nil
	case PolicyPerResource:
		return PolicyPerResource, nil
	}
	return "", fmt.Errorf("unknown layout policy %q", s)
}

// Placement is the horizontal slot of one appointment. Left and Width are
// fractions of the day column.
type Placement struct {
	Column  int     `json:"column"`
	Columns int     `json:"columns"`
	Left    float64 `json:"left"`
	Width   float64 `json:"width"`
}

func (p Placement) LeftPercent() float64 { return p.Left * 100 }
func (p Placement) WidthPercent() float64 { return p.Width * 100 }

// FullWidth is the placement of an appointment that shares time with no one.
var FullWidth = Placement{Column: 0, Columns: 1, Left: 0, Width: 1}

// LayoutDay assigns every appointment a column inside its overlap cluster.
// The caller pre-filters to one day; the input is not required to be
// conflict free.
func LayoutDay(appointments []models.Appointment) map[uuid.UUID]Placement {
	return LayoutDayWithPolicy(appointments, PolicySharedGrid)
}

func LayoutDayWithPolicy(
	appointments []models.Appointment,
	policy LayoutPolicy,
) map[uuid.UUID]Placement {

	out := make(map[uuid.UUID]Placement, len(appointments))

	if policy != PolicyPerResource {
		layoutGroup(appointments, out)
		return out
	}

	for _, group := range groupByResource(appointments) {
		layoutGroup(group, out)
	}
	return out
}

// Clusters returns the maximal transitively-overlapping groups in start
// order.
func Clusters(appointments []models.Appointment) [][]models.Appointment {
	sorted := sortedByStart(appointments)
	return clusterSorted(sorted)
}

func layoutGroup(appointments []models.Appointment, out map[uuid.UUID]Placement) {
	for _, cluster := range Clusters(appointments) {
		assignColumns(cluster, out)
	}
}

// sortedByStart copies the input so the caller's order is untouched; ties
// keep their original relative order.
func sortedByStart(appointments []models.Appointment) []models.Appointment {
	sorted := make([]models.Appointment, len(appointments))
	copy(sorted, appointments)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})
	return sorted
}

func clusterSorted(sorted []models.Appointment) [][]models.Appointment {
	var (
		clusters   [][]models.Appointment
		current    []models.Appointment
		clusterEnd time.Time
	)

	for _, ap := range sorted {
		if len(current) == 0 {
			current = []models.Appointment{ap}
			clusterEnd = ap.EndTime
			continue
		}

		if ap.StartTime.Before(clusterEnd) {
			current = append(current, ap)
			// running maximum: a short appointment nested in a long one
			// must not shrink the cluster
			if ap.EndTime.After(clusterEnd) {
				clusterEnd = ap.EndTime
			}
			continue
		}

		clusters = append(clusters, current)
		current = []models.Appointment{ap}
		clusterEnd = ap.EndTime
	}

	if len(current) > 0 {
		clusters = append(clusters, current)
	}
	return clusters
}

// assignColumns is first-fit interval colouring; the column count equals
// the maximum overlap depth of the cluster.
func assignColumns(cluster []models.Appointment, out map[uuid.UUID]Placement) {
	var columnEnds []time.Time
	index := make([]int, len(cluster))

	for i, ap := range cluster {
		placed := false
		for c, lastEnd := range columnEnds {
			if !lastEnd.After(ap.StartTime) {
				columnEnds[c] = ap.EndTime
				index[i] = c
				placed = true
				break
			}
		}
		if !placed {
			columnEnds = append(columnEnds, ap.EndTime)
			index[i] = len(columnEnds) - 1
		}
	}

	columns := len(columnEnds)
	width := 1 / float64(columns)

	for i, ap := range cluster {
		out[ap.ID] = Placement{
			Column:  index[i],
			Columns: columns,
			Left:    float64(index[i]) * width,
			Width:   width,
		}
	}
}

func groupByResource(appointments []models.Appointment) [][]models.Appointment {
	var order []uuid.UUID
	groups := make(map[uuid.UUID][]models.Appointment)

	for _, ap := range appointments {
		if _, ok := groups[ap.DoctorID]; !ok {
			order = append(order, ap.DoctorID)
		}
		groups[ap.DoctorID] = append(groups[ap.DoctorID], ap)
	}

	out := make([][]models.Appointment, 0, len(order))
	for _, id := range order {
		out = append(out, groups[id])
	}
	return out
}
