package dto

import (
	"time"

	"github.com/google/uuid"
)

// BlockDTO is one positioned appointment in a day column. Top and Height
// are pixels; Left and Width are percentages of the column.
type BlockDTO struct {
	AppointmentListDTO

	Top     float64 `json:"top"`
	Height  float64 `json:"height"`
	Column  int     `json:"column"`
	Columns int     `json:"columns"`
	Left    float64 `json:"left"`
	Width   float64 `json:"width"`
	Dimmed  bool    `json:"dimmed"`

	DragTop    float64 `json:"drag_top"`
	DragBottom float64 `json:"drag_bottom"`
}

type DayLayoutDTO struct {
	Date       string     `json:"date"`
	Policy     string     `json:"policy"`
	HourHeight float64    `json:"hour_height"`
	GridHeight float64    `json:"grid_height"`
	Blocks     []BlockDTO `json:"blocks"`
}

type WeekLayoutDTO struct {
	Start string         `json:"start"`
	End   string         `json:"end"`
	Days  []DayLayoutDTO `json:"days"`
}

type MonthCellDTO struct {
	Date          string               `json:"date"`
	InMonth       bool                 `json:"in_month"`
	Appointments  []AppointmentListDTO `json:"appointments"`
	Total         int                  `json:"total"`
	Overflow      int                  `json:"overflow"`
	OverflowLabel string               `json:"overflow_label,omitempty"`
}

type MonthDTO struct {
	Year      int            `json:"year"`
	Month     int            `json:"month"`
	WeekStart string         `json:"week_start"`
	Cells     []MonthCellDTO `json:"cells"`
}

// SlotDTO is the stub offered when an empty part of the grid is clicked.
type SlotDTO struct {
	Date     string     `json:"date"`
	Offset   float64    `json:"offset"`
	DoctorID *uuid.UUID `json:"doctor_id,omitempty"`
	Start    time.Time  `json:"start_time"`
	End      time.Time  `json:"end_time"`
	Conflict bool       `json:"conflict"`
}

type ConflictDTO struct {
	Conflict bool                `json:"conflict"`
	With     *AppointmentListDTO `json:"with,omitempty"`
}

type RescheduleResultDTO struct {
	State          string              `json:"state"`
	Committed      bool                `json:"committed"`
	StartTime      time.Time           `json:"start_time"`
	EndTime        time.Time           `json:"end_time"`
	PreviousStart  time.Time           `json:"previous_start"`
	PreviousEnd    time.Time           `json:"previous_end"`
	SnappedMinutes int                 `json:"snapped_minutes"`
	Reason         string              `json:"reason,omitempty"`
	Notice         string              `json:"notice,omitempty"`
	Appointment    *AppointmentListDTO `json:"appointment,omitempty"`
}
