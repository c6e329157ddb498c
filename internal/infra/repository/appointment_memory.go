package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type memoryStore struct {
	mu           sync.Mutex
	clinics      map[uuid.UUID]models.Clinic
	staff        map[uuid.UUID]models.Staff
	hours        map[uuid.UUID][]models.WorkingHours
	appointments []models.Appointment
}

// AppointmentMemoryRepository keeps everything in process. Appointments
// are held in insertion order. Transaction serializes callers on one
// mutex and rolls the appointment table back when fn fails.
type AppointmentMemoryRepository struct {
	store  *memoryStore
	locked bool
	now    func() time.Time
}

func NewAppointmentMemoryRepository() *AppointmentMemoryRepository {
	return &AppointmentMemoryRepository{
		store: &memoryStore{
			clinics: make(map[uuid.UUID]models.Clinic),
			staff:   make(map[uuid.UUID]models.Staff),
			hours:   make(map[uuid.UUID][]models.WorkingHours),
		},
		now: time.Now,
	}
}

func (r *AppointmentMemoryRepository) lock() func() {
	if r.locked {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

// --------------------------------------------------
// Seeding
// --------------------------------------------------

func (r *AppointmentMemoryRepository) AddClinic(c models.Clinic) models.Clinic {
	defer r.lock()()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.store.clinics[c.ID] = c
	return c
}

func (r *AppointmentMemoryRepository) AddStaff(s models.Staff) models.Staff {
	defer r.lock()()

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Role == "" {
		s.Role = models.RoleDoctor
	}
	r.store.staff[s.ID] = s
	return s
}

// --------------------------------------------------
// Clinic / Staff
// --------------------------------------------------

func (r *AppointmentMemoryRepository) GetClinicByID(
	_ context.Context,
	id uuid.UUID,
) (*models.Clinic, error) {
	defer r.lock()()

	c, ok := r.store.clinics[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *AppointmentMemoryRepository) GetDoctor(
	_ context.Context,
	clinicID uuid.UUID,
	doctorID uuid.UUID,
) (*models.Staff, error) {
	defer r.lock()()

	s, ok := r.store.staff[doctorID]
	if !ok || s.ClinicID != clinicID || s.Role != models.RoleDoctor {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *AppointmentMemoryRepository) ListDoctors(
	_ context.Context,
	clinicID uuid.UUID,
) ([]models.Staff, error) {
	defer r.lock()()

	doctors := []models.Staff{}
	for _, s := range r.store.staff {
		if s.ClinicID == clinicID && s.Role == models.RoleDoctor {
			doctors = append(doctors, s)
		}
	}
	sort.Slice(doctors, func(i, j int) bool {
		return strings.ToLower(doctors[i].Name) < strings.ToLower(doctors[j].Name)
	})
	return doctors, nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *AppointmentMemoryRepository) GetWorkingHours(
	_ context.Context,
	doctorID uuid.UUID,
	weekday time.Weekday,
) (*models.WorkingHours, error) {
	defer r.lock()()

	for _, wh := range r.store.hours[doctorID] {
		if wh.Weekday == int(weekday) {
			found := wh
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *AppointmentMemoryRepository) ListWorkingHours(
	_ context.Context,
	doctorID uuid.UUID,
) ([]models.WorkingHours, error) {
	defer r.lock()()

	hours := append([]models.WorkingHours{}, r.store.hours[doctorID]...)
	sort.Slice(hours, func(i, j int) bool { return hours[i].Weekday < hours[j].Weekday })
	return hours, nil
}

func (r *AppointmentMemoryRepository) ReplaceWorkingHours(
	_ context.Context,
	doctorID uuid.UUID,
	hours []models.WorkingHours,
) error {
	defer r.lock()()

	now := r.now()
	stored := make([]models.WorkingHours, 0, len(hours))
	for _, wh := range hours {
		if wh.ID == uuid.Nil {
			wh.ID = uuid.New()
		}
		wh.DoctorID = doctorID
		wh.CreatedAt, wh.UpdatedAt = now, now
		stored = append(stored, wh)
	}
	r.store.hours[doctorID] = stored
	return nil
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

func (r *AppointmentMemoryRepository) CreateAppointment(
	_ context.Context,
	ap *models.Appointment,
) error {
	defer r.lock()()

	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	if ap.Status == "" {
		ap.Status = string(domain.InitialStatus())
	}
	now := r.now()
	ap.CreatedAt, ap.UpdatedAt = now, now

	stored := *ap
	stored.Doctor = nil
	r.store.appointments = append(r.store.appointments, stored)
	return nil
}

func (r *AppointmentMemoryRepository) UpdateAppointment(
	_ context.Context,
	ap *models.Appointment,
) error {
	defer r.lock()()

	i := r.indexOf(ap.ClinicID, ap.ID)
	if i < 0 {
		return domain.ErrNotFound
	}

	ap.UpdatedAt = r.now()
	stored := *ap
	stored.Doctor = nil
	r.store.appointments[i] = stored
	return nil
}

func (r *AppointmentMemoryRepository) DeleteAppointment(
	_ context.Context,
	clinicID uuid.UUID,
	appointmentID uuid.UUID,
) error {
	defer r.lock()()

	i := r.indexOf(clinicID, appointmentID)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.store.appointments = append(r.store.appointments[:i], r.store.appointments[i+1:]...)
	return nil
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentMemoryRepository) GetAppointment(
	_ context.Context,
	clinicID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {
	defer r.lock()()

	i := r.indexOf(clinicID, appointmentID)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	ap := r.store.appointments[i]
	return &ap, nil
}

func (r *AppointmentMemoryRepository) ListOverlapping(
	_ context.Context,
	doctorID uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {
	defer r.lock()()

	out := []models.Appointment{}
	for _, ap := range r.store.appointments {
		if ap.DoctorID == doctorID && ap.StartTime.Before(end) && ap.EndTime.After(start) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *AppointmentMemoryRepository) ListAppointmentsForPeriod(
	_ context.Context,
	clinicID uuid.UUID,
	doctorID uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {
	defer r.lock()()

	out := []models.Appointment{}
	for _, ap := range r.store.appointments {
		if ap.ClinicID != clinicID {
			continue
		}
		if doctorID != uuid.Nil && ap.DoctorID != doctorID {
			continue
		}
		if ap.StartTime.Before(start) || !ap.StartTime.Before(end) {
			continue
		}
		if s, ok := r.store.staff[ap.DoctorID]; ok {
			doctor := s
			ap.Doctor = &doctor
		}
		out = append(out, ap)
	}
	return out, nil
}

// --------------------------------------------------
// Unit of work
// --------------------------------------------------

func (r *AppointmentMemoryRepository) Transaction(
	_ context.Context,
	fn func(tx domain.Repository) error,
) error {
	if r.locked {
		return fn(r)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snapshot := make([]models.Appointment, len(r.store.appointments))
	copy(snapshot, r.store.appointments)

	tx := &AppointmentMemoryRepository{store: r.store, locked: true, now: r.now}
	if err := fn(tx); err != nil {
		r.store.appointments = snapshot
		return err
	}
	return nil
}

func (r *AppointmentMemoryRepository) indexOf(clinicID, appointmentID uuid.UUID) int {
	for i, ap := range r.store.appointments {
		if ap.ID == appointmentID && ap.ClinicID == clinicID {
			return i
		}
	}
	return -1
}

// Compile-time check
var _ domain.Repository = (*AppointmentMemoryRepository)(nil)
