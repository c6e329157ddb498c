package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Dispatch(ev audit.Event) {
	m.Called(ev)
}

func expectAction(m *mockRecorder, action string) {
	m.On("Dispatch", mock.MatchedBy(func(ev audit.Event) bool {
		return ev.Action == action
	})).Once()
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, clinicID uuid.UUID, day string, doctorID uuid.UUID) (*dto.DayLayoutDTO, bool, error) {
	args := m.Called(ctx, clinicID, day, doctorID)
	layout, _ := args.Get(0).(*dto.DayLayoutDTO)
	return layout, args.Bool(1), args.Error(2)
}

func (m *mockCache) Generation(ctx context.Context, clinicID uuid.UUID, day string) (int64, error) {
	args := m.Called(ctx, clinicID, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, clinicID uuid.UUID, day string, doctorID uuid.UUID, generation int64, layout *dto.DayLayoutDTO) error {
	return m.Called(ctx, clinicID, day, doctorID, generation, layout).Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context, clinicID uuid.UUID, days ...string) error {
	return m.Called(ctx, clinicID, days).Error(0)
}

type fixture struct {
	repo     *repository.AppointmentMemoryRepository
	clinic   models.Clinic
	doctor   models.Staff
	other    models.Staff
	staffID  uuid.UUID
	settings Settings
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := repository.NewAppointmentMemoryRepository()
	clinic := repo.AddClinic(models.Clinic{Name: "Riverside Vet", Slug: "riverside"})
	doctor := repo.AddStaff(models.Staff{ClinicID: clinic.ID, Name: "Dr. Ortega"})
	other := repo.AddStaff(models.Staff{ClinicID: clinic.ID, Name: "Dr. Lindqvist"})

	settings := DefaultSettings()
	settings.Location = time.UTC

	return &fixture{
		repo:     repo,
		clinic:   clinic,
		doctor:   doctor,
		other:    other,
		staffID:  uuid.New(),
		settings: settings,
	}
}

// day is Monday 2024-03-11 in UTC.
func day(hour, minute int) time.Time {
	return time.Date(2024, 3, 11, hour, minute, 0, 0, time.UTC)
}

func (f *fixture) add(t *testing.T, doctor models.Staff, start, end time.Time, status string) *models.Appointment {
	t.Helper()

	ap := &models.Appointment{
		ClinicID:  f.clinic.ID,
		DoctorID:  doctor.ID,
		StartTime: start,
		EndTime:   end,
		Status:    status,
		PetName:   "Biscuit",
		OwnerName: "M. Alvarez",
	}
	require.NoError(t, f.repo.CreateAppointment(context.Background(), ap))
	return ap
}
