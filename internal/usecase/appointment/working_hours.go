package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// WorkingHours reads and replaces a doctor's weekly schedule.
type WorkingHours struct {
	repo domain.Repository
}

func NewWorkingHours(repo domain.Repository) *WorkingHours {
	return &WorkingHours{repo: repo}
}

func (uc *WorkingHours) Get(
	ctx context.Context,
	clinicID uuid.UUID,
	doctorID uuid.UUID,
) ([]models.WorkingHours, error) {

	doctor, err := loadDoctor(ctx, uc.repo, clinicID, doctorID)
	if err != nil {
		return nil, err
	}
	return uc.repo.ListWorkingHours(ctx, doctor.ID)
}

// Replace validates every day before touching storage; a weekday listed
// twice is rejected.
func (uc *WorkingHours) Replace(
	ctx context.Context,
	clinicID uuid.UUID,
	doctorID uuid.UUID,
	days []models.WorkingHours,
) ([]models.WorkingHours, error) {

	doctor, err := loadDoctor(ctx, uc.repo, clinicID, doctorID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(days))
	for _, d := range days {
		if err := domain.ValidateWorkingHours(d); err != nil {
			return nil, err
		}
		if _, dup := seen[d.Weekday]; dup {
			return nil, httperr.ErrBusiness(httperr.CodeInvalidWorkingHours)
		}
		seen[d.Weekday] = struct{}{}
	}

	if err := uc.repo.ReplaceWorkingHours(ctx, doctor.ID, days); err != nil {
		return nil, err
	}
	return uc.repo.ListWorkingHours(ctx, doctor.ID)
}
