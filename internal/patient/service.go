package patient

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/mediscript/internal"
	patientDatamodel "github.com/frahmantamala/mediscript/internal/core/datamodel/patient"
)

type RepositoryAPI interface {
	List(ctx context.Context, search string, limit, offset int) ([]*patientDatamodel.Patient, error)
	GetByID(ctx context.Context, id int64) (*patientDatamodel.Patient, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns patients whose name or patient number contains the search
// text, case-insensitively. An empty search lists everyone.
func (s *Service) List(ctx context.Context, q ListQuery) ([]*Patient, error) {
	q.Normalize()

	rows, err := s.repo.List(ctx, q.Search, q.Limit, q.Offset)
	if err != nil {
		s.logger.Error("failed to list patients", "search", q.Search, "error", err)
		return nil, internal.NewInternalError("failed to list patients", err)
	}

	patients := make([]*Patient, 0, len(rows))
	for _, row := range rows {
		patients = append(patients, FromDataModel(row))
	}
	return patients, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load patient", "patient_id", id, "error", err)
		return nil, internal.NewInternalError("failed to load patient", err)
	}
	if row == nil {
		return nil, internal.ErrPatientNotFound
	}
	return FromDataModel(row), nil
}
