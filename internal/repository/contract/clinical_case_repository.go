package contract

import (
	"context"

	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ClinicalCaseRepository interface {
	Create(ctx context.Context, clinicalCase *entity.ClinicalCase) error
	Update(ctx context.Context, clinicalCase *entity.ClinicalCase) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.CaseStatus, riskCategory string) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ClinicalCase, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClinicalCase, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
