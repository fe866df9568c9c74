package contract

import (
	"context"

	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CaseSynthesisRepository interface {
	Create(ctx context.Context, synthesis *entity.CaseSynthesis) error
	DeleteByCaseId(ctx context.Context, caseId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CaseSynthesis, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CaseSynthesis, error)
}
