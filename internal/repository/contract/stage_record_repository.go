package contract

import (
	"context"

	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/repository/specification"

	"github.com/google/uuid"
)

type StageRecordRepository interface {
	Create(ctx context.Context, record *entity.StageRecord) error
	CreateBulk(ctx context.Context, records []*entity.StageRecord) error
	DeleteByCaseId(ctx context.Context, caseId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StageRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
