package contract

import (
	"context"

	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/repository/specification"

	"github.com/google/uuid"
)

type RiskAlertRepository interface {
	Create(ctx context.Context, alert *entity.RiskAlertRecord) error
	CreateBulk(ctx context.Context, alerts []*entity.RiskAlertRecord) error
	Acknowledge(ctx context.Context, id uuid.UUID) error
	DeleteByCaseId(ctx context.Context, caseId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RiskAlertRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RiskAlertRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
