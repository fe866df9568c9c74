package implementation

import (
	"context"
	"errors"
	"time"

	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/mapper"
	"healthmesh-be/internal/model"
	"healthmesh-be/internal/repository/contract"
	"healthmesh-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RiskAlertRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RiskAlertMapper
}

func NewRiskAlertRepository(db *gorm.DB) contract.RiskAlertRepository {
	return &RiskAlertRepositoryImpl{
		db:     db,
		mapper: mapper.NewRiskAlertMapper(),
	}
}

func (r *RiskAlertRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RiskAlertRepositoryImpl) Create(ctx context.Context, alert *entity.RiskAlertRecord) error {
	m := r.mapper.ToModel(alert)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*alert = *r.mapper.ToEntity(m)
	return nil
}

func (r *RiskAlertRepositoryImpl) CreateBulk(ctx context.Context, alerts []*entity.RiskAlertRecord) error {
	if len(alerts) == 0 {
		return nil
	}

	models := make([]*model.RiskAlertRecord, len(alerts))
	for i, a := range alerts {
		models[i] = r.mapper.ToModel(a)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*alerts[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *RiskAlertRepositoryImpl) Acknowledge(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.RiskAlertRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"acknowledged":    true,
			"acknowledged_at": now,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("risk alert not found")
	}
	return nil
}

func (r *RiskAlertRepositoryImpl) DeleteByCaseId(ctx context.Context, caseId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("case_id = ?", caseId).Delete(&model.RiskAlertRecord{}).Error
}

func (r *RiskAlertRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RiskAlertRecord, error) {
	var m model.RiskAlertRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RiskAlertRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RiskAlertRecord, error) {
	var models []*model.RiskAlertRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *RiskAlertRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.RiskAlertRecord{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
