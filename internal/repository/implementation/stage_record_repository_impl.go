package implementation

import (
	"context"

	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/mapper"
	"healthmesh-be/internal/model"
	"healthmesh-be/internal/repository/contract"
	"healthmesh-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StageRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StageRecordMapper
}

func NewStageRecordRepository(db *gorm.DB) contract.StageRecordRepository {
	return &StageRecordRepositoryImpl{
		db:     db,
		mapper: mapper.NewStageRecordMapper(),
	}
}

func (r *StageRecordRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *StageRecordRepositoryImpl) Create(ctx context.Context, record *entity.StageRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *StageRecordRepositoryImpl) CreateBulk(ctx context.Context, records []*entity.StageRecord) error {
	if len(records) == 0 {
		return nil
	}

	models := make([]*model.StageRecord, len(records))
	for i, rec := range records {
		models[i] = r.mapper.ToModel(rec)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*records[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *StageRecordRepositoryImpl) DeleteByCaseId(ctx context.Context, caseId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("case_id = ?", caseId).Delete(&model.StageRecord{}).Error
}

func (r *StageRecordRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StageRecord, error) {
	var models []*model.StageRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *StageRecordRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.StageRecord{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
