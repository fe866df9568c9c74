package implementation

import (
	"context"
	"errors"

	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/mapper"
	"healthmesh-be/internal/model"
	"healthmesh-be/internal/repository/contract"
	"healthmesh-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CaseSynthesisRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CaseSynthesisMapper
}

func NewCaseSynthesisRepository(db *gorm.DB) contract.CaseSynthesisRepository {
	return &CaseSynthesisRepositoryImpl{
		db:     db,
		mapper: mapper.NewCaseSynthesisMapper(),
	}
}

func (r *CaseSynthesisRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CaseSynthesisRepositoryImpl) Create(ctx context.Context, synthesis *entity.CaseSynthesis) error {
	m := r.mapper.ToModel(synthesis)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*synthesis = *r.mapper.ToEntity(m)
	return nil
}

func (r *CaseSynthesisRepositoryImpl) DeleteByCaseId(ctx context.Context, caseId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("case_id = ?", caseId).Delete(&model.CaseSynthesis{}).Error
}

func (r *CaseSynthesisRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CaseSynthesis, error) {
	var m model.CaseSynthesis
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CaseSynthesisRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CaseSynthesis, error) {
	var models []*model.CaseSynthesis
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.CaseSynthesis, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
