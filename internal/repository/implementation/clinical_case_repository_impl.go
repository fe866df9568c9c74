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

type ClinicalCaseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ClinicalCaseMapper
}

func NewClinicalCaseRepository(db *gorm.DB) contract.ClinicalCaseRepository {
	return &ClinicalCaseRepositoryImpl{
		db:     db,
		mapper: mapper.NewClinicalCaseMapper(),
	}
}

func (r *ClinicalCaseRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ClinicalCaseRepositoryImpl) Create(ctx context.Context, clinicalCase *entity.ClinicalCase) error {
	m := r.mapper.ToModel(clinicalCase)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*clinicalCase = *r.mapper.ToEntity(m)
	return nil
}

func (r *ClinicalCaseRepositoryImpl) Update(ctx context.Context, clinicalCase *entity.ClinicalCase) error {
	m := r.mapper.ToModel(clinicalCase)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*clinicalCase = *r.mapper.ToEntity(m)
	return nil
}

func (r *ClinicalCaseRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.CaseStatus, riskCategory string) error {
	updates := map[string]interface{}{"status": string(status)}
	if riskCategory != "" {
		updates["risk_category"] = riskCategory
	}

	result := r.db.WithContext(ctx).
		Model(&model.ClinicalCase{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("clinical case not found")
	}
	return nil
}

func (r *ClinicalCaseRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ClinicalCase{}, id).Error
}

func (r *ClinicalCaseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ClinicalCase, error) {
	var m model.ClinicalCase
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ClinicalCaseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClinicalCase, error) {
	var models []*model.ClinicalCase
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ClinicalCaseRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ClinicalCase{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
