package unitofwork

import (
	"context"
	"fmt"

	"healthmesh-be/internal/repository/contract"
	"healthmesh-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) PatientRepository() contract.PatientRepository {
	return implementation.NewPatientRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ClinicalCaseRepository() contract.ClinicalCaseRepository {
	return implementation.NewClinicalCaseRepository(u.getDB())
}

func (u *UnitOfWorkImpl) StageRecordRepository() contract.StageRecordRepository {
	return implementation.NewStageRecordRepository(u.getDB())
}

func (u *UnitOfWorkImpl) RiskAlertRepository() contract.RiskAlertRepository {
	return implementation.NewRiskAlertRepository(u.getDB())
}

func (u *UnitOfWorkImpl) CaseSynthesisRepository() contract.CaseSynthesisRepository {
	return implementation.NewCaseSynthesisRepository(u.getDB())
}

func (u *UnitOfWorkImpl) GuidelineEmbeddingRepository() contract.GuidelineEmbeddingRepository {
	return implementation.NewGuidelineEmbeddingRepository(u.getDB())
}
