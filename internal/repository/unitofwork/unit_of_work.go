package unitofwork

import (
	"context"

	"healthmesh-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PatientRepository() contract.PatientRepository
	ClinicalCaseRepository() contract.ClinicalCaseRepository
	StageRecordRepository() contract.StageRecordRepository
	RiskAlertRepository() contract.RiskAlertRepository
	CaseSynthesisRepository() contract.CaseSynthesisRepository
	GuidelineEmbeddingRepository() contract.GuidelineEmbeddingRepository
}
