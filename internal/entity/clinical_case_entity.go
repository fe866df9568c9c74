package entity

import (
	"time"

	"healthmesh-be/pkg/clinical/scoring"

	"github.com/google/uuid"
)

type CaseStatus string

const (
	CasePending   CaseStatus = "pending"
	CaseAnalyzing CaseStatus = "analyzing"
	CaseAnalyzed  CaseStatus = "analyzed"
	CaseFailed    CaseStatus = "failed"
)

type ClinicalCase struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	PatientId        uuid.UUID `gorm:"type:uuid;index"`
	ClinicalQuestion string
	Diagnoses        []string
	Medications      []string
	Allergies        []string
	Vitals           *scoring.VitalSigns
	Labs             *scoring.LabValues
	Status           CaseStatus
	RiskCategory     string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}
