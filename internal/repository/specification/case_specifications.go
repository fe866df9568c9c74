package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByPatient filters rows belonging to a patient.
type ByPatient struct {
	PatientId uuid.UUID
}

func (s ByPatient) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("patient_id = ?", s.PatientId)
}

// ByCase filters rows belonging to a clinical case.
type ByCase struct {
	CaseId uuid.UUID
}

func (s ByCase) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("case_id = ?", s.CaseId)
}

// ByStage filters stage records by stage key.
type ByStage struct {
	Stage string
}

func (s ByStage) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stage = ?", s.Stage)
}

// ByStatus filters by a status column.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// BySeverity filters risk alerts by severity.
type BySeverity struct {
	Severity string
}

func (s BySeverity) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("severity = ?", s.Severity)
}

// Unacknowledged keeps only alerts nobody has acknowledged yet.
type Unacknowledged struct{}

func (s Unacknowledged) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("acknowledged = ?", false)
}

// ByMRN filters patients by medical record number.
type ByMRN struct {
	MRN string
}

func (s ByMRN) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("mrn = ?", s.MRN)
}
