package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ClinicalCase struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PatientId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	ClinicalQuestion string         `gorm:"type:text;not null"`
	Diagnoses        datatypes.JSON `gorm:"type:jsonb"`
	Medications      datatypes.JSON `gorm:"type:jsonb"`
	Allergies        datatypes.JSON `gorm:"type:jsonb"`
	Vitals           datatypes.JSON `gorm:"type:jsonb"`
	Labs             datatypes.JSON `gorm:"type:jsonb"`
	Status           string         `gorm:"type:varchar(20);default:'pending';index"`
	RiskCategory     string         `gorm:"type:varchar(20)"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (ClinicalCase) TableName() string {
	return "clinical_cases"
}
