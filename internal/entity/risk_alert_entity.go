package entity

import (
	"time"

	"github.com/google/uuid"
)

type RiskAlertRecord struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CaseId          uuid.UUID `gorm:"type:uuid;index"`
	PatientId       uuid.UUID `gorm:"type:uuid;index"`
	Type            string
	Severity        string
	Title           string
	Description     string
	SourceStage     string
	SuggestedAction string
	Acknowledged    bool
	AcknowledgedAt  *time.Time
	CreatedAt       time.Time
}
