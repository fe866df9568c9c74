package model

import (
	"time"

	"github.com/google/uuid"
)

type RiskAlertRecord struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaseId          uuid.UUID `gorm:"type:uuid;not null;index:idx_risk_alerts_case"`
	PatientId       uuid.UUID `gorm:"type:uuid;not null;index:idx_risk_alerts_patient"`
	Type            string    `gorm:"type:varchar(32);not null"`
	Severity        string    `gorm:"type:varchar(16);not null;index:idx_risk_alerts_severity"`
	Title           string    `gorm:"type:varchar(255);not null"`
	Description     string    `gorm:"type:text"`
	SourceStage     string    `gorm:"type:varchar(32)"`
	SuggestedAction string    `gorm:"type:text"`
	Acknowledged    bool      `gorm:"default:false;index:idx_risk_alerts_unacked"`
	AcknowledgedAt  *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (RiskAlertRecord) TableName() string {
	return "risk_alerts"
}
