package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CaseSynthesis struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaseId            uuid.UUID      `gorm:"type:uuid;not null;index"`
	OverallConfidence string         `gorm:"type:varchar(16)"`
	RiskCategory      string         `gorm:"type:varchar(20)"`
	Payload           datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
}

func (CaseSynthesis) TableName() string {
	return "case_syntheses"
}
