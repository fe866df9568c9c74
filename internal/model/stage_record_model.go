package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type StageRecord struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaseId          uuid.UUID      `gorm:"type:uuid;not null;index:idx_stage_records_case_created,priority:1"`
	Stage           string         `gorm:"type:varchar(32);not null"`
	Status          string         `gorm:"type:varchar(16);not null"`
	Summary         string         `gorm:"type:text"`
	Details         datatypes.JSON `gorm:"type:jsonb"`
	Confidence      *int
	EvidenceSources datatypes.JSON `gorm:"type:jsonb"`
	Reasoning       datatypes.JSON `gorm:"type:jsonb"`
	StartedAt       time.Time
	FinishedAt      time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime;index:idx_stage_records_case_created,priority:2"`
}

func (StageRecord) TableName() string {
	return "stage_records"
}
