package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StageRecord is one persisted pipeline stage outcome. Details keeps the
// stage-specific payload as raw JSON so the schema never chases the prompt
// contracts.
type StageRecord struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CaseId          uuid.UUID `gorm:"type:uuid;index"`
	Stage           string
	Status          string
	Summary         string
	Details         json.RawMessage
	Confidence      *int
	EvidenceSources []string
	Reasoning       []string
	StartedAt       time.Time
	FinishedAt      time.Time
	CreatedAt       time.Time
}
