package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CaseSynthesis is the persisted final assessment for one analysis run.
type CaseSynthesis struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey"`
	CaseId            uuid.UUID `gorm:"type:uuid;index"`
	OverallConfidence string
	RiskCategory      string
	Payload           json.RawMessage
	CreatedAt         time.Time
}
