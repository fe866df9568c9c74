package entity

import (
	"time"

	"github.com/google/uuid"
)

type GuidelineEmbedding struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Organization   string // e.g. "WHO", "AHA", "NICE"
	Title          string
	Section        string
	Document       string // the indexed chunk text
	EmbeddingValue []float32
	ChunkIndex     int
	CreatedAt      time.Time
}
