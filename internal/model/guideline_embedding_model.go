package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type GuidelineEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Organization   string          `gorm:"type:varchar(64);index"`
	Title          string          `gorm:"type:varchar(255)"`
	Section        string          `gorm:"type:varchar(255)"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	ChunkIndex     int             `gorm:"default:0"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (GuidelineEmbedding) TableName() string {
	return "guideline_embeddings"
}
