// FILE: internal/dto/guideline_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestGuidelineRequest struct {
	Organization string `json:"organization" validate:"required,min=2,max=64"`
	Title        string `json:"title" validate:"required,min=3,max=255"`
	Section      string `json:"section" validate:"max=255"`
	Document     string `json:"document" validate:"required,min=50"`
}

type IngestGuidelineResponse struct {
	Organization string `json:"organization"`
	Title        string `json:"title"`
	ChunkCount   int    `json:"chunk_count"`
}

type GuidelineChunkResponse struct {
	Id           uuid.UUID `json:"id"`
	Organization string    `json:"organization"`
	Title        string    `json:"title"`
	Section      string    `json:"section,omitempty"`
	ChunkIndex   int       `json:"chunk_index"`
	Preview      string    `json:"preview"`
	CreatedAt    time.Time `json:"created_at"`
}

type ListGuidelinesResponse struct {
	Items []*GuidelineChunkResponse `json:"items"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
