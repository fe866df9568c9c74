package contract

import (
	"context"

	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredGuidelineEmbedding pairs a retrieved chunk with its cosine similarity.
type ScoredGuidelineEmbedding struct {
	Embedding  *entity.GuidelineEmbedding
	Similarity float64
}

type GuidelineEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.GuidelineEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.GuidelineEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOrganization(ctx context.Context, organization string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GuidelineEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredGuidelineEmbedding, error)
}
