package mapper

import (
	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type GuidelineEmbeddingMapper struct{}

func NewGuidelineEmbeddingMapper() *GuidelineEmbeddingMapper {
	return &GuidelineEmbeddingMapper{}
}

func (m *GuidelineEmbeddingMapper) ToEntity(g *model.GuidelineEmbedding) *entity.GuidelineEmbedding {
	if g == nil {
		return nil
	}

	return &entity.GuidelineEmbedding{
		Id:             g.Id,
		Organization:   g.Organization,
		Title:          g.Title,
		Section:        g.Section,
		Document:       g.Document,
		EmbeddingValue: g.EmbeddingValue.Slice(),
		ChunkIndex:     g.ChunkIndex,
		CreatedAt:      g.CreatedAt,
	}
}

func (m *GuidelineEmbeddingMapper) ToModel(g *entity.GuidelineEmbedding) *model.GuidelineEmbedding {
	if g == nil {
		return nil
	}

	return &model.GuidelineEmbedding{
		Id:             g.Id,
		Organization:   g.Organization,
		Title:          g.Title,
		Section:        g.Section,
		Document:       g.Document,
		EmbeddingValue: pgvector.NewVector(g.EmbeddingValue),
		ChunkIndex:     g.ChunkIndex,
		CreatedAt:      g.CreatedAt,
	}
}

func (m *GuidelineEmbeddingMapper) ToEntities(embeddings []*model.GuidelineEmbedding) []*entity.GuidelineEmbedding {
	entities := make([]*entity.GuidelineEmbedding, len(embeddings))
	for i, g := range embeddings {
		entities[i] = m.ToEntity(g)
	}
	return entities
}
