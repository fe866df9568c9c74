package implementation

import (
	"context"

	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/mapper"
	"healthmesh-be/internal/model"
	"healthmesh-be/internal/repository/contract"
	"healthmesh-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type GuidelineEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GuidelineEmbeddingMapper
}

func NewGuidelineEmbeddingRepository(db *gorm.DB) contract.GuidelineEmbeddingRepository {
	return &GuidelineEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewGuidelineEmbeddingMapper(),
	}
}

func (r *GuidelineEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *GuidelineEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.GuidelineEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *GuidelineEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.GuidelineEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	models := make([]*model.GuidelineEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *GuidelineEmbeddingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.GuidelineEmbedding{}, id).Error
}

func (r *GuidelineEmbeddingRepositoryImpl) DeleteByOrganization(ctx context.Context, organization string) error {
	return r.db.WithContext(ctx).Where("organization = ?", organization).Delete(&model.GuidelineEmbedding{}).Error
}

func (r *GuidelineEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GuidelineEmbedding, error) {
	var models []*model.GuidelineEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *GuidelineEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.GuidelineEmbedding{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SearchSimilarWithScore returns guideline chunks with cosine similarity,
// filtered by threshold. Cosine distance in pgvector is 1 - cosine_similarity.
func (r *GuidelineEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredGuidelineEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.GuidelineEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("guideline_embeddings").
		Select("guideline_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredGuidelineEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredGuidelineEmbedding{
			Embedding:  r.mapper.ToEntity(&res.GuidelineEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
