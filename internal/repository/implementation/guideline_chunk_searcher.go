package implementation

import (
	"context"
	"fmt"

	"healthmesh-be/internal/repository/contract"
	"healthmesh-be/pkg/retrieval"
)

// GuidelineChunkSearcher adapts the guideline embedding repository to the
// retrieval layer's searcher interface.
type GuidelineChunkSearcher struct {
	repo contract.GuidelineEmbeddingRepository
}

func NewGuidelineChunkSearcher(repo contract.GuidelineEmbeddingRepository) *GuidelineChunkSearcher {
	return &GuidelineChunkSearcher{repo: repo}
}

func (s *GuidelineChunkSearcher) SearchSimilar(ctx context.Context, embedding []float32, limit int, threshold float64) ([]retrieval.ScoredChunk, error) {
	scored, err := s.repo.SearchSimilarWithScore(ctx, embedding, limit, threshold)
	if err != nil {
		return nil, err
	}

	chunks := make([]retrieval.ScoredChunk, len(scored))
	for i, sc := range scored {
		title := sc.Embedding.Title
		if sc.Embedding.Section != "" {
			title = fmt.Sprintf("%s - %s", title, sc.Embedding.Section)
		}
		chunks[i] = retrieval.ScoredChunk{
			Title: title,
			Ref:   fmt.Sprintf("%s:%s#%d", sc.Embedding.Organization, sc.Embedding.Id, sc.Embedding.ChunkIndex),
			Text:  sc.Embedding.Document,
			Score: sc.Similarity,
		}
	}
	return chunks, nil
}
