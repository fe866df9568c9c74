// FILE: internal/service/guideline_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"healthmesh-be/internal/dto"
	"healthmesh-be/internal/entity"
	"healthmesh-be/internal/pkg/logger"
	"healthmesh-be/internal/repository/specification"
	"healthmesh-be/internal/repository/unitofwork"
	"healthmesh-be/pkg/embedding"
	"healthmesh-be/pkg/utils"

	"github.com/google/uuid"
)

const (
	guidelineChunkSize    = 1500
	guidelineChunkOverlap = 200
)

type IGuidelineService interface {
	Ingest(ctx context.Context, req *dto.IngestGuidelineRequest) (*dto.IngestGuidelineResponse, error)
	Reseed(ctx context.Context, organization string, docs []*dto.IngestGuidelineRequest) (int, error)
	List(ctx context.Context, organization string, page, limit int) ([]*dto.GuidelineChunkResponse, int64, error)
	DeleteByOrganization(ctx context.Context, organization string) error
}

type guidelineService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewGuidelineService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IGuidelineService {
	return &guidelineService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

// Ingest splits a guideline document into overlapping chunks, embeds each
// chunk, and stores the vectors. A failed embedding aborts the whole
// document; partial documents are worse than absent ones for retrieval.
func (s *guidelineService) Ingest(ctx context.Context, req *dto.IngestGuidelineRequest) (*dto.IngestGuidelineResponse, error) {
	chunks := utils.SplitText(req.Document, guidelineChunkSize, guidelineChunkOverlap)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	embeddings := make([]*entity.GuidelineEmbedding, 0, len(chunks))
	for i, chunk := range chunks {
		resp, err := s.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d of %q: %w", i, req.Title, err)
		}
		embeddings = append(embeddings, &entity.GuidelineEmbedding{
			Id:             uuid.New(),
			Organization:   req.Organization,
			Title:          req.Title,
			Section:        req.Section,
			Document:       chunk,
			EmbeddingValue: resp.Embedding.Values,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.GuidelineEmbeddingRepository().CreateBulk(ctx, embeddings); err != nil {
		return nil, err
	}

	s.logger.Info("GuidelineService", "Guideline ingested", map[string]interface{}{
		"organization": req.Organization,
		"title":        req.Title,
		"chunks":       len(embeddings),
	})

	return &dto.IngestGuidelineResponse{
		Organization: req.Organization,
		Title:        req.Title,
		ChunkCount:   len(embeddings),
	}, nil
}

// Reseed drops everything stored for an organization and re-ingests the
// given documents.
func (s *guidelineService) Reseed(ctx context.Context, organization string, docs []*dto.IngestGuidelineRequest) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.GuidelineEmbeddingRepository().DeleteByOrganization(ctx, organization); err != nil {
		return 0, err
	}

	total := 0
	for _, doc := range docs {
		resp, err := s.Ingest(ctx, doc)
		if err != nil {
			return total, err
		}
		total += resp.ChunkCount
	}
	return total, nil
}

func (s *guidelineService) List(ctx context.Context, organization string, page, limit int) ([]*dto.GuidelineChunkResponse, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.GuidelineEmbeddingRepository()

	specs := []specification.Specification{}
	countSpecs := []specification.Specification{}
	if organization != "" {
		orgFilter := specification.FilterBy{Field: "organization", Value: organization}
		specs = append(specs, orgFilter)
		countSpecs = append(countSpecs, orgFilter)
	}
	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)

	rows, err := repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, 0, err
	}
	count, err := repo.Count(ctx, countSpecs...)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*dto.GuidelineChunkResponse, len(rows))
	for i, r := range rows {
		out[i] = &dto.GuidelineChunkResponse{
			Id:           r.Id,
			Organization: r.Organization,
			Title:        r.Title,
			Section:      r.Section,
			ChunkIndex:   r.ChunkIndex,
			Preview:      previewOf(r.Document),
			CreatedAt:    r.CreatedAt,
		}
	}
	return out, count, nil
}

func (s *guidelineService) DeleteByOrganization(ctx context.Context, organization string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.GuidelineEmbeddingRepository().DeleteByOrganization(ctx, organization)
}

func previewOf(document string) string {
	runes := []rune(document)
	if len(runes) <= 160 {
		return document
	}
	return string(runes[:160]) + "..."
}
