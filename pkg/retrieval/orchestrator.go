package retrieval

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"healthmesh-be/pkg/embedding"

	"github.com/patrickmn/go-cache"
)

// Orchestrator answers retrieval queries by embedding the query, running a
// vector search over the guideline/evidence corpus and assembling the top
// chunks into one answer text. Responses are cached: the same clinical
// question tends to be asked by two stages back to back.
type Orchestrator struct {
	embedder embedding.EmbeddingProvider
	searcher ChunkSearcher
	cache    *cache.Cache
	logger   *log.Logger
}

var _ Retriever = &Orchestrator{}

func NewOrchestrator(embedder embedding.EmbeddingProvider, searcher ChunkSearcher, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		embedder: embedder,
		searcher: searcher,
		cache:    cache.New(15*time.Minute, 5*time.Minute),
		logger:   logger,
	}
}

func (o *Orchestrator) Retrieve(ctx context.Context, query string, opts Options) (*Result, error) {
	if opts.TopK <= 0 {
		opts = DefaultOptions()
	}

	key := fmt.Sprintf("%d|%.2f|%s", opts.TopK, opts.Threshold, query)
	if hit, found := o.cache.Get(key); found {
		o.logger.Printf("[RETRIEVAL] cache hit for query: %s", truncate(query, 60))
		return hit.(*Result), nil
	}

	embeddingRes, err := o.embedder.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	chunks, err := o.searcher.SearchSimilar(ctx, embeddingRes.Embedding.Values, opts.TopK, opts.Threshold)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	o.logger.Printf("[RETRIEVAL] %d chunks above threshold %.2f for query: %s",
		len(chunks), opts.Threshold, truncate(query, 60))

	result := assemble(chunks)
	o.cache.Set(key, result, cache.DefaultExpiration)
	return result, nil
}

func assemble(chunks []ScoredChunk) *Result {
	var b strings.Builder
	result := &Result{}

	seen := make(map[string]bool)
	for _, c := range chunks {
		b.WriteString(fmt.Sprintf("[%s] %s\n", c.Title, c.Text))

		if !seen[c.Ref] {
			result.Sources = append(result.Sources, Source{
				Title: c.Title,
				Ref:   c.Ref,
				Score: c.Score,
			})
			seen[c.Ref] = true
		}
	}

	result.Answer = strings.TrimSpace(b.String())
	return result
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
