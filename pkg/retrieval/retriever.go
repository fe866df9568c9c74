package retrieval

import "context"

// Options tunes one retrieval lookup.
type Options struct {
	TopK      int
	Threshold float64
}

func DefaultOptions() Options {
	return Options{
		TopK:      5,
		Threshold: 0.35,
	}
}

// Source identifies one reference document chunk that contributed to an
// answer, with its similarity score.
type Source struct {
	Title string  `json:"title"`
	Ref   string  `json:"ref"`
	Score float64 `json:"score"`
}

// Result is the reference material returned for a query.
type Result struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// Retriever is the external retrieval collaborator used by the guideline and
// evidence stages. A nil or failing retriever only costs the citation boost,
// never the stage.
type Retriever interface {
	Retrieve(ctx context.Context, query string, opts Options) (*Result, error)
}

// ScoredChunk is a reference-corpus chunk with its similarity to the query.
type ScoredChunk struct {
	Title string
	Ref   string
	Text  string
	Score float64
}

// ChunkSearcher runs the vector similarity search over the reference corpus.
// Implemented by the guideline-embedding repository.
type ChunkSearcher interface {
	SearchSimilar(ctx context.Context, embedding []float32, limit int, threshold float64) ([]ScoredChunk, error)
}
