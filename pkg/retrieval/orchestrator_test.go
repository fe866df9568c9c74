package retrieval

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"unicode/utf8"

	"healthmesh-be/pkg/embedding"
)

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeSearcher struct {
	chunks        []ScoredChunk
	err           error
	lastLimit     int
	lastThreshold float64
}

func (f *fakeSearcher) SearchSimilar(_ context.Context, _ []float32, limit int, threshold float64) ([]ScoredChunk, error) {
	f.lastLimit = limit
	f.lastThreshold = threshold
	return f.chunks, f.err
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestOrchestratorRetrieve(t *testing.T) {
	embedder := &fakeEmbedder{}
	searcher := &fakeSearcher{
		chunks: []ScoredChunk{
			{Title: "Sepsis guideline", Ref: "NICE:abc#0", Text: "give antibiotics within one hour", Score: 0.91},
			{Title: "Sepsis guideline", Ref: "NICE:abc#1", Text: "measure lactate", Score: 0.84},
		},
	}

	o := NewOrchestrator(embedder, searcher, quietLogger())
	res, err := o.Retrieve(context.Background(), "sepsis management", Options{TopK: 3, Threshold: 0.4})
	if err != nil {
		t.Fatalf("Retrieve returned error: %v", err)
	}

	if searcher.lastLimit != 3 || searcher.lastThreshold != 0.4 {
		t.Errorf("search called with limit=%d threshold=%.2f, want 3/0.40", searcher.lastLimit, searcher.lastThreshold)
	}
	if len(res.Sources) != 2 {
		t.Fatalf("Sources = %d, want 2", len(res.Sources))
	}
	if res.Sources[0].Ref != "NICE:abc#0" || res.Sources[0].Score != 0.91 {
		t.Errorf("Sources[0] = %+v", res.Sources[0])
	}
	if res.Answer == "" {
		t.Error("Answer is empty")
	}
}

func TestOrchestratorCachesByQuery(t *testing.T) {
	embedder := &fakeEmbedder{}
	searcher := &fakeSearcher{chunks: []ScoredChunk{{Title: "t", Ref: "r", Text: "x", Score: 0.8}}}

	o := NewOrchestrator(embedder, searcher, quietLogger())
	opts := Options{TopK: 5, Threshold: 0.35}

	if _, err := o.Retrieve(context.Background(), "same question", opts); err != nil {
		t.Fatal(err)
	}
	if _, err := o.Retrieve(context.Background(), "same question", opts); err != nil {
		t.Fatal(err)
	}

	if embedder.calls != 1 {
		t.Errorf("embedder calls = %d, want 1 (second lookup served from cache)", embedder.calls)
	}

	// Different options mean a different cache entry.
	if _, err := o.Retrieve(context.Background(), "same question", Options{TopK: 2, Threshold: 0.35}); err != nil {
		t.Fatal(err)
	}
	if embedder.calls != 2 {
		t.Errorf("embedder calls = %d, want 2 after options change", embedder.calls)
	}
}

func TestOrchestratorDefaultsInvalidOptions(t *testing.T) {
	embedder := &fakeEmbedder{}
	searcher := &fakeSearcher{}

	o := NewOrchestrator(embedder, searcher, quietLogger())
	if _, err := o.Retrieve(context.Background(), "q", Options{}); err != nil {
		t.Fatal(err)
	}

	def := DefaultOptions()
	if searcher.lastLimit != def.TopK || searcher.lastThreshold != def.Threshold {
		t.Errorf("search called with limit=%d threshold=%.2f, want defaults %d/%.2f",
			searcher.lastLimit, searcher.lastThreshold, def.TopK, def.Threshold)
	}
}

func TestOrchestratorDeduplicatesSources(t *testing.T) {
	searcher := &fakeSearcher{
		chunks: []ScoredChunk{
			{Title: "t", Ref: "same-ref", Text: "a", Score: 0.9},
			{Title: "t", Ref: "same-ref", Text: "b", Score: 0.8},
		},
	}

	o := NewOrchestrator(&fakeEmbedder{}, searcher, quietLogger())
	res, err := o.Retrieve(context.Background(), "q", DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Sources) != 1 {
		t.Errorf("Sources = %d, want 1 after dedupe by ref", len(res.Sources))
	}
}

func TestOrchestratorPropagatesFailures(t *testing.T) {
	o := NewOrchestrator(&fakeEmbedder{err: errors.New("quota exceeded")}, &fakeSearcher{}, quietLogger())
	if _, err := o.Retrieve(context.Background(), "q", DefaultOptions()); err == nil {
		t.Error("Retrieve should surface embedder failure")
	}

	o = NewOrchestrator(&fakeEmbedder{}, &fakeSearcher{err: errors.New("db down")}, quietLogger())
	if _, err := o.Retrieve(context.Background(), "q", DefaultOptions()); err == nil {
		t.Error("Retrieve should surface search failure")
	}
}

func TestTruncateIsRuneSafe(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"short stays whole", "lactate threshold", 60, "lactate threshold"},
		{"ascii cut", "abcdefgh", 5, "abcde..."},
		{"exact length untouched", "abcde", 5, "abcde"},
		{"multibyte not split", "héparine à dose curative", 10, "héparine à..."},
		{"cjk not split", "抗凝療法のガイドライン", 4, "抗凝療法..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}
