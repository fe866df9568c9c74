package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"healthmesh-be/pkg/llm"
)

// flakyProvider fails a set number of times before answering.
type flakyProvider struct {
	failures int
	response string
	calls    int
}

func (p *flakyProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	p.calls++
	if p.calls <= p.failures {
		return "", errors.New("connection reset")
	}
	return p.response, nil
}

func (p *flakyProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

const validTriageJSON = `{"urgency_score": 3, "risk_category": "medium", "confidence": 70}`

func TestExecutorRetriesTransientErrors(t *testing.T) {
	provider := &flakyProvider{failures: 2, response: validTriageJSON}
	exec := NewExecutor(provider, nil, testLogger(), ExecutorConfig{
		MaxRetries:     2,
		RetryBaseDelay: time.Millisecond,
	})

	pc := testContext()
	result := exec.Run(context.Background(), NewTriageStage(), pc)

	if result.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed after retries", result.Status)
	}
	if provider.calls != 3 {
		t.Errorf("provider calls = %d, want 3 (initial + 2 retries)", provider.calls)
	}
}

func TestExecutorExhaustedRetriesIsErrorResult(t *testing.T) {
	provider := &flakyProvider{failures: 10, response: validTriageJSON}
	exec := NewExecutor(provider, nil, testLogger(), ExecutorConfig{
		MaxRetries:     1,
		RetryBaseDelay: time.Millisecond,
	})

	pc := testContext()
	result := exec.Run(context.Background(), NewTriageStage(), pc)

	if result.Status != StatusError {
		t.Fatalf("status = %s, want error", result.Status)
	}
	if provider.calls != 2 {
		t.Errorf("provider calls = %d, want 2", provider.calls)
	}
	if _, ok := result.Details.(*ErrorDetails); !ok {
		t.Errorf("Details = %T, want *ErrorDetails", result.Details)
	}

	// Errored stages still land in the context so downstream stages and
	// the confidence rule can see them.
	if stored, ok := pc.Result(StageTriage); !ok || stored.Status != StatusError {
		t.Error("errored result was not appended to the context")
	}
}

func TestExecutorDoesNotRetryParseFailures(t *testing.T) {
	provider := &flakyProvider{failures: 0, response: "I cannot answer in JSON."}
	exec := NewExecutor(provider, nil, testLogger(), ExecutorConfig{
		MaxRetries:     3,
		RetryBaseDelay: time.Millisecond,
	})

	result := exec.Run(context.Background(), NewTriageStage(), testContext())

	if result.Status != StatusError {
		t.Fatalf("status = %s, want error for unparseable response", result.Status)
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1: parse failures are not retried", provider.calls)
	}
}

func TestExecutorDefaultConfidence(t *testing.T) {
	// Confidence omitted in the response.
	provider := &flakyProvider{response: `{"urgency_score": 2, "risk_category": "low"}`}
	exec := NewExecutor(provider, nil, testLogger(), fastConfig())

	result := exec.Run(context.Background(), NewTriageStage(), testContext())

	if result.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", result.Status)
	}
	if result.Confidence == nil || *result.Confidence != DefaultConfidence {
		t.Errorf("confidence = %v, want default %d", result.Confidence, DefaultConfidence)
	}
}

func TestExecutorCancelledDuringRetryBackoff(t *testing.T) {
	provider := &flakyProvider{failures: 10, response: validTriageJSON}
	exec := NewExecutor(provider, nil, testLogger(), ExecutorConfig{
		MaxRetries:     5,
		RetryBaseDelay: time.Hour, // backoff long enough that cancel wins
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan *StageResult, 1)
	go func() {
		done <- exec.Run(ctx, NewTriageStage(), testContext())
	}()
	cancel()

	select {
	case result := <-done:
		if result.Status != StatusError {
			t.Errorf("status = %s, want error after cancellation", result.Status)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
