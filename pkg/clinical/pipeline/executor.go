package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"healthmesh-be/pkg/llm"

	"github.com/google/uuid"
)

// StageExecution is the record handed to the monitoring sink after every
// stage attempt, success or failure.
type StageExecution struct {
	Stage      string
	CaseId     uuid.UUID
	PatientId  uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Success    bool
	Confidence *int
	Error      string
}

// Monitor is the external monitoring collaborator. Implementations must be
// fire-and-observe: they may drop data but must never block or fail the run.
type Monitor interface {
	RecordStageExecution(ex StageExecution)
	RecordRiskAlert(alert RiskAlert, caseId, patientId uuid.UUID)
}

// NopMonitor discards everything. Useful default for tests.
type NopMonitor struct{}

func (NopMonitor) RecordStageExecution(StageExecution)              {}
func (NopMonitor) RecordRiskAlert(RiskAlert, uuid.UUID, uuid.UUID) {}

// ExecutorConfig tunes per-stage timeouts and the transient-error retry.
type ExecutorConfig struct {
	StageTimeout   time.Duration // per provider call, 0 = no extra deadline
	MaxRetries     int           // retries after the first attempt
	RetryBaseDelay time.Duration // doubled per retry
}

func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		StageTimeout:   90 * time.Second,
		MaxRetries:     2,
		RetryBaseDelay: 500 * time.Millisecond,
	}
}

// Executor invokes one stage against the model provider and turns whatever
// happens into a uniform StageResult. A stage failure is data, not an
// exception: Run never returns an error and the pipeline always proceeds.
type Executor struct {
	provider llm.LLMProvider
	monitor  Monitor
	logger   *log.Logger
	cfg      ExecutorConfig
}

func NewExecutor(provider llm.LLMProvider, monitor Monitor, logger *log.Logger, cfg ExecutorConfig) *Executor {
	if monitor == nil {
		monitor = NopMonitor{}
	}
	return &Executor{
		provider: provider,
		monitor:  monitor,
		logger:   logger,
		cfg:      cfg,
	}
}

// Run executes a single stage and appends its result to the context.
func (e *Executor) Run(ctx context.Context, stage Stage, pc *PipelineContext) *StageResult {
	started := time.Now()
	e.logger.Printf("[STAGE:%s] starting", stage.Key())

	prompt, retrievalSources := stage.BuildPrompt(ctx, pc)

	raw, err := e.callProvider(ctx, stage, prompt)

	var result *StageResult
	if err != nil {
		result = e.errorResult(stage.Key(), started, fmt.Sprintf("provider call failed: %v", err))
	} else {
		parsed, perr := stage.ParseResponse(raw)
		if perr != nil {
			result = e.errorResult(stage.Key(), started, fmt.Sprintf("unparseable response: %v", perr))
		} else {
			confidence := parsed.Confidence
			if confidence == nil {
				d := DefaultConfidence
				confidence = &d
			}
			result = &StageResult{
				Stage:           stage.Key(),
				Status:          StatusCompleted,
				StartedAt:       started,
				FinishedAt:      time.Now(),
				Summary:         parsed.Summary,
				Details:         parsed.Details,
				Confidence:      confidence,
				EvidenceSources: append(retrievalSources, parsed.EvidenceSources...),
				Reasoning:       parsed.Reasoning,
			}
		}
	}

	pc.Append(result)
	e.report(result, pc)

	if result.Status == StatusCompleted {
		e.logger.Printf("[STAGE:%s] completed in %s (confidence=%d)",
			stage.Key(), result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond), *result.Confidence)
	} else {
		e.logger.Printf("[STAGE:%s] errored: %s", stage.Key(), result.Summary)
	}

	return result
}

// callProvider runs the model call with the per-stage deadline and a bounded
// exponential backoff for transient provider errors. Parse failures happen
// after this and are never retried.
func (e *Executor) callProvider(ctx context.Context, stage Stage, prompt string) (string, error) {
	history := []llm.Message{
		{Role: "system", Content: stage.Instruction()},
		{Role: "user", Content: prompt},
	}

	var lastErr error
	delay := e.cfg.RetryBaseDelay

	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			e.logger.Printf("[STAGE:%s] transient provider error, retry %d/%d in %s: %v",
				stage.Key(), attempt, e.cfg.MaxRetries, delay, lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			delay *= 2
		}

		callCtx := ctx
		var cancel context.CancelFunc
		if e.cfg.StageTimeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, e.cfg.StageTimeout)
		}
		raw, err := e.provider.Chat(callCtx, history, llm.WithTemperature(0.1), llm.WithJSONOutput())
		if cancel != nil {
			cancel()
		}

		if err == nil {
			return raw, nil
		}
		lastErr = err

		// The caller's deadline is not a transient condition.
		if ctx.Err() != nil {
			return "", errors.Join(lastErr, ctx.Err())
		}
	}

	return "", lastErr
}

func (e *Executor) errorResult(key StageKey, started time.Time, reason string) *StageResult {
	return &StageResult{
		Stage:      key,
		Status:     StatusError,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Summary:    fmt.Sprintf("%s stage failed: %s", key, reason),
		Details:    &ErrorDetails{Stage: key, Message: reason},
	}
}

// report forwards the outcome to the monitoring sink. A misbehaving sink
// must not take the pipeline down with it.
func (e *Executor) report(r *StageResult, pc *PipelineContext) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Printf("[MONITOR] panic while recording stage execution: %v", rec)
		}
	}()

	ex := StageExecution{
		Stage:      r.Stage.String(),
		CaseId:     pc.CaseId,
		PatientId:  pc.Patient.Id,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Success:    r.Status == StatusCompleted,
		Confidence: r.Confidence,
	}
	if r.Status == StatusError {
		ex.Error = r.Summary
	}
	e.monitor.RecordStageExecution(ex)
}
