package pipeline

import (
	"context"
	"log"
	"time"

	"healthmesh-be/pkg/clinical/scoring"
	"healthmesh-be/pkg/llm"
	"healthmesh-be/pkg/retrieval"
)

// AnalysisOutcome is everything one pipeline run produced. The caller
// persists it; the pipeline holds no durable state.
type AnalysisOutcome struct {
	Results      []*StageResult
	Alerts       []RiskAlert
	Synthesis    *FinalSynthesis
	RiskCategory scoring.RiskCategory
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Runner executes the fixed stage sequence:
// triage -> diagnostic -> guideline -> medication safety -> evidence ->
// synthesis, with alert derivation after medication safety. Stages run
// sequentially: each one (except medication safety) reads an earlier stage's
// output, so there is no order to exploit. Runner is safe for concurrent
// runs; all per-run state lives on the PipelineContext.
type Runner struct {
	executor  *Executor
	monitor   Monitor
	logger    *log.Logger
	triage    *TriageStage
	diag      *DiagnosticStage
	guideline *GuidelineStage
	medSafety *MedicationSafetyStage
	evidence  *EvidenceStage
	synthesis *SynthesisStage
}

// NewRunner wires the stage set. retriever may be nil; monitor may be nil.
func NewRunner(
	provider llm.LLMProvider,
	retriever retrieval.Retriever,
	monitor Monitor,
	logger *log.Logger,
	cfg ExecutorConfig,
) *Runner {
	if monitor == nil {
		monitor = NopMonitor{}
	}
	return &Runner{
		executor:  NewExecutor(provider, monitor, logger, cfg),
		monitor:   monitor,
		logger:    logger,
		triage:    NewTriageStage(),
		diag:      NewDiagnosticStage(),
		guideline: NewGuidelineStage(retriever, logger),
		medSafety: NewMedicationSafetyStage(),
		evidence:  NewEvidenceStage(retriever, logger),
		synthesis: NewSynthesisStage(),
	}
}

// Analyze runs the full pipeline over a fresh context. Stage failures are
// recorded, never raised: the only error returned is a context already
// cancelled before the run could start.
func (r *Runner) Analyze(ctx context.Context, pc *PipelineContext) (*AnalysisOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	r.logger.Printf("[PIPELINE] starting analysis for case %s (risk=%s)", pc.CaseId, pc.RiskCategory)

	r.executor.Run(ctx, r.triage, pc)
	r.executor.Run(ctx, r.diag, pc)
	r.executor.Run(ctx, r.guideline, pc)
	medResult := r.executor.Run(ctx, r.medSafety, pc)

	alerts := r.deriveAlerts(medResult, pc)

	r.executor.Run(ctx, r.evidence, pc)
	synthResult := r.executor.Run(ctx, r.synthesis, pc)

	outcome := &AnalysisOutcome{
		Results:      pc.Results(),
		Alerts:       alerts,
		RiskCategory: pc.RiskCategory,
		StartedAt:    started,
		FinishedAt:   time.Now(),
	}

	// The aggregate confidence is computed here, not trusted from the model.
	overall := OverallConfidence(pc)
	if fs, ok := synthResult.Details.(*FinalSynthesis); ok && synthResult.Status == StatusCompleted {
		fs.OverallConfidence = overall
		fs.Risk = r.riskBlock(pc)
		outcome.Synthesis = fs
		conf := confidenceScore(overall)
		synthResult.Confidence = &conf
	}

	completed := 0
	for _, res := range outcome.Results {
		if res.Status == StatusCompleted {
			completed++
		}
	}
	r.logger.Printf("[PIPELINE] finished case %s: %d/%d stages completed, %d alert(s), confidence=%s",
		pc.CaseId, completed, len(outcome.Results), len(alerts), overall)

	return outcome, nil
}

func (r *Runner) deriveAlerts(medResult *StageResult, pc *PipelineContext) []RiskAlert {
	if medResult.Status != StatusCompleted {
		return nil
	}
	details, ok := medResult.Details.(*MedicationSafetyDetails)
	if !ok {
		return nil
	}

	alerts := DeriveAlerts(details, time.Now())
	for _, alert := range alerts {
		r.recordAlert(alert, pc)
	}
	if len(alerts) > 0 {
		r.logger.Printf("[PIPELINE] derived %d risk alert(s) for case %s", len(alerts), pc.CaseId)
	}
	return alerts
}

func (r *Runner) recordAlert(alert RiskAlert, pc *PipelineContext) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Printf("[MONITOR] panic while recording risk alert: %v", rec)
		}
	}()
	r.monitor.RecordRiskAlert(alert, pc.CaseId, pc.Patient.Id)
}

func (r *Runner) riskBlock(pc *PipelineContext) RiskBlock {
	block := RiskBlock{Category: string(pc.RiskCategory)}
	if pc.UrgencyScore != nil {
		block.UrgencyScore = &pc.UrgencyScore.Total
	}
	if pc.OrganScore != nil {
		block.OrganScore = &pc.OrganScore.Total
	}
	return block
}

func confidenceScore(l ConfidenceLevel) int {
	switch l {
	case ConfidenceHigh:
		return 85
	case ConfidenceMedium:
		return 60
	default:
		return 30
	}
}
