package pipeline

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"healthmesh-be/pkg/clinical/scoring"
	"healthmesh-be/pkg/llm"

	"github.com/google/uuid"
)

// scriptedProvider dispatches on the stage role text in the system message.
type scriptedProvider struct {
	responses map[string]string
	failures  map[string]error
	calls     map[string]int
}

func newScriptedProvider() *scriptedProvider {
	return &scriptedProvider{
		responses: map[string]string{
			"triage specialist":       `{"urgency_score": 8, "risk_category": "high", "red_flags": ["hypotension"], "rationale": ["NEWS2 high"], "confidence": 80}`,
			"diagnostic reasoning":    `{"differentials": [{"condition": "Sepsis", "likelihood": "High"}, {"condition": "Pneumonia", "likelihood": "Moderate"}], "primary_suspicion": "Sepsis", "confidence": 78, "reasoning": ["fever plus hypotension"]}`,
			"clinical guideline":      `{"citations": [{"organization": "NICE", "recommendation": "antibiotics within one hour", "evidence_strength": "Strong"}], "confidence": 82}`,
			"medication safety":       `{"interactions": [{"drug_a": "warfarin", "drug_b": "amiodarone", "severity": "High", "effect": "INR rise", "management": "reduce warfarin dose"}], "allergy_conflicts": [], "contraindications": [], "overall_risk": "High", "confidence": 85}`,
			"evidence appraisal":      `{"key_studies": [{"title": "Early goal-directed therapy", "type": "RCT", "year": 2015}], "evidence_strength": "Strong", "confidence": 76}`,
			"synthesis specialist":    `{"case_summary": "Septic presentation on high-risk anticoagulation.", "differential": [{"condition": "Sepsis", "rank": 1, "rationale": "fits all findings"}], "recommendations": ["start sepsis bundle"], "medication_safety": {"overall_risk": "High", "highlights": ["warfarin interaction"]}, "evidence": {"strength": "Strong", "key_points": ["bundle mortality benefit"]}, "explainability": {"driving_factors": ["high urgency score"], "influenced_by": ["triage", "diagnostic"], "missing_data": []}}`,
		},
		failures: map[string]error{},
		calls:    map[string]int{},
	}
}

func (p *scriptedProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	system := history[0].Content
	for key, resp := range p.responses {
		if strings.Contains(system, key) {
			p.calls[key]++
			if err, ok := p.failures[key]; ok {
				return "", err
			}
			return resp, nil
		}
	}
	return "", errors.New("unknown stage instruction")
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testContext() *PipelineContext {
	return NewContext(ContextInput{
		CaseId: uuid.New(),
		Patient: PatientSummary{
			Id:  uuid.New(),
			Age: 72,
			Sex: "male",
		},
		ClinicalQuestion: "Best next step for suspected sepsis?",
		Diagnoses:        []string{"Atrial fibrillation"},
		Medications:      []string{"warfarin", "amiodarone"},
		Allergies:        []string{"penicillin"},
		Vitals: &scoring.VitalSigns{
			RespiratoryRate: scoring.Int(24),
			SystolicBP:      scoring.Int(92),
			HeartRate:       scoring.Int(118),
		},
	})
}

func fastConfig() ExecutorConfig {
	return ExecutorConfig{MaxRetries: 0, RetryBaseDelay: 1}
}

func TestRunnerFullRun(t *testing.T) {
	provider := newScriptedProvider()
	runner := NewRunner(provider, nil, nil, testLogger(), fastConfig())

	pc := testContext()
	outcome, err := runner.Analyze(context.Background(), pc)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if len(outcome.Results) != 6 {
		t.Fatalf("Results = %d stages, want 6", len(outcome.Results))
	}
	for _, r := range outcome.Results {
		if r.Status != StatusCompleted {
			t.Errorf("stage %s status = %s, want completed", r.Stage, r.Status)
		}
	}

	wantOrder := []StageKey{StageTriage, StageDiagnostic, StageGuideline, StageMedicationSafety, StageEvidence, StageSynthesis}
	for i, key := range wantOrder {
		if outcome.Results[i].Stage != key {
			t.Errorf("Results[%d].Stage = %s, want %s", i, outcome.Results[i].Stage, key)
		}
	}

	if outcome.Synthesis == nil {
		t.Fatal("Synthesis is nil")
	}
	// Lowest specialist confidence is 76 -> High band, nothing errored.
	if outcome.Synthesis.OverallConfidence != ConfidenceHigh {
		t.Errorf("OverallConfidence = %s, want High", outcome.Synthesis.OverallConfidence)
	}
	if outcome.Synthesis.Risk.Category != string(pc.RiskCategory) {
		t.Errorf("Risk.Category = %q, want %q", outcome.Synthesis.Risk.Category, pc.RiskCategory)
	}

	synthResult := outcome.Results[5]
	if synthResult.Confidence == nil || *synthResult.Confidence != 85 {
		t.Errorf("synthesis confidence = %v, want 85 for High", synthResult.Confidence)
	}

	if len(outcome.Alerts) != 1 {
		t.Fatalf("Alerts = %d, want 1", len(outcome.Alerts))
	}
	if outcome.Alerts[0].Type != AlertDrugInteraction || outcome.Alerts[0].Severity != SeverityCritical {
		t.Errorf("alert = %s/%s, want drug-interaction/critical", outcome.Alerts[0].Type, outcome.Alerts[0].Severity)
	}
}

func TestRunnerStageFailureIsolation(t *testing.T) {
	provider := newScriptedProvider()
	provider.failures["diagnostic reasoning"] = errors.New("provider unavailable")

	runner := NewRunner(provider, nil, nil, testLogger(), fastConfig())
	outcome, err := runner.Analyze(context.Background(), testContext())
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if len(outcome.Results) != 6 {
		t.Fatalf("Results = %d stages, want 6: a failed stage must not stop the run", len(outcome.Results))
	}

	byStage := map[StageKey]*StageResult{}
	for _, r := range outcome.Results {
		byStage[r.Stage] = r
	}

	if byStage[StageDiagnostic].Status != StatusError {
		t.Errorf("diagnostic status = %s, want error", byStage[StageDiagnostic].Status)
	}
	for _, key := range []StageKey{StageTriage, StageGuideline, StageMedicationSafety, StageEvidence, StageSynthesis} {
		if byStage[key].Status != StatusCompleted {
			t.Errorf("stage %s status = %s, want completed despite upstream failure", key, byStage[key].Status)
		}
	}

	// Lowest completed confidence 76 -> High, downgraded once for the
	// errored diagnostic stage.
	if outcome.Synthesis == nil {
		t.Fatal("Synthesis is nil")
	}
	if outcome.Synthesis.OverallConfidence != ConfidenceMedium {
		t.Errorf("OverallConfidence = %s, want Medium after one errored stage", outcome.Synthesis.OverallConfidence)
	}
}

func TestRunnerMedicationSafetyFailureMeansNoAlerts(t *testing.T) {
	provider := newScriptedProvider()
	provider.responses["medication safety"] = "not json at all"

	runner := NewRunner(provider, nil, nil, testLogger(), fastConfig())
	outcome, err := runner.Analyze(context.Background(), testContext())
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if len(outcome.Alerts) != 0 {
		t.Errorf("Alerts = %d, want 0 when medication safety errored", len(outcome.Alerts))
	}
}

func TestRunnerSynthesisFailureOmitsSynthesis(t *testing.T) {
	provider := newScriptedProvider()
	provider.failures["synthesis specialist"] = errors.New("provider unavailable")

	runner := NewRunner(provider, nil, nil, testLogger(), fastConfig())
	outcome, err := runner.Analyze(context.Background(), testContext())
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if outcome.Synthesis != nil {
		t.Error("Synthesis should be nil when the synthesis stage errored")
	}
	if len(outcome.Results) != 6 {
		t.Errorf("Results = %d, want 6", len(outcome.Results))
	}
}

func TestRunnerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(newScriptedProvider(), nil, nil, testLogger(), fastConfig())
	if _, err := runner.Analyze(ctx, testContext()); err == nil {
		t.Fatal("Analyze should refuse a context already cancelled")
	}
}

type recordingMonitor struct {
	executions []StageExecution
	alerts     []RiskAlert
}

func (m *recordingMonitor) RecordStageExecution(ex StageExecution) {
	m.executions = append(m.executions, ex)
}

func (m *recordingMonitor) RecordRiskAlert(a RiskAlert, _, _ uuid.UUID) {
	m.alerts = append(m.alerts, a)
}

func TestRunnerReportsToMonitor(t *testing.T) {
	monitor := &recordingMonitor{}
	runner := NewRunner(newScriptedProvider(), nil, monitor, testLogger(), fastConfig())

	if _, err := runner.Analyze(context.Background(), testContext()); err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if len(monitor.executions) != 6 {
		t.Errorf("monitor saw %d executions, want 6", len(monitor.executions))
	}
	if len(monitor.alerts) != 1 {
		t.Errorf("monitor saw %d alerts, want 1", len(monitor.alerts))
	}
}

type panickingMonitor struct{}

func (panickingMonitor) RecordStageExecution(StageExecution)             { panic("sink down") }
func (panickingMonitor) RecordRiskAlert(RiskAlert, uuid.UUID, uuid.UUID) { panic("sink down") }

func TestRunnerSurvivesPanickingMonitor(t *testing.T) {
	runner := NewRunner(newScriptedProvider(), nil, panickingMonitor{}, testLogger(), fastConfig())

	outcome, err := runner.Analyze(context.Background(), testContext())
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if len(outcome.Results) != 6 {
		t.Errorf("Results = %d, want 6 despite a panicking monitor", len(outcome.Results))
	}
}
