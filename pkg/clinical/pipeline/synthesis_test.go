package pipeline

import (
	"testing"

	"github.com/google/uuid"
)

func contextWithResults(results map[StageKey]*StageResult) *PipelineContext {
	pc := NewContext(ContextInput{CaseId: uuid.New()})
	for key, r := range results {
		r.Stage = key
		pc.Append(r)
	}
	return pc
}

func completed(confidence int) *StageResult {
	c := confidence
	return &StageResult{Status: StatusCompleted, Confidence: &c}
}

func errored() *StageResult {
	return &StageResult{Status: StatusError}
}

func TestOverallConfidence(t *testing.T) {
	tests := []struct {
		name    string
		results map[StageKey]*StageResult
		want    ConfidenceLevel
	}{
		{
			name:    "no specialist ran",
			results: map[StageKey]*StageResult{},
			want:    ConfidenceLow,
		},
		{
			name: "all high",
			results: map[StageKey]*StageResult{
				StageTriage:           completed(90),
				StageDiagnostic:       completed(85),
				StageGuideline:        completed(80),
				StageMedicationSafety: completed(88),
				StageEvidence:         completed(75),
			},
			want: ConfidenceHigh,
		},
		{
			name: "lowest stage sets the band",
			results: map[StageKey]*StageResult{
				StageTriage:     completed(90),
				StageDiagnostic: completed(55),
			},
			want: ConfidenceMedium,
		},
		{
			name: "band boundary 75 is high",
			results: map[StageKey]*StageResult{
				StageTriage: completed(75),
			},
			want: ConfidenceHigh,
		},
		{
			name: "band boundary 50 is medium",
			results: map[StageKey]*StageResult{
				StageTriage: completed(50),
			},
			want: ConfidenceMedium,
		},
		{
			name: "below 50 is low",
			results: map[StageKey]*StageResult{
				StageTriage: completed(49),
			},
			want: ConfidenceLow,
		},
		{
			name: "one errored stage downgrades a band",
			results: map[StageKey]*StageResult{
				StageTriage:     completed(90),
				StageDiagnostic: errored(),
			},
			want: ConfidenceMedium,
		},
		{
			name: "two errored stages downgrade twice",
			results: map[StageKey]*StageResult{
				StageTriage:     completed(90),
				StageDiagnostic: errored(),
				StageGuideline:  errored(),
			},
			want: ConfidenceLow,
		},
		{
			name: "low cannot be downgraded further",
			results: map[StageKey]*StageResult{
				StageTriage:     completed(30),
				StageDiagnostic: errored(),
			},
			want: ConfidenceLow,
		},
		{
			name: "all errored",
			results: map[StageKey]*StageResult{
				StageTriage:     errored(),
				StageDiagnostic: errored(),
			},
			want: ConfidenceLow,
		},
		{
			name: "missing confidence counts as default",
			results: map[StageKey]*StageResult{
				StageTriage: {Status: StatusCompleted},
			},
			want: ConfidenceMedium, // DefaultConfidence = 50
		},
		{
			name: "synthesis result is not a specialist input",
			results: map[StageKey]*StageResult{
				StageTriage:    completed(90),
				StageSynthesis: completed(10),
			},
			want: ConfidenceHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := contextWithResults(tt.results)
			if got := OverallConfidence(pc); got != tt.want {
				t.Errorf("OverallConfidence = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSynthesisParseRequiresCaseSummary(t *testing.T) {
	stage := NewSynthesisStage()

	if _, err := stage.ParseResponse(`{"recommendations": ["x"]}`); err == nil {
		t.Error("ParseResponse should reject a synthesis without case_summary")
	}

	parsed, err := stage.ParseResponse(`{"case_summary": "stable", "recommendations": ["observe"]}`)
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	fs, ok := parsed.Details.(*FinalSynthesis)
	if !ok {
		t.Fatalf("Details = %T, want *FinalSynthesis", parsed.Details)
	}
	if fs.Stage != StageSynthesis {
		t.Errorf("Stage = %s, want %s", fs.Stage, StageSynthesis)
	}
}
