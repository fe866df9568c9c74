package pipeline

import (
	"testing"

	"healthmesh-be/pkg/clinical/scoring"

	"github.com/google/uuid"
)

func TestNewContextComputesScores(t *testing.T) {
	pc := NewContext(ContextInput{
		CaseId: uuid.New(),
		Vitals: &scoring.VitalSigns{
			RespiratoryRate: scoring.Int(22),
			SpO2:            scoring.Int(93),
			SupplementalO2:  scoring.Bool(true),
			SystolicBP:      scoring.Int(95),
			HeartRate:       scoring.Int(115),
			Consciousness:   scoring.String("alert"),
			Temperature:     scoring.Float(38.5),
		},
		Labs: &scoring.LabValues{
			Creatinine: scoring.Float(1.0),
		},
	})

	if pc.UrgencyScore == nil {
		t.Fatal("UrgencyScore not computed despite vitals present")
	}
	if pc.UrgencyScore.Total != 11 {
		t.Errorf("UrgencyScore.Total = %d, want 11", pc.UrgencyScore.Total)
	}
	if pc.OrganScore == nil {
		t.Fatal("OrganScore not computed despite labs present")
	}
	if pc.RiskCategory != scoring.RiskCritical {
		t.Errorf("RiskCategory = %s, want Critical for NEWS2 11", pc.RiskCategory)
	}
}

func TestNewContextWithoutInputs(t *testing.T) {
	pc := NewContext(ContextInput{CaseId: uuid.New()})

	if pc.UrgencyScore != nil {
		t.Error("UrgencyScore should be nil without vitals")
	}
	if pc.OrganScore != nil {
		t.Error("OrganScore should be nil without labs")
	}
	if pc.RiskCategory != scoring.RiskLow {
		t.Errorf("RiskCategory = %s, want Low with no scores", pc.RiskCategory)
	}
}

func TestCompletedDetails(t *testing.T) {
	pc := NewContext(ContextInput{CaseId: uuid.New()})

	if d := pc.CompletedDetails(StageTriage); d != nil {
		t.Errorf("CompletedDetails for missing stage = %v, want nil", d)
	}

	pc.Append(&StageResult{Stage: StageTriage, Status: StatusError, Details: &ErrorDetails{Stage: StageTriage}})
	if d := pc.CompletedDetails(StageTriage); d != nil {
		t.Errorf("CompletedDetails for errored stage = %v, want nil", d)
	}

	want := &TriageDetails{Stage: StageTriage, RiskCategory: "high"}
	pc.Append(&StageResult{Stage: StageTriage, Status: StatusCompleted, Details: want})
	if d := pc.CompletedDetails(StageTriage); d != want {
		t.Errorf("CompletedDetails = %v, want the completed payload", d)
	}
}

func TestResultsPreserveExecutionOrder(t *testing.T) {
	pc := NewContext(ContextInput{CaseId: uuid.New()})
	pc.Append(&StageResult{Stage: StageTriage, Status: StatusCompleted})
	pc.Append(&StageResult{Stage: StageDiagnostic, Status: StatusError})

	results := pc.Results()
	if len(results) != 2 {
		t.Fatalf("Results = %d, want 2", len(results))
	}
	if results[0].Stage != StageTriage || results[1].Stage != StageDiagnostic {
		t.Errorf("order = [%s, %s], want [triage, diagnostic]", results[0].Stage, results[1].Stage)
	}
}
