package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// TriageDetails is the structured output of the triage stage.
type TriageDetails struct {
	Stage            StageKey `json:"stage"`
	UrgencyScore     int      `json:"urgency_score"`
	RiskCategory     string   `json:"risk_category"`
	Rationale        []string `json:"rationale"`
	RedFlags         []string `json:"red_flags"`
	ImmediateActions []string `json:"immediate_actions"`
	Confidence       int      `json:"confidence"`
}

func (d *TriageDetails) DetailsStage() StageKey { return StageTriage }

// TriageStage assesses acuity from demographics, active problems and the
// deterministic scores. It is the first stage and reads no upstream results.
type TriageStage struct{}

func NewTriageStage() *TriageStage { return &TriageStage{} }

func (s *TriageStage) Key() StageKey { return StageTriage }

func (s *TriageStage) Instruction() string {
	return "You are a triage specialist supporting a licensed clinician. " +
		"You assess case acuity from the recorded vitals, labs and history. " +
		"You do not diagnose and you do not prescribe. " +
		"Your output is advisory and will be reviewed by a professional. " +
		"Respond with ONLY valid JSON matching the requested shape."
}

func (s *TriageStage) BuildPrompt(_ context.Context, pc *PipelineContext) (string, []string) {
	var b strings.Builder

	writeCaseContext(&b, pc)

	writeSection(&b, "task",
		"Assess the urgency of this case.",
		"Anchor your assessment on the deterministic scores above; they were computed from the actual measurements.",
		"If a score is marked as not computed, say so in your rationale instead of assuming normal values.",
		"List red flags that demand attention and immediate actions the care team should consider.")

	writeSection(&b, "output_format",
		"Respond with ONLY valid JSON:",
		"{",
		`  "urgency_score": 0,`,
		`  "risk_category": "Low|Moderate|High|Critical",`,
		`  "rationale": ["..."],`,
		`  "red_flags": ["..."],`,
		`  "immediate_actions": ["..."],`,
		`  "confidence": 85`,
		"}")

	return b.String(), nil
}

func (s *TriageStage) ParseResponse(raw string) (*ParsedStage, error) {
	jsonContent := extractJSON(raw)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var d TriageDetails
	if err := json.Unmarshal([]byte(jsonContent), &d); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}
	d.Stage = StageTriage

	if d.RiskCategory == "" {
		return nil, fmt.Errorf("missing risk_category")
	}

	summary := fmt.Sprintf("Triage: %s risk (urgency %d), %d red flag(s)",
		d.RiskCategory, d.UrgencyScore, len(d.RedFlags))

	return &ParsedStage{
		Details:    &d,
		Summary:    summary,
		Confidence: clampConfidence(d.Confidence),
		Reasoning:  d.Rationale,
	}, nil
}
