package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Differential is one entry of the ranked differential list.
type Differential struct {
	Condition     string   `json:"condition"`
	Likelihood    string   `json:"likelihood"` // High, Moderate, Low
	Supporting    []string `json:"supporting_findings"`
	Contradicting []string `json:"contradicting_findings"`
	DataGaps      []string `json:"data_gaps"`
}

// DiagnosticDetails is the structured output of the diagnostic stage.
type DiagnosticDetails struct {
	Stage            StageKey       `json:"stage"`
	Differentials    []Differential `json:"differentials"`
	PrimarySuspicion string         `json:"primary_suspicion"`
	Confidence       int            `json:"confidence"`
	Reasoning        []string       `json:"reasoning"`
}

func (d *DiagnosticDetails) DetailsStage() StageKey { return StageDiagnostic }

// DiagnosticStage builds the ranked differential. It reads the triage result
// when available and degrades to the raw case context when it is not.
type DiagnosticStage struct{}

func NewDiagnosticStage() *DiagnosticStage { return &DiagnosticStage{} }

func (s *DiagnosticStage) Key() StageKey { return StageDiagnostic }

func (s *DiagnosticStage) Instruction() string {
	return "You are a diagnostic reasoning specialist supporting a licensed clinician. " +
		"You produce a ranked differential with explicit supporting and contradicting findings. " +
		"Name the data gaps instead of papering over them. " +
		"Your output is advisory and will be reviewed by a professional. " +
		"Respond with ONLY valid JSON matching the requested shape."
}

func (s *DiagnosticStage) BuildPrompt(_ context.Context, pc *PipelineContext) (string, []string) {
	var b strings.Builder

	writeCaseContext(&b, pc)

	writeSection(&b, "triage_assessment", upstreamOrNotice(pc, StageTriage))
	if td, ok := pc.CompletedDetails(StageTriage).(*TriageDetails); ok {
		var t strings.Builder
		writeList(&t, "Red flags from triage", td.RedFlags)
		writeSection(&b, "triage_red_flags", strings.TrimSpace(t.String()))
	}

	writeSection(&b, "task",
		"Produce a ranked differential for the clinical question, most likely first.",
		"For each candidate condition list the findings that support it, the findings that argue against it, and the data still missing.",
		"Name exactly one primary suspicion.")

	writeSection(&b, "output_format",
		"Respond with ONLY valid JSON:",
		"{",
		`  "differentials": [`,
		"    {",
		`      "condition": "...",`,
		`      "likelihood": "High|Moderate|Low",`,
		`      "supporting_findings": ["..."],`,
		`      "contradicting_findings": ["..."],`,
		`      "data_gaps": ["..."]`,
		"    }",
		"  ],",
		`  "primary_suspicion": "...",`,
		`  "confidence": 70,`,
		`  "reasoning": ["..."]`,
		"}")

	return b.String(), nil
}

func (s *DiagnosticStage) ParseResponse(raw string) (*ParsedStage, error) {
	jsonContent := extractJSON(raw)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var d DiagnosticDetails
	if err := json.Unmarshal([]byte(jsonContent), &d); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}
	d.Stage = StageDiagnostic

	if len(d.Differentials) == 0 {
		return nil, fmt.Errorf("empty differential list")
	}
	if d.PrimarySuspicion == "" {
		d.PrimarySuspicion = d.Differentials[0].Condition
	}

	summary := fmt.Sprintf("Diagnostic: %d differential(s), primary suspicion %q",
		len(d.Differentials), d.PrimarySuspicion)

	return &ParsedStage{
		Details:    &d,
		Summary:    summary,
		Confidence: clampConfidence(d.Confidence),
		Reasoning:  d.Reasoning,
	}, nil
}
