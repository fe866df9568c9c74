package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ConfidenceLevel is the aggregate confidence classification of a synthesis.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "Low"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceHigh   ConfidenceLevel = "High"
)

type RiskBlock struct {
	UrgencyScore *int   `json:"urgency_score,omitempty"`
	OrganScore   *int   `json:"organ_score,omitempty"`
	Category     string `json:"category"`
}

type RankedDifferential struct {
	Condition string `json:"condition"`
	Rank      int    `json:"rank"`
	Rationale string `json:"rationale"`
}

type SafetySummary struct {
	OverallRisk string   `json:"overall_risk"`
	Highlights  []string `json:"highlights"`
}

type EvidenceSummary struct {
	Strength  string   `json:"strength"`
	KeyPoints []string `json:"key_points"`
}

// Explainability enumerates what drove the recommendation and what was
// missing, so a reviewer can see the edges of the analysis.
type Explainability struct {
	DrivingFactors []string `json:"driving_factors"`
	InfluencedBy   []string `json:"influenced_by"`
	MissingData    []string `json:"missing_data"`
}

// FinalSynthesis is the single decision-support output of a run.
type FinalSynthesis struct {
	Stage             StageKey             `json:"stage"`
	CaseSummary       string               `json:"case_summary"`
	Risk              RiskBlock            `json:"risk"`
	Differential      []RankedDifferential `json:"differential"`
	Recommendations   []string             `json:"recommendations"`
	MedicationSafety  SafetySummary        `json:"medication_safety"`
	Evidence          EvidenceSummary      `json:"evidence"`
	Explainability    Explainability       `json:"explainability"`
	OverallConfidence ConfidenceLevel      `json:"overall_confidence"`
}

func (d *FinalSynthesis) DetailsStage() StageKey { return StageSynthesis }

// SynthesisStage reconciles every prior stage result into one unified
// recommendation. Errored stages are skipped as inputs but still lower the
// aggregate confidence.
type SynthesisStage struct{}

func NewSynthesisStage() *SynthesisStage { return &SynthesisStage{} }

func (s *SynthesisStage) Key() StageKey { return StageSynthesis }

func (s *SynthesisStage) Instruction() string {
	return "You are the synthesis specialist closing a multi-stage clinical analysis. " +
		"You reconcile the specialist assessments into one consistent decision-support summary. " +
		"Where assessments disagree, say so instead of smoothing it over. " +
		"Where an assessment is missing, state what is missing. " +
		"Your output is advisory and will be reviewed by a professional. " +
		"Respond with ONLY valid JSON matching the requested shape."
}

func (s *SynthesisStage) BuildPrompt(_ context.Context, pc *PipelineContext) (string, []string) {
	var b strings.Builder

	writeCaseContext(&b, pc)

	var assessments strings.Builder
	for _, key := range SpecialistStages {
		r, ok := pc.Result(key)
		switch {
		case !ok:
			assessments.WriteString(fmt.Sprintf("%s: not run\n", key))
		case r.Status != StatusCompleted:
			assessments.WriteString(fmt.Sprintf("%s: FAILED (%s)\n", key, r.Summary))
		default:
			assessments.WriteString(fmt.Sprintf("%s (confidence %d): %s\n", key, *r.Confidence, r.Summary))
			for _, line := range r.Reasoning {
				assessments.WriteString("  - " + line + "\n")
			}
			if detail := renderDetail(r.Details); detail != "" {
				assessments.WriteString(detail)
			}
		}
	}
	writeSection(&b, "specialist_assessments", strings.TrimSpace(assessments.String()))

	writeSection(&b, "task",
		"Produce the final decision-support synthesis:",
		"- a consolidated case summary,",
		"- the ranked differential carried forward from the diagnostic assessment,",
		"- guideline-aligned recommendations,",
		"- a medication safety summary,",
		"- an evidence summary,",
		"- an explainability panel: what drove the recommendation, which assessments influenced it, what data is missing.",
		"Base everything on the assessments above. Do not invent findings that no stage produced.")

	writeSection(&b, "output_format",
		"Respond with ONLY valid JSON:",
		"{",
		`  "case_summary": "...",`,
		`  "differential": [{"condition": "...", "rank": 1, "rationale": "..."}],`,
		`  "recommendations": ["..."],`,
		`  "medication_safety": {"overall_risk": "Low|Moderate|High", "highlights": ["..."]},`,
		`  "evidence": {"strength": "Strong|Moderate|Weak", "key_points": ["..."]},`,
		`  "explainability": {"driving_factors": ["..."], "influenced_by": ["..."], "missing_data": ["..."]}`,
		"}")

	return b.String(), nil
}

// renderDetail exposes the parts of a payload the synthesis needs verbatim
// rather than summarized.
func renderDetail(d Details) string {
	var b strings.Builder
	switch v := d.(type) {
	case *DiagnosticDetails:
		for i, diff := range v.Differentials {
			b.WriteString(fmt.Sprintf("  %d. %s (%s likelihood)\n", i+1, diff.Condition, diff.Likelihood))
		}
	case *GuidelineDetails:
		for _, c := range v.Citations {
			b.WriteString(fmt.Sprintf("  - [%s] %s (evidence: %s)\n", c.Organization, c.Recommendation, c.EvidenceStrength))
		}
	case *MedicationSafetyDetails:
		for _, in := range v.Interactions {
			b.WriteString(fmt.Sprintf("  - interaction %s + %s: %s (%s)\n", in.DrugA, in.DrugB, in.Severity, in.Effect))
		}
		for _, ci := range v.Contraindications {
			b.WriteString(fmt.Sprintf("  - contraindication %s with %s: %s\n", ci.Medication, ci.Condition, ci.Severity))
		}
	}
	return b.String()
}

func (s *SynthesisStage) ParseResponse(raw string) (*ParsedStage, error) {
	jsonContent := extractJSON(raw)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var d FinalSynthesis
	if err := json.Unmarshal([]byte(jsonContent), &d); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}
	d.Stage = StageSynthesis

	if d.CaseSummary == "" {
		return nil, fmt.Errorf("missing case_summary")
	}

	summary := fmt.Sprintf("Synthesis: %d recommendation(s), %d differential(s)",
		len(d.Recommendations), len(d.Differential))

	return &ParsedStage{
		Details:   &d,
		Summary:   summary,
		Reasoning: d.Explainability.DrivingFactors,
	}, nil
}

// OverallConfidence computes the aggregate confidence classification from
// the specialist results. The rule: take the lowest confidence among
// completed specialist stages, band it (>=75 High, >=50 Medium, else Low),
// then downgrade one band per errored specialist stage. Monotonic in both
// inputs; a run with no completed specialist stage is always Low.
func OverallConfidence(pc *PipelineContext) ConfidenceLevel {
	lowest := -1
	errored := 0

	for _, key := range SpecialistStages {
		r, ok := pc.Result(key)
		if !ok {
			continue
		}
		if r.Status != StatusCompleted {
			errored++
			continue
		}
		c := DefaultConfidence
		if r.Confidence != nil {
			c = *r.Confidence
		}
		if lowest == -1 || c < lowest {
			lowest = c
		}
	}

	if lowest == -1 {
		return ConfidenceLow
	}

	level := ConfidenceLow
	switch {
	case lowest >= 75:
		level = ConfidenceHigh
	case lowest >= 50:
		level = ConfidenceMedium
	}

	for i := 0; i < errored; i++ {
		level = downgrade(level)
	}
	return level
}

func downgrade(l ConfidenceLevel) ConfidenceLevel {
	switch l {
	case ConfidenceHigh:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
