package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// InteractionSeverity grades a drug-drug interaction.
type InteractionSeverity string

const (
	InteractionLow      InteractionSeverity = "Low"
	InteractionModerate InteractionSeverity = "Moderate"
	InteractionHigh     InteractionSeverity = "High"
)

// ContraindicationSeverity grades a contraindication.
type ContraindicationSeverity string

const (
	ContraindicationAbsolute ContraindicationSeverity = "Absolute"
	ContraindicationRelative ContraindicationSeverity = "Relative"
)

type DrugInteraction struct {
	DrugA      string              `json:"drug_a"`
	DrugB      string              `json:"drug_b"`
	Severity   InteractionSeverity `json:"severity"`
	Effect     string              `json:"effect"`
	Management string              `json:"management"`
}

type AllergyConflict struct {
	Medication    string `json:"medication"`
	Allergy       string `json:"allergy"`
	CrossReactive bool   `json:"cross_reactive"`
	Note          string `json:"note"`
}

type DoseRisk struct {
	Medication string `json:"medication"`
	Issue      string `json:"issue"`
	Adjustment string `json:"adjustment"`
}

type Contraindication struct {
	Medication string                   `json:"medication"`
	Condition  string                   `json:"condition"`
	Severity   ContraindicationSeverity `json:"severity"`
	Rationale  string                   `json:"rationale"`
}

// MedicationSafetyDetails is the structured output of the medication safety
// stage. The alert deriver reads it directly.
type MedicationSafetyDetails struct {
	Stage             StageKey           `json:"stage"`
	Interactions      []DrugInteraction  `json:"interactions"`
	AllergyConflicts  []AllergyConflict  `json:"allergy_conflicts"`
	DoseRisks         []DoseRisk         `json:"dose_risks"`
	Contraindications []Contraindication `json:"contraindications"`
	Alternatives      []string           `json:"safer_alternatives"`
	Monitoring        []string           `json:"monitoring_recommendations"`
	OverallRisk       string             `json:"overall_risk"` // Low, Moderate, High
	Confidence        int                `json:"confidence"`
	Reasoning         []string           `json:"reasoning"`
}

func (d *MedicationSafetyDetails) DetailsStage() StageKey { return StageMedicationSafety }

// MedicationSafetyStage reviews the active medication list against
// allergies, conditions and organ function. It has no upstream stage
// dependency; it runs from the raw case context alone.
type MedicationSafetyStage struct{}

func NewMedicationSafetyStage() *MedicationSafetyStage { return &MedicationSafetyStage{} }

func (s *MedicationSafetyStage) Key() StageKey { return StageMedicationSafety }

func (s *MedicationSafetyStage) Instruction() string {
	return "You are a medication safety specialist supporting a licensed clinician. " +
		"You review the active medication list for drug-drug interactions, allergy conflicts, " +
		"dosing risks given renal and hepatic function, and contraindications against active conditions. " +
		"Grade each finding. Your output is advisory and will be reviewed by a professional. " +
		"Respond with ONLY valid JSON matching the requested shape."
}

func (s *MedicationSafetyStage) BuildPrompt(_ context.Context, pc *PipelineContext) (string, []string) {
	var b strings.Builder

	writeCaseContext(&b, pc)

	var organ strings.Builder
	if pc.Labs != nil && pc.Labs.Creatinine != nil {
		organ.WriteString(fmt.Sprintf("Creatinine: %.2f mg/dL\n", *pc.Labs.Creatinine))
	}
	if pc.Labs != nil && pc.Labs.Bilirubin != nil {
		organ.WriteString(fmt.Sprintf("Bilirubin: %.2f mg/dL\n", *pc.Labs.Bilirubin))
	}
	if organ.Len() == 0 {
		organ.WriteString("No renal or hepatic labs available. Flag dose risks that depend on them as requiring labs.")
	}
	writeSection(&b, "organ_function", strings.TrimSpace(organ.String()))

	writeSection(&b, "task",
		"Review every active medication against the others, the allergy list, the active conditions and the organ function above.",
		"Grade interactions Low/Moderate/High and contraindications Absolute/Relative.",
		"Mark an allergy conflict as cross-reactive when the medication is not the listed allergen but shares its class or a known cross-reactivity.",
		"Suggest safer alternatives and monitoring where findings warrant them, and give one overall safety risk level.")

	writeSection(&b, "output_format",
		"Respond with ONLY valid JSON:",
		"{",
		`  "interactions": [{"drug_a": "...", "drug_b": "...", "severity": "Low|Moderate|High", "effect": "...", "management": "..."}],`,
		`  "allergy_conflicts": [{"medication": "...", "allergy": "...", "cross_reactive": false, "note": "..."}],`,
		`  "dose_risks": [{"medication": "...", "issue": "...", "adjustment": "..."}],`,
		`  "contraindications": [{"medication": "...", "condition": "...", "severity": "Absolute|Relative", "rationale": "..."}],`,
		`  "safer_alternatives": ["..."],`,
		`  "monitoring_recommendations": ["..."],`,
		`  "overall_risk": "Low|Moderate|High",`,
		`  "confidence": 75,`,
		`  "reasoning": ["..."]`,
		"}")

	return b.String(), nil
}

func (s *MedicationSafetyStage) ParseResponse(raw string) (*ParsedStage, error) {
	jsonContent := extractJSON(raw)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var d MedicationSafetyDetails
	if err := json.Unmarshal([]byte(jsonContent), &d); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}
	d.Stage = StageMedicationSafety

	if d.OverallRisk == "" {
		d.OverallRisk = "Low"
	}

	summary := fmt.Sprintf("Medication safety: %s overall risk, %d interaction(s), %d allergy conflict(s), %d contraindication(s)",
		d.OverallRisk, len(d.Interactions), len(d.AllergyConflicts), len(d.Contraindications))

	return &ParsedStage{
		Details:    &d,
		Summary:    summary,
		Confidence: clampConfidence(d.Confidence),
		Reasoning:  d.Reasoning,
	}, nil
}
