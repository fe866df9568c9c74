package pipeline

import (
	"fmt"
	"time"
)

type AlertType string

const (
	AlertDrugInteraction  AlertType = "drug-interaction"
	AlertAllergy          AlertType = "allergy"
	AlertContraindication AlertType = "contraindication"
)

type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// RiskAlert is a discrete safety finding surfaced outside the stage
// narrative. Always derived, never hand-authored.
type RiskAlert struct {
	Type            AlertType     `json:"type"`
	Severity        AlertSeverity `json:"severity"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	SourceStage     StageKey      `json:"source_stage"`
	SuggestedAction string        `json:"suggested_action"`
	CreatedAt       time.Time     `json:"created_at"`
}

// DeriveAlerts maps medication safety findings onto discrete alerts, one per
// qualifying finding. Moderate/Low interactions and Relative
// contraindications stay in the stage result only; surfacing them here would
// drown the findings that matter.
func DeriveAlerts(d *MedicationSafetyDetails, now time.Time) []RiskAlert {
	if d == nil {
		return nil
	}

	var alerts []RiskAlert

	for _, in := range d.Interactions {
		if in.Severity != InteractionHigh {
			continue
		}
		alerts = append(alerts, RiskAlert{
			Type:            AlertDrugInteraction,
			Severity:        SeverityCritical,
			Title:           fmt.Sprintf("High-severity interaction: %s + %s", in.DrugA, in.DrugB),
			Description:     in.Effect,
			SourceStage:     StageMedicationSafety,
			SuggestedAction: in.Management,
			CreatedAt:       now,
		})
	}

	for _, ac := range d.AllergyConflicts {
		severity := SeverityWarning
		if ac.CrossReactive {
			severity = SeverityCritical
		}
		alerts = append(alerts, RiskAlert{
			Type:            AlertAllergy,
			Severity:        severity,
			Title:           fmt.Sprintf("Allergy conflict: %s vs %s", ac.Medication, ac.Allergy),
			Description:     ac.Note,
			SourceStage:     StageMedicationSafety,
			SuggestedAction: fmt.Sprintf("Review %s against the documented %s allergy", ac.Medication, ac.Allergy),
			CreatedAt:       now,
		})
	}

	for _, ci := range d.Contraindications {
		if ci.Severity != ContraindicationAbsolute {
			continue
		}
		alerts = append(alerts, RiskAlert{
			Type:            AlertContraindication,
			Severity:        SeverityCritical,
			Title:           fmt.Sprintf("Absolute contraindication: %s with %s", ci.Medication, ci.Condition),
			Description:     ci.Rationale,
			SourceStage:     StageMedicationSafety,
			SuggestedAction: fmt.Sprintf("Stop or replace %s", ci.Medication),
			CreatedAt:       now,
		})
	}

	return alerts
}
