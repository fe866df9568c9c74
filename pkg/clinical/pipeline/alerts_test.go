package pipeline

import (
	"testing"
	"time"
)

func TestDeriveAlerts(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name         string
		details      *MedicationSafetyDetails
		wantCount    int
		wantType     AlertType
		wantSeverity AlertSeverity
	}{
		{
			name:      "nil details",
			details:   nil,
			wantCount: 0,
		},
		{
			name:      "empty details",
			details:   &MedicationSafetyDetails{},
			wantCount: 0,
		},
		{
			name: "high interaction is critical",
			details: &MedicationSafetyDetails{
				Interactions: []DrugInteraction{
					{DrugA: "warfarin", DrugB: "amiodarone", Severity: InteractionHigh, Effect: "INR rise", Management: "reduce dose"},
				},
			},
			wantCount:    1,
			wantType:     AlertDrugInteraction,
			wantSeverity: SeverityCritical,
		},
		{
			name: "moderate and low interactions stay in the stage result",
			details: &MedicationSafetyDetails{
				Interactions: []DrugInteraction{
					{DrugA: "a", DrugB: "b", Severity: InteractionModerate},
					{DrugA: "c", DrugB: "d", Severity: InteractionLow},
				},
			},
			wantCount: 0,
		},
		{
			name: "allergy conflict is a warning",
			details: &MedicationSafetyDetails{
				AllergyConflicts: []AllergyConflict{
					{Medication: "amoxicillin", Allergy: "penicillin", CrossReactive: false},
				},
			},
			wantCount:    1,
			wantType:     AlertAllergy,
			wantSeverity: SeverityWarning,
		},
		{
			name: "cross-reactive allergy conflict is critical",
			details: &MedicationSafetyDetails{
				AllergyConflicts: []AllergyConflict{
					{Medication: "cefazolin", Allergy: "penicillin", CrossReactive: true},
				},
			},
			wantCount:    1,
			wantType:     AlertAllergy,
			wantSeverity: SeverityCritical,
		},
		{
			name: "absolute contraindication is critical",
			details: &MedicationSafetyDetails{
				Contraindications: []Contraindication{
					{Medication: "metformin", Condition: "eGFR < 30", Severity: ContraindicationAbsolute, Rationale: "lactic acidosis risk"},
				},
			},
			wantCount:    1,
			wantType:     AlertContraindication,
			wantSeverity: SeverityCritical,
		},
		{
			name: "relative contraindication is not alerted",
			details: &MedicationSafetyDetails{
				Contraindications: []Contraindication{
					{Medication: "nsaid", Condition: "ckd stage 3", Severity: ContraindicationRelative},
				},
			},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := DeriveAlerts(tt.details, now)
			if len(alerts) != tt.wantCount {
				t.Fatalf("DeriveAlerts = %d alerts, want %d", len(alerts), tt.wantCount)
			}
			if tt.wantCount == 0 {
				return
			}
			a := alerts[0]
			if a.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", a.Type, tt.wantType)
			}
			if a.Severity != tt.wantSeverity {
				t.Errorf("Severity = %s, want %s", a.Severity, tt.wantSeverity)
			}
			if a.SourceStage != StageMedicationSafety {
				t.Errorf("SourceStage = %s, want %s", a.SourceStage, StageMedicationSafety)
			}
			if !a.CreatedAt.Equal(now) {
				t.Errorf("CreatedAt = %v, want %v", a.CreatedAt, now)
			}
		})
	}
}

func TestDeriveAlertsOnePerFinding(t *testing.T) {
	details := &MedicationSafetyDetails{
		Interactions: []DrugInteraction{
			{DrugA: "a", DrugB: "b", Severity: InteractionHigh},
			{DrugA: "c", DrugB: "d", Severity: InteractionHigh},
			{DrugA: "e", DrugB: "f", Severity: InteractionModerate},
		},
		AllergyConflicts: []AllergyConflict{
			{Medication: "m", Allergy: "x"},
		},
		Contraindications: []Contraindication{
			{Medication: "p", Condition: "q", Severity: ContraindicationAbsolute},
			{Medication: "r", Condition: "s", Severity: ContraindicationRelative},
		},
	}

	alerts := DeriveAlerts(details, time.Now())
	if len(alerts) != 4 {
		t.Fatalf("DeriveAlerts = %d alerts, want 4 (2 interactions + 1 allergy + 1 contraindication)", len(alerts))
	}
}
