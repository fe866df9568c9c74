package dto

import (
	"encoding/json"
	"time"

	"healthmesh-be/pkg/clinical/scoring"

	"github.com/google/uuid"
)

type CreateCaseRequest struct {
	PatientId        uuid.UUID           `json:"patient_id" validate:"required"`
	ClinicalQuestion string              `json:"clinical_question" validate:"required,min=10"`
	Diagnoses        []string            `json:"diagnoses"`
	Medications      []string            `json:"medications"`
	Allergies        []string            `json:"allergies"`
	Vitals           *scoring.VitalSigns `json:"vitals,omitempty"`
	Labs             *scoring.LabValues  `json:"labs,omitempty"`
}

type CreateCaseResponse struct {
	Id           uuid.UUID `json:"id"`
	RiskCategory string    `json:"risk_category"`
}

type ShowCaseResponse struct {
	Id               uuid.UUID           `json:"id"`
	PatientId        uuid.UUID           `json:"patient_id"`
	ClinicalQuestion string              `json:"clinical_question"`
	Diagnoses        []string            `json:"diagnoses,omitempty"`
	Medications      []string            `json:"medications,omitempty"`
	Allergies        []string            `json:"allergies,omitempty"`
	Vitals           *scoring.VitalSigns `json:"vitals,omitempty"`
	Labs             *scoring.LabValues  `json:"labs,omitempty"`
	Status           string              `json:"status"`
	RiskCategory     string              `json:"risk_category,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

// StageResultResponse is one persisted pipeline stage outcome.
type StageResultResponse struct {
	Stage           string          `json:"stage"`
	Status          string          `json:"status"`
	Summary         string          `json:"summary"`
	Details         json.RawMessage `json:"details,omitempty"`
	Confidence      *int            `json:"confidence,omitempty"`
	EvidenceSources []string        `json:"evidence_sources,omitempty"`
	Reasoning       []string        `json:"reasoning,omitempty"`
	StartedAt       time.Time       `json:"started_at"`
	FinishedAt      time.Time       `json:"finished_at"`
}

type RiskAlertResponse struct {
	Id              uuid.UUID  `json:"id"`
	CaseId          uuid.UUID  `json:"case_id"`
	Type            string     `json:"type"`
	Severity        string     `json:"severity"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	SourceStage     string     `json:"source_stage"`
	SuggestedAction string     `json:"suggested_action,omitempty"`
	Acknowledged    bool       `json:"acknowledged"`
	AcknowledgedAt  *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// AnalysisResponse is the full result of one pipeline run over a case.
type AnalysisResponse struct {
	CaseId            uuid.UUID             `json:"case_id"`
	Status            string                `json:"status"`
	RiskCategory      string                `json:"risk_category"`
	OverallConfidence string                `json:"overall_confidence,omitempty"`
	Stages            []StageResultResponse `json:"stages"`
	Alerts            []RiskAlertResponse   `json:"alerts,omitempty"`
	Synthesis         json.RawMessage       `json:"synthesis,omitempty"`
	StartedAt         time.Time             `json:"started_at"`
	FinishedAt        time.Time             `json:"finished_at"`
}

// AlertNotificationMessage is pushed over the websocket to subscribed
// clinicians when an analysis raises an alert.
type AlertNotificationMessage struct {
	CaseId    uuid.UUID `json:"case_id"`
	PatientId uuid.UUID `json:"patient_id"`
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
