package pipeline

import (
	"time"

	"healthmesh-be/pkg/clinical/scoring"

	"github.com/google/uuid"
)

// StageKey identifies one stage of the analysis pipeline. Downstream stages
// locate their upstream results through this typed key, never through free
// text or positional indexes.
type StageKey string

const (
	StageTriage           StageKey = "triage"
	StageDiagnostic       StageKey = "diagnostic"
	StageGuideline        StageKey = "guideline"
	StageMedicationSafety StageKey = "medication_safety"
	StageEvidence         StageKey = "evidence"
	StageSynthesis        StageKey = "synthesis"
)

func (k StageKey) String() string {
	return string(k)
}

// SpecialistStages is the fixed execution order of the specialist stages.
// Synthesis always runs last and is not part of this list.
var SpecialistStages = []StageKey{
	StageTriage,
	StageDiagnostic,
	StageGuideline,
	StageMedicationSafety,
	StageEvidence,
}

type StageStatus string

const (
	StatusCompleted StageStatus = "completed"
	StatusError     StageStatus = "error"
)

// Details is the stage-specific structured payload of a StageResult.
// Every payload carries its stage tag even when the stage errored,
// so a later stage can locate it without guessing.
type Details interface {
	DetailsStage() StageKey
}

// ErrorDetails is the payload attached to an errored stage.
type ErrorDetails struct {
	Stage   StageKey `json:"stage"`
	Message string   `json:"message"`
}

func (d *ErrorDetails) DetailsStage() StageKey { return d.Stage }

// StageResult is the uniform record emitted by the executor for every stage
// attempted, completed or not.
type StageResult struct {
	Stage           StageKey    `json:"stage"`
	Status          StageStatus `json:"status"`
	StartedAt       time.Time   `json:"started_at"`
	FinishedAt      time.Time   `json:"finished_at"`
	Summary         string      `json:"summary"`
	Details         Details     `json:"details"`
	Confidence      *int        `json:"confidence,omitempty"` // 0-100, only when completed
	EvidenceSources []string    `json:"evidence_sources,omitempty"`
	Reasoning       []string    `json:"reasoning,omitempty"`
}

// PatientSummary is the demographic slice of the case the stages may see.
type PatientSummary struct {
	Id      uuid.UUID `json:"id"`
	Age     int       `json:"age"`
	Sex     string    `json:"sex"`
	Summary string    `json:"summary,omitempty"`
}

// ContextInput is everything the caller supplies to start one analysis run.
// The case/patient store assembles it; the pipeline never touches storage.
type ContextInput struct {
	CaseId           uuid.UUID
	Patient          PatientSummary
	ClinicalQuestion string
	Diagnoses        []string
	Medications      []string
	Allergies        []string
	Vitals           *scoring.VitalSigns
	Labs             *scoring.LabValues
}

// PipelineContext is the accumulated, append-only record for one run.
// Built once, read by every stage, appended to only by the executor.
type PipelineContext struct {
	CaseId           uuid.UUID
	Patient          PatientSummary
	ClinicalQuestion string
	Diagnoses        []string
	Medications      []string
	Allergies        []string
	Vitals           *scoring.VitalSigns
	Labs             *scoring.LabValues

	// Deterministic scores, computed once at construction. Nil when the
	// corresponding inputs were entirely absent.
	UrgencyScore *scoring.ScoreBreakdown
	OrganScore   *scoring.ScoreBreakdown
	RiskCategory scoring.RiskCategory

	ordered []*StageResult
	results map[StageKey]*StageResult
}

// NewContext builds the run context and computes both deterministic scores
// up front so every stage sees the same numbers.
func NewContext(in ContextInput) *PipelineContext {
	pc := &PipelineContext{
		CaseId:           in.CaseId,
		Patient:          in.Patient,
		ClinicalQuestion: in.ClinicalQuestion,
		Diagnoses:        in.Diagnoses,
		Medications:      in.Medications,
		Allergies:        in.Allergies,
		Vitals:           in.Vitals,
		Labs:             in.Labs,
		results:          make(map[StageKey]*StageResult),
	}

	var urgency, organ *int
	if in.Vitals.HasAny() {
		b := scoring.NEWS2(*in.Vitals)
		pc.UrgencyScore = &b
		urgency = &b.Total
	}
	if in.Labs.HasAny() {
		b := scoring.SOFA(*in.Labs)
		pc.OrganScore = &b
		organ = &b.Total
	}
	pc.RiskCategory = scoring.CombineRisk(urgency, organ)

	return pc
}

// Append records a stage result. Called by the executor only; the pipeline
// runs stages sequentially so no locking is needed.
func (pc *PipelineContext) Append(r *StageResult) {
	pc.ordered = append(pc.ordered, r)
	pc.results[r.Stage] = r
}

// Result returns the result of a stage, completed or errored.
func (pc *PipelineContext) Result(key StageKey) (*StageResult, bool) {
	r, ok := pc.results[key]
	return r, ok
}

// CompletedDetails returns the structured payload of a stage only when that
// stage completed. Upstream failures surface as nil, never as a crash.
func (pc *PipelineContext) CompletedDetails(key StageKey) Details {
	r, ok := pc.results[key]
	if !ok || r.Status != StatusCompleted {
		return nil
	}
	return r.Details
}

// Results returns the stage results in execution order.
func (pc *PipelineContext) Results() []*StageResult {
	out := make([]*StageResult, len(pc.ordered))
	copy(out, pc.ordered)
	return out
}
