package events

import "time"

// Event type codes emitted by the analysis pipeline.
const (
	TypeAnalysisStageExecuted = "ANALYSIS_STAGE_EXECUTED"
	TypeRiskAlertRaised       = "RISK_ALERT_RAISED"
	TypeAnalysisCompleted     = "ANALYSIS_COMPLETED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RISK_ALERT_RAISED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation most publishers use directly.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewStageExecuted reports one pipeline stage finishing, whether it
// completed or errored.
func NewStageExecuted(caseId string, stage string, status string, durationMs int64) Event {
	return BaseEvent{
		Type: TypeAnalysisStageExecuted,
		Data: map[string]interface{}{
			"case_id":     caseId,
			"stage":       stage,
			"status":      status,
			"duration_ms": durationMs,
		},
		OccurredAt: time.Now(),
	}
}

// NewRiskAlertRaised reports a medication-safety alert derived during analysis.
func NewRiskAlertRaised(caseId string, patientId string, alertType string, severity string, title string, message string, suggestedAction string) Event {
	return BaseEvent{
		Type: TypeRiskAlertRaised,
		Data: map[string]interface{}{
			"case_id":          caseId,
			"patient_id":       patientId,
			"alert_type":       alertType,
			"severity":         severity,
			"title":            title,
			"message":          message,
			"suggested_action": suggestedAction,
		},
		OccurredAt: time.Now(),
	}
}

// NewAnalysisCompleted reports a full pipeline run finishing for a case.
func NewAnalysisCompleted(caseId string, riskCategory string, alertCount int) Event {
	return BaseEvent{
		Type: TypeAnalysisCompleted,
		Data: map[string]interface{}{
			"case_id":       caseId,
			"risk_category": riskCategory,
			"alert_count":   alertCount,
		},
		OccurredAt: time.Now(),
	}
}
