package monitoring

import (
	"encoding/json"
	"log"
	"time"

	"healthmesh-be/pkg/clinical/pipeline"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// In-process topics the pipeline reports on. Consumers bridge these to the
// external NATS bus and the persistence layer.
const (
	TopicStageExecuted = "analysis.stage.executed"
	TopicRiskAlert     = "analysis.risk.alert"
)

// StageExecutedMessage is the payload published on TopicStageExecuted.
type StageExecutedMessage struct {
	Stage      string    `json:"stage"`
	CaseId     uuid.UUID `json:"case_id"`
	PatientId  uuid.UUID `json:"patient_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Success    bool      `json:"success"`
	Confidence *int      `json:"confidence,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// RiskAlertMessage is the payload published on TopicRiskAlert.
type RiskAlertMessage struct {
	CaseId    uuid.UUID          `json:"case_id"`
	PatientId uuid.UUID          `json:"patient_id"`
	Alert     pipeline.RiskAlert `json:"alert"`
}

// NewPubSub builds the in-process bus the monitor publishes on.
func NewPubSub() *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NopLogger{},
	)
}

// BusMonitor forwards pipeline telemetry onto an in-process watermill bus.
// Publishing is best-effort: a full or closed bus is logged and dropped so
// monitoring can never stall an analysis run.
type BusMonitor struct {
	pubSub *gochannel.GoChannel
	logger *log.Logger
}

func NewBusMonitor(pubSub *gochannel.GoChannel, logger *log.Logger) *BusMonitor {
	return &BusMonitor{
		pubSub: pubSub,
		logger: logger,
	}
}

func (m *BusMonitor) RecordStageExecution(ex pipeline.StageExecution) {
	m.publish(TopicStageExecuted, StageExecutedMessage{
		Stage:      ex.Stage,
		CaseId:     ex.CaseId,
		PatientId:  ex.PatientId,
		StartedAt:  ex.StartedAt,
		FinishedAt: ex.FinishedAt,
		Success:    ex.Success,
		Confidence: ex.Confidence,
		Error:      ex.Error,
	})
}

func (m *BusMonitor) RecordRiskAlert(alert pipeline.RiskAlert, caseId, patientId uuid.UUID) {
	m.publish(TopicRiskAlert, RiskAlertMessage{
		CaseId:    caseId,
		PatientId: patientId,
		Alert:     alert,
	})
}

func (m *BusMonitor) publish(topic string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		m.logger.Printf("[MONITOR] failed to marshal %s payload: %v", topic, err)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := m.pubSub.Publish(topic, msg); err != nil {
		m.logger.Printf("[MONITOR] failed to publish on %s: %v", topic, err)
	}
}
