// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"healthmesh-be/pkg/events"
	"healthmesh-be/pkg/monitoring"
	pktNats "healthmesh-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process monitoring bus and re-publishes
// each message as a durable JetStream event. The pipeline never talks to
// NATS directly; an unreachable broker must not slow a running analysis.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	eventPublisher *pktNats.Publisher
}

func NewConsumerService(pubSub *gochannel.GoChannel, eventPublisher *pktNats.Publisher) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		eventPublisher: eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	stageMessages, err := cs.pubSub.Subscribe(ctx, monitoring.TopicStageExecuted)
	if err != nil {
		return err
	}
	alertMessages, err := cs.pubSub.Subscribe(ctx, monitoring.TopicRiskAlert)
	if err != nil {
		return err
	}

	go func() {
		for msg := range stageMessages {
			cs.processStageMessage(ctx, msg)
		}
	}()
	go func() {
		for msg := range alertMessages {
			cs.processAlertMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processStageMessage(ctx context.Context, msg *message.Message) {
	var payload monitoring.StageExecutedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal stage message: %v", err)
		msg.Ack() // malformed messages never become valid on retry
		return
	}

	status := "errored"
	if payload.Success {
		status = "completed"
	}
	durationMs := payload.FinishedAt.Sub(payload.StartedAt).Milliseconds()

	event := events.NewStageExecuted(payload.CaseId.String(), payload.Stage, status, durationMs)
	if err := cs.eventPublisher.Publish(ctx, event); err != nil {
		log.Printf("[ERROR] Failed to publish stage event for case %s: %v", payload.CaseId, err)
		msg.Nack()
		return
	}

	msg.Ack()
}

func (cs *consumerService) processAlertMessage(ctx context.Context, msg *message.Message) {
	var payload monitoring.RiskAlertMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal alert message: %v", err)
		msg.Ack()
		return
	}

	event := events.NewRiskAlertRaised(
		payload.CaseId.String(),
		payload.PatientId.String(),
		string(payload.Alert.Type),
		string(payload.Alert.Severity),
		payload.Alert.Title,
		payload.Alert.Description,
		payload.Alert.SuggestedAction,
	)
	if err := cs.eventPublisher.Publish(ctx, event); err != nil {
		log.Printf("[ERROR] Failed to publish alert event for case %s: %v", payload.CaseId, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
