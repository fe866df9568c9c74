// FILE: internal/service/notification_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"healthmesh-be/internal/dto"
	"healthmesh-be/internal/model"
	"healthmesh-be/internal/pkg/logger"
	"healthmesh-be/internal/pkg/mailer"
	"healthmesh-be/internal/repository"
	"healthmesh-be/pkg/events"
	pktNats "healthmesh-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const clinicianRole = "clinician"

// AlertDelivery pushes alert notifications to connected clients. The
// websocket hub implements it; tests substitute a recorder.
type AlertDelivery interface {
	Send(userID uuid.UUID, alert dto.AlertNotificationMessage)
	BroadcastAlert(alert dto.AlertNotificationMessage)
}

type INotificationService interface {
	Start() error
	GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	repo            repository.NotificationRepository
	subscriber      *pktNats.Subscriber
	delivery        AlertDelivery
	emailService    mailer.IEmailService
	escalationEmail string
	logger          logger.ILogger
}

func NewNotificationService(
	repo repository.NotificationRepository,
	subscriber *pktNats.Subscriber,
	delivery AlertDelivery,
	emailService mailer.IEmailService,
	escalationEmail string,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		repo:            repo,
		subscriber:      subscriber,
		delivery:        delivery,
		emailService:    emailService,
		escalationEmail: escalationEmail,
		logger:          log,
	}
}

// Start registers the durable consumers. Durable names keep offsets across
// restarts so alerts raised while the worker is down still get delivered.
func (s *notificationService) Start() error {
	if s.subscriber == nil {
		s.logger.Warn("NotificationService", "No event subscriber configured, notifications disabled", nil)
		return nil
	}

	if err := s.subscriber.Subscribe("events."+events.TypeRiskAlertRaised, "alert-notif-worker", s.handleRiskAlert); err != nil {
		return fmt.Errorf("subscribing to risk alerts: %w", err)
	}
	if err := s.subscriber.Subscribe("events."+events.TypeAnalysisCompleted, "analysis-notif-worker", s.handleAnalysisCompleted); err != nil {
		return fmt.Errorf("subscribing to analysis completions: %w", err)
	}
	return nil
}

func (s *notificationService) handleRiskAlert(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	caseId := payloadString(payload, "case_id")
	severity := payloadString(payload, "severity")
	title := payloadString(payload, "title")
	message := payloadString(payload, "message")

	alertMsg := dto.AlertNotificationMessage{
		Type:      payloadString(payload, "alert_type"),
		Severity:  severity,
		Title:     title,
		Message:   message,
		CreatedAt: event.Timestamp(),
	}
	if id, err := uuid.Parse(caseId); err == nil {
		alertMsg.CaseId = id
	}
	if id, err := uuid.Parse(payloadString(payload, "patient_id")); err == nil {
		alertMsg.PatientId = id
	}

	clinicians, err := s.repo.GetUsersByRole(ctx, clinicianRole)
	if err != nil {
		return fmt.Errorf("resolving clinicians: %w", err)
	}

	metadata, _ := json.Marshal(payload)
	entityId := alertMsg.CaseId

	for _, user := range clinicians {
		notification := model.Notification{
			UserID:     user.Id,
			TypeCode:   events.TypeRiskAlertRaised,
			EntityType: "clinical_case",
			EntityID:   &entityId,
			Title:      title,
			Message:    message,
			Metadata:   datatypes.JSON(metadata),
			CreatedAt:  time.Now(),
		}
		if err := s.repo.CreateNotification(ctx, &notification); err != nil {
			s.logger.Error("NotificationService", "Failed to persist notification", map[string]interface{}{
				"user_id": user.Id, "case_id": caseId, "error": err.Error(),
			})
			continue
		}
		s.delivery.Send(user.Id, alertMsg)
	}

	if severity == "critical" {
		s.escalate(caseId, title, message, payloadString(payload, "suggested_action"))
		s.delivery.BroadcastAlert(alertMsg)
	}

	return nil
}

func (s *notificationService) handleAnalysisCompleted(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	caseId := payloadString(payload, "case_id")
	riskCategory := payloadString(payload, "risk_category")

	s.logger.Info("NotificationService", "Analysis completed", map[string]interface{}{
		"case_id":       caseId,
		"risk_category": riskCategory,
	})

	clinicians, err := s.repo.GetUsersByRole(ctx, clinicianRole)
	if err != nil {
		return fmt.Errorf("resolving clinicians: %w", err)
	}

	metadata, _ := json.Marshal(payload)
	var entityId *uuid.UUID
	if id, err := uuid.Parse(caseId); err == nil {
		entityId = &id
	}

	for _, user := range clinicians {
		notification := model.Notification{
			UserID:     user.Id,
			TypeCode:   events.TypeAnalysisCompleted,
			EntityType: "clinical_case",
			EntityID:   entityId,
			Title:      "Case analysis complete",
			Message:    fmt.Sprintf("Analysis finished for case %s (risk: %s)", caseId, riskCategory),
			Metadata:   datatypes.JSON(metadata),
			CreatedAt:  time.Now(),
		}
		if err := s.repo.CreateNotification(ctx, &notification); err != nil {
			s.logger.Error("NotificationService", "Failed to persist notification", map[string]interface{}{
				"user_id": user.Id, "case_id": caseId, "error": err.Error(),
			})
		}
	}

	return nil
}

func (s *notificationService) escalate(caseId, title, message, suggestedAction string) {
	if s.emailService == nil || s.escalationEmail == "" {
		return
	}
	if err := s.emailService.SendCriticalAlertEscalation(s.escalationEmail, caseId, title, message, suggestedAction); err != nil {
		s.logger.Error("NotificationService", "Failed to send escalation email", map[string]interface{}{
			"case_id": caseId, "error": err.Error(),
		})
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, notificationID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func payloadString(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
