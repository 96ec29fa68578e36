package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"disclosure-engine-be/internal/model"
	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/internal/repository/contract"
	"disclosure-engine-be/pkg/events"
	pktNats "disclosure-engine-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	NotificationMessage = "notification"

	notificationSubject = "events.>"
	notificationDurable = "disclosure-notifications"
)

// EventSubscriber is satisfied by *nats.Subscriber.
type EventSubscriber interface {
	Subscribe(subject string, durableName string, handler pktNats.EventHandler) error
}

type notificationTemplate struct {
	Title   string
	Message string
}

// Placeholders are payload keys in braces.
var notificationTemplates = map[string]notificationTemplate{
	events.ProductAccepted: {
		Title:   "Product accepted",
		Message: "{product_name} passed the eligibility check. You can start its disclosure questionnaire.",
	},
	events.QuestionnaireCompleted: {
		Title:   "Questionnaire complete",
		Message: "All {answers} answers are in. Your disclosure report is being prepared.",
	},
	events.DisclosureReportReady: {
		Title:   "Disclosure report ready",
		Message: "The disclosure report for {product_name} is ready.",
	},
	events.DisclosureReportFailed: {
		Title:   "Disclosure report failed",
		Message: "We could not prepare the report for {product_name} after {attempts} attempt(s). You can retry it.",
	},
}

type INotificationService interface {
	Start() error
	GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
}

type NotificationService struct {
	repo       contract.NotificationRepository
	subscriber EventSubscriber
	delivery   Pusher
	logger     logger.ILogger
	now        func() time.Time
}

func NewNotificationService(repo contract.NotificationRepository, sub EventSubscriber, delivery Pusher, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
		now:        time.Now,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *NotificationService) Start() error {
	if err := s.subscriber.Subscribe(notificationSubject, notificationDurable, s.handleEvent); err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("NotificationService", "Notification service started, listening to "+notificationSubject, nil)
	return nil
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	tmpl, ok := notificationTemplates[typeCode]
	if !ok {
		s.logger.Debug("NotificationService", fmt.Sprintf("No template for event '%s'", typeCode), nil)
		return nil
	}

	uidStr, _ := event.Payload()["user_id"].(string)
	userID, err := uuid.Parse(uidStr)
	if err != nil {
		s.logger.Warn("NotificationService", fmt.Sprintf("Event %s has no user_id", typeCode), nil)
		return nil
	}

	notif := s.buildNotification(userID, typeCode, tmpl, event)

	// An error makes the bus redeliver
	if err := s.repo.Create(ctx, &notif); err != nil {
		s.logger.Error("NotificationService", fmt.Sprintf("Error saving notification for user %s", userID), map[string]interface{}{"error": err.Error()})
		return err
	}

	if s.delivery != nil {
		s.delivery.Send(userID, NotificationMessage, notif)
	}
	return nil
}

func (s *NotificationService) buildNotification(userID uuid.UUID, typeCode string, tmpl notificationTemplate, event events.Event) model.Notification {
	payload := event.Payload()

	msg := tmpl.Message
	for k, v := range payload {
		msg = strings.ReplaceAll(msg, "{"+k+"}", fmt.Sprintf("%v", v))
	}

	entityType, _ := payload["entity_type"].(string)
	entityID, _ := payload["entity_id"].(string)

	// Metadata carries the payload plus a deep link
	metaMap := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		metaMap[k] = v
	}
	if entityType != "" && entityID != "" {
		metaMap["action_url"] = fmt.Sprintf("/%ss/%s", entityType, entityID)
	}
	metaJSON, _ := json.Marshal(metaMap)

	return model.Notification{
		ID:         uuid.New(),
		UserID:     userID,
		TypeCode:   typeCode,
		EntityType: entityType,
		EntityID:   entityID,
		Title:      tmpl.Title,
		Message:    msg,
		Metadata:   datatypes.JSON(metaJSON),
		IsRead:     false,
		CreatedAt:  s.now(),
	}
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.FindByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// MarkAsRead only touches the user's own notifications.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, userID, notificationID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
