package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/owletdev/nocturna/internal/models"
	"gorm.io/gorm"
)

// DeclinePhrase is the designated "can't help" response. Matching is
// case- and whitespace-insensitive.
const DeclinePhrase = "can't help"

// IsDeclineResponse reports whether a response message is the designated
// decline phrase.
func IsDeclineResponse(message string) bool {
	return strings.EqualFold(strings.Join(strings.Fields(message), " "), DeclinePhrase)
}

type EmergencyRepository interface {
	Create(alert *models.EmergencyAlert) error
	Save(alert *models.EmergencyAlert) error
	FindByPublicID(publicID string) (models.EmergencyAlert, error)
	ListBySender(senderID uint) ([]models.EmergencyAlert, error)
	ListForRecipient(userID uint) ([]models.EmergencyAlert, error)
	ExpireStale(now time.Time) ([]models.EmergencyAlert, error)
}

type AlertNotifier interface {
	AlertCreated(ctx context.Context, alert models.EmergencyAlert)
	AlertResponded(ctx context.Context, alert models.EmergencyAlert, response models.AlertResponse)
}

type MembershipGuard interface {
	RequireMember(circleID uint, userID uint) (models.CircleMember, error)
}

type EmergencyService struct {
	alerts   EmergencyRepository
	circles  MembershipGuard
	notifier AlertNotifier
	feed     ChangePublisher
	location *time.Location
}

func NewEmergencyService(alerts EmergencyRepository, circles MembershipGuard, notifier AlertNotifier, feed ChangePublisher, location *time.Location) *EmergencyService {
	if location == nil {
		location = time.UTC
	}
	return &EmergencyService{
		alerts:   alerts,
		circles:  circles,
		notifier: notifier,
		feed:     feed,
		location: location,
	}
}

// CreateAlert opens an active alert. Recipients are fixed at creation and
// must be circle members other than the sender.
func (service *EmergencyService) CreateAlert(ctx context.Context, sender models.User, circleID uint, alertType string, message string, recipientIDs []uint, now time.Time) (models.EmergencyAlert, error) {
	if !models.ValidAlertType(alertType) {
		return models.EmergencyAlert{}, newValidationError("invalid alert type")
	}
	if len(recipientIDs) == 0 {
		return models.EmergencyAlert{}, newValidationError("at least one recipient is required")
	}
	if _, err := service.circles.RequireMember(circleID, sender.ID); err != nil {
		return models.EmergencyAlert{}, err
	}

	seen := make(map[uint]struct{}, len(recipientIDs))
	for _, recipientID := range recipientIDs {
		if recipientID == sender.ID {
			return models.EmergencyAlert{}, newValidationError("sender cannot be a recipient")
		}
		if _, duplicate := seen[recipientID]; duplicate {
			return models.EmergencyAlert{}, newValidationError("duplicate recipient")
		}
		seen[recipientID] = struct{}{}
		if _, err := service.circles.RequireMember(circleID, recipientID); err != nil {
			if errors.Is(err, ErrNotCircleMember) {
				return models.EmergencyAlert{}, newValidationError("recipient is not a circle member")
			}
			return models.EmergencyAlert{}, err
		}
	}

	alert := models.EmergencyAlert{
		PublicID:     uuid.NewString(),
		CircleID:     circleID,
		SenderID:     sender.ID,
		SenderName:   sender.DisplayName,
		Type:         alertType,
		Message:      strings.TrimSpace(message),
		RecipientIDs: recipientIDs,
		Responses:    []models.AlertResponse{},
		Status:       models.AlertStatusActive,
		CreatedAt:    now,
		ExpiresAt:    now.Add(models.AlertTTL),
	}
	if err := service.alerts.Create(&alert); err != nil {
		return models.EmergencyAlert{}, err
	}

	service.notifier.AlertCreated(ctx, alert)
	service.feed.Publish(recipientIDs...)
	return alert, nil
}

// Respond appends to the alert's response list. Responding never changes
// the alert status: resolution is an explicit sender action, and any
// close-on-positive-response behavior lives in the client presentation
// layer only.
func (service *EmergencyService) Respond(ctx context.Context, responder models.User, publicID string, message string, now time.Time) (models.EmergencyAlert, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.EmergencyAlert{}, newValidationError("response message is required")
	}

	alert, err := service.alerts.FindByPublicID(publicID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.EmergencyAlert{}, ErrNotFound
	}
	if err != nil {
		return models.EmergencyAlert{}, err
	}

	if !alert.HasRecipient(responder.ID) {
		return models.EmergencyAlert{}, ErrNotRecipient
	}
	if alert.Terminal() {
		return models.EmergencyAlert{}, ErrAlertClosed
	}

	response := models.AlertResponse{
		ResponderID:   responder.ID,
		ResponderName: responder.DisplayName,
		Message:       message,
		Declined:      IsDeclineResponse(message),
		CreatedAt:     now,
	}
	alert.Responses = append(alert.Responses, response)
	if err := service.alerts.Save(&alert); err != nil {
		return models.EmergencyAlert{}, err
	}

	service.notifier.AlertResponded(ctx, alert, response)
	service.feed.Publish(alert.SenderID)
	return alert, nil
}

// Resolve transitions active -> resolved. Only the sender may resolve;
// resolving an already-resolved alert is a no-op success.
func (service *EmergencyService) Resolve(actor models.User, publicID string, now time.Time) (models.EmergencyAlert, error) {
	alert, err := service.alerts.FindByPublicID(publicID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.EmergencyAlert{}, ErrNotFound
	}
	if err != nil {
		return models.EmergencyAlert{}, err
	}

	if alert.SenderID != actor.ID {
		return models.EmergencyAlert{}, ErrNotSender
	}
	if alert.Status == models.AlertStatusResolved {
		return alert, nil
	}
	if alert.Status == models.AlertStatusExpired {
		return models.EmergencyAlert{}, ErrAlertClosed
	}

	alert.Status = models.AlertStatusResolved
	resolvedAt := now
	alert.ResolvedAt = &resolvedAt
	alert.ResolvedBy = actor.DisplayName
	if err := service.alerts.Save(&alert); err != nil {
		return models.EmergencyAlert{}, err
	}

	service.feed.Publish(alert.RecipientIDs...)
	return alert, nil
}

// ExpireStale is the sweep entry point: every active alert past its 24h
// deadline transitions to expired with the system resolver stamp.
func (service *EmergencyService) ExpireStale(now time.Time) (int, error) {
	expired, err := service.alerts.ExpireStale(now)
	if err != nil {
		return 0, err
	}

	affected := make([]uint, 0, len(expired)*2)
	for _, alert := range expired {
		affected = append(affected, alert.SenderID)
		affected = append(affected, alert.RecipientIDs...)
	}
	if len(affected) > 0 {
		service.feed.Publish(affected...)
	}
	return len(expired), nil
}

// ListForUser merges sent and received alerts, newest first.
func (service *EmergencyService) ListForUser(user models.User) ([]models.EmergencyAlert, error) {
	sent, err := service.alerts.ListBySender(user.ID)
	if err != nil {
		return nil, err
	}
	received, err := service.alerts.ListForRecipient(user.ID)
	if err != nil {
		return nil, err
	}

	merged := make([]models.EmergencyAlert, 0, len(sent)+len(received))
	merged = append(merged, sent...)
	merged = append(merged, received...)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged, nil
}
