package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/owletdev/nocturna/internal/models"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(event *models.CircleEvent) error
	Save(event *models.CircleEvent) error
	FindByPublicID(publicID string) (models.CircleEvent, error)
	ListByCircle(circleID uint) ([]models.CircleEvent, error)
}

type EventService struct {
	events  EventRepository
	circles MembershipGuard
}

func NewEventService(events EventRepository, circles MembershipGuard) *EventService {
	return &EventService{events: events, circles: circles}
}

func (service *EventService) Create(creator models.User, circleID uint, title string, description string, eventLocation string, startsAt time.Time, now time.Time) (models.CircleEvent, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.CircleEvent{}, newValidationError("event title is required")
	}
	if _, err := service.circles.RequireMember(circleID, creator.ID); err != nil {
		return models.CircleEvent{}, err
	}

	event := models.CircleEvent{
		PublicID:    uuid.NewString(),
		CircleID:    circleID,
		CreatorID:   creator.ID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Location:    strings.TrimSpace(eventLocation),
		StartsAt:    startsAt,
		RSVPs:       []models.EventRSVP{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := service.events.Create(&event); err != nil {
		return models.CircleEvent{}, err
	}
	return event, nil
}

func (service *EventService) ListForMember(user models.User, circleID uint) ([]models.CircleEvent, error) {
	if _, err := service.circles.RequireMember(circleID, user.ID); err != nil {
		return nil, err
	}
	return service.events.ListByCircle(circleID)
}

// RSVP upserts the member's attendance entry. This is a plain last-writer-
// wins update; concurrent conflicting RSVPs are acceptable data loss.
func (service *EventService) RSVP(user models.User, publicID string, status string, now time.Time) (models.CircleEvent, error) {
	if !models.ValidRSVPStatus(status) {
		return models.CircleEvent{}, newValidationError("invalid rsvp status")
	}

	event, err := service.events.FindByPublicID(publicID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CircleEvent{}, ErrNotFound
	}
	if err != nil {
		return models.CircleEvent{}, err
	}
	if _, err := service.circles.RequireMember(event.CircleID, user.ID); err != nil {
		return models.CircleEvent{}, err
	}

	entry := models.EventRSVP{
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		Status:      status,
		UpdatedAt:   now,
	}

	replaced := false
	for index := range event.RSVPs {
		if event.RSVPs[index].UserID == user.ID {
			event.RSVPs[index] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		event.RSVPs = append(event.RSVPs, entry)
	}
	event.UpdatedAt = now

	if err := service.events.Save(&event); err != nil {
		return models.CircleEvent{}, err
	}
	return event, nil
}
