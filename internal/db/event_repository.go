package db

import (
	"github.com/owletdev/nocturna/internal/models"
	"gorm.io/gorm"
)

type EventRepository struct {
	database *gorm.DB
}

func NewEventRepository(database *gorm.DB) *EventRepository {
	return &EventRepository{database: database}
}

func (repo *EventRepository) Create(event *models.CircleEvent) error {
	return repo.database.Create(event).Error
}

func (repo *EventRepository) Save(event *models.CircleEvent) error {
	return repo.database.Save(event).Error
}

func (repo *EventRepository) FindByPublicID(publicID string) (models.CircleEvent, error) {
	var event models.CircleEvent
	if err := repo.database.Where("public_id = ?", publicID).First(&event).Error; err != nil {
		return models.CircleEvent{}, err
	}
	return event, nil
}

func (repo *EventRepository) ListByCircle(circleID uint) ([]models.CircleEvent, error) {
	events := make([]models.CircleEvent, 0)
	if err := repo.database.
		Where("circle_id = ?", circleID).
		Order("starts_at ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
