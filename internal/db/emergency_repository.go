package db

import (
	"time"

	"github.com/owletdev/nocturna/internal/models"
	"gorm.io/gorm"
)

type EmergencyRepository struct {
	database *gorm.DB
}

func NewEmergencyRepository(database *gorm.DB) *EmergencyRepository {
	return &EmergencyRepository{database: database}
}

func (repo *EmergencyRepository) Create(alert *models.EmergencyAlert) error {
	return repo.database.Create(alert).Error
}

func (repo *EmergencyRepository) Save(alert *models.EmergencyAlert) error {
	return repo.database.Save(alert).Error
}

func (repo *EmergencyRepository) FindByPublicID(publicID string) (models.EmergencyAlert, error) {
	var alert models.EmergencyAlert
	if err := repo.database.Where("public_id = ?", publicID).First(&alert).Error; err != nil {
		return models.EmergencyAlert{}, err
	}
	return alert, nil
}

func (repo *EmergencyRepository) ListBySender(senderID uint) ([]models.EmergencyAlert, error) {
	alerts := make([]models.EmergencyAlert, 0)
	if err := repo.database.
		Where("sender_id = ?", senderID).
		Order("created_at DESC, id DESC").
		Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// ListForRecipient filters on membership in the JSON recipients array.
func (repo *EmergencyRepository) ListForRecipient(userID uint) ([]models.EmergencyAlert, error) {
	alerts := make([]models.EmergencyAlert, 0)
	if err := repo.database.
		Where("EXISTS (SELECT 1 FROM json_each(emergency_alerts.recipient_ids) WHERE json_each.value = ?)", userID).
		Order("created_at DESC, id DESC").
		Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (repo *EmergencyRepository) CountActiveForRecipient(userID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.EmergencyAlert{}).
		Where("status = ?", models.AlertStatusActive).
		Where("EXISTS (SELECT 1 FROM json_each(emergency_alerts.recipient_ids) WHERE json_each.value = ?)", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExpireStale transitions every active alert past its deadline to expired
// and returns the transitioned alerts. Terminal alerts are never touched,
// so the sweep is safe to run concurrently with client reads.
func (repo *EmergencyRepository) ExpireStale(now time.Time) ([]models.EmergencyAlert, error) {
	expired := make([]models.EmergencyAlert, 0)
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("status = ? AND expires_at <= ?", models.AlertStatusActive, now).
			Find(&expired).Error; err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(expired))
		for _, alert := range expired {
			ids = append(ids, alert.ID)
		}

		return tx.Model(&models.EmergencyAlert{}).
			Where("id IN ? AND status = ?", ids, models.AlertStatusActive).
			Updates(map[string]any{
				"status":      models.AlertStatusExpired,
				"resolved_at": now,
				"resolved_by": models.SystemResolver,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	for index := range expired {
		expired[index].Status = models.AlertStatusExpired
		resolvedAt := now
		expired[index].ResolvedAt = &resolvedAt
		expired[index].ResolvedBy = models.SystemResolver
	}
	return expired, nil
}
