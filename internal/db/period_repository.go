package db

import (
	"errors"
	"time"

	"github.com/owletdev/nocturna/internal/models"
	"gorm.io/gorm"
)

type PeriodRepository struct {
	database *gorm.DB
}

func NewPeriodRepository(database *gorm.DB) *PeriodRepository {
	return &PeriodRepository{database: database}
}

func (repo *PeriodRepository) Create(record *models.CycleRecord) error {
	return repo.database.Create(record).Error
}

func (repo *PeriodRepository) FindByIDForUser(recordID uint, userID uint) (models.CycleRecord, error) {
	var record models.CycleRecord
	if err := repo.database.
		Where("id = ? AND user_id = ?", recordID, userID).
		First(&record).Error; err != nil {
		return models.CycleRecord{}, err
	}
	return record, nil
}

// ListByUserDesc returns the user's records ordered most recent first,
// the ordering the predictor contract expects.
func (repo *PeriodRepository) ListByUserDesc(userID uint, limit int) ([]models.CycleRecord, error) {
	records := make([]models.CycleRecord, 0)
	query := repo.database.
		Where("user_id = ?", userID).
		Order("start_date DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindPrecedingStart returns the record whose start date most closely
// precedes the given start, used to compute cycle length at creation time.
func (repo *PeriodRepository) FindPrecedingStart(userID uint, start time.Time) (models.CycleRecord, bool, error) {
	var record models.CycleRecord
	err := repo.database.
		Where("user_id = ? AND start_date < ?", userID, start).
		Order("start_date DESC, id DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CycleRecord{}, false, nil
	}
	if err != nil {
		return models.CycleRecord{}, false, err
	}
	return record, true, nil
}

func (repo *PeriodRepository) ListByUsersRange(userIDs []uint, fromStart time.Time, toEnd time.Time) ([]models.CycleRecord, error) {
	records := make([]models.CycleRecord, 0)
	if len(userIDs) == 0 {
		return records, nil
	}
	err := repo.database.
		Where("user_id IN ?", userIDs).
		Where("end_date >= ? AND start_date <= ?", fromStart, toEnd).
		Order("start_date ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *PeriodRepository) DeleteWithSymptoms(recordID uint, userID uint) (bool, error) {
	deleted := false
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		result := tx.
			Where("id = ? AND user_id = ?", recordID, userID).
			Delete(&models.CycleRecord{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.
			Where("record_id = ?", recordID).
			Delete(&models.SymptomEntry{}).Error
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (repo *PeriodRepository) UpsertSymptomEntry(entry *models.SymptomEntry) error {
	var existing models.SymptomEntry
	err := repo.database.
		Where("record_id = ? AND date = ?", entry.RecordID, entry.Date).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.database.Create(entry).Error
	}
	if err != nil {
		return err
	}

	existing.Cramps = entry.Cramps
	existing.Mood = entry.Mood
	if err := repo.database.Save(&existing).Error; err != nil {
		return err
	}
	*entry = existing
	return nil
}

func (repo *PeriodRepository) ListSymptomEntries(recordID uint, userID uint) ([]models.SymptomEntry, error) {
	entries := make([]models.SymptomEntry, 0)
	if err := repo.database.
		Where("record_id = ? AND user_id = ?", recordID, userID).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
