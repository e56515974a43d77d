package services

import (
	"errors"
	"time"

	"github.com/owletdev/nocturna/internal/models"
	"gorm.io/gorm"
)

type PeriodRepository interface {
	Create(record *models.CycleRecord) error
	FindByIDForUser(recordID uint, userID uint) (models.CycleRecord, error)
	ListByUserDesc(userID uint, limit int) ([]models.CycleRecord, error)
	FindPrecedingStart(userID uint, start time.Time) (models.CycleRecord, bool, error)
	DeleteWithSymptoms(recordID uint, userID uint) (bool, error)
	UpsertSymptomEntry(entry *models.SymptomEntry) error
	ListSymptomEntries(recordID uint, userID uint) ([]models.SymptomEntry, error)
}

type PeriodService struct {
	periods  PeriodRepository
	location *time.Location
}

func NewPeriodService(periods PeriodRepository, location *time.Location) *PeriodService {
	if location == nil {
		location = time.UTC
	}
	return &PeriodService{periods: periods, location: location}
}

// CreateRecord logs a period for the date range [start, end]. The cycle
// length relative to the immediately preceding record is computed here,
// stored once, and never recalculated.
func (service *PeriodService) CreateRecord(user models.User, start time.Time, end time.Time, now time.Time) (models.CycleRecord, error) {
	startDay := DateAtLocation(start, service.location)
	endDay := DateAtLocation(end, service.location)
	today := DateAtLocation(now, service.location)

	if endDay.Before(startDay) {
		return models.CycleRecord{}, newValidationError("end date must not be before start date")
	}
	if startDay.After(today) {
		return models.CycleRecord{}, newValidationError(FutureStartMessage)
	}

	preceding, hasPreceding, err := service.periods.FindPrecedingStart(user.ID, startDay)
	if err != nil {
		return models.CycleRecord{}, err
	}

	record := models.CycleRecord{
		UserID:    user.ID,
		StartDate: startDay,
		EndDate:   endDay,
		CreatedAt: now,
	}
	if hasPreceding {
		record.CycleLength = ComputeCycleLength(startDay, &preceding, service.location)
	}

	if err := service.periods.Create(&record); err != nil {
		return models.CycleRecord{}, err
	}
	return record, nil
}

func (service *PeriodService) DeleteRecord(user models.User, recordID uint) error {
	deleted, err := service.periods.DeleteWithSymptoms(recordID, user.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (service *PeriodService) ListRecords(user models.User) ([]models.CycleRecord, error) {
	return service.periods.ListByUserDesc(user.ID, 0)
}

// PredictionHistory returns the most recent records, newest first, capped
// to what the predictor consumes.
func (service *PeriodService) PredictionHistory(user models.User) ([]models.CycleRecord, error) {
	return service.periods.ListByUserDesc(user.ID, maxPredictionHistory)
}

func (service *PeriodService) Predict(user models.User) (Prediction, error) {
	history, err := service.PredictionHistory(user)
	if err != nil {
		return Prediction{}, err
	}
	return PredictNextPeriod(history, service.location)
}

// LogSymptoms attaches a per-day cramps/mood entry to one of the user's
// records. The day must fall inside the record's range.
func (service *PeriodService) LogSymptoms(user models.User, recordID uint, day time.Time, cramps string, mood string, now time.Time) (models.SymptomEntry, error) {
	if !models.ValidCramps(cramps) {
		return models.SymptomEntry{}, newValidationError("invalid cramps severity")
	}
	if !models.ValidMood(mood) {
		return models.SymptomEntry{}, newValidationError("invalid mood")
	}

	record, err := service.periods.FindByIDForUser(recordID, user.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.SymptomEntry{}, ErrNotFound
	}
	if err != nil {
		return models.SymptomEntry{}, err
	}

	entryDay := DateAtLocation(day, service.location)
	startDay := DateAtLocation(record.StartDate, service.location)
	endDay := DateAtLocation(record.EndDate, service.location)
	if entryDay.Before(startDay) || entryDay.After(endDay) {
		return models.SymptomEntry{}, newValidationError("day is outside the record range")
	}

	entry := models.SymptomEntry{
		RecordID:  record.ID,
		UserID:    user.ID,
		Date:      entryDay,
		Cramps:    cramps,
		Mood:      mood,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := service.periods.UpsertSymptomEntry(&entry); err != nil {
		return models.SymptomEntry{}, err
	}
	return entry, nil
}

func (service *PeriodService) ListSymptoms(user models.User, recordID uint) ([]models.SymptomEntry, error) {
	return service.periods.ListSymptomEntries(recordID, user.ID)
}
