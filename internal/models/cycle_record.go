package models

import "time"

const (
	CrampsNone     = "none"
	CrampsMild     = "mild"
	CrampsModerate = "moderate"
	CrampsSevere   = "severe"
)

const (
	MoodGreat     = "great"
	MoodOkay      = "okay"
	MoodLow       = "low"
	MoodIrritable = "irritable"
	MoodAnxious   = "anxious"
)

func ValidCramps(value string) bool {
	switch value {
	case CrampsNone, CrampsMild, CrampsModerate, CrampsSevere:
		return true
	default:
		return false
	}
}

func ValidMood(value string) bool {
	switch value {
	case MoodGreat, MoodOkay, MoodLow, MoodIrritable, MoodAnxious:
		return true
	default:
		return false
	}
}

// CycleRecord is one logged period. CycleLength is the day count between
// this record's start and the immediately preceding record's start; it is
// computed once at creation and never recalculated.
type CycleRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	StartDate   time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null" json:"end_date"`
	CycleLength *int      `json:"cycle_length"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

// SymptomEntry is the per-day symptom log attached to a CycleRecord.
type SymptomEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RecordID  uint      `gorm:"not null;uniqueIndex:uidx_record_day" json:"record_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uidx_record_day" json:"date"`
	Cramps    string    `gorm:"not null;default:none" json:"cramps"`
	Mood      string    `gorm:"not null;default:okay" json:"mood"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
