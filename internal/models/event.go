package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RSVPGoing    = "going"
	RSVPMaybe    = "maybe"
	RSVPDeclined = "declined"
)

func ValidRSVPStatus(value string) bool {
	switch value {
	case RSVPGoing, RSVPMaybe, RSVPDeclined:
		return true
	default:
		return false
	}
}

type EventRSVP struct {
	UserID      uint      `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Status      string    `json:"status"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CircleEvent is a planned get-together within a circle. RSVPs are
// last-writer-wins; concurrent conflicting updates are acceptable here.
type CircleEvent struct {
	ID          uint                            `gorm:"primaryKey" json:"-"`
	PublicID    string                          `gorm:"uniqueIndex;not null" json:"id"`
	CircleID    uint                            `gorm:"not null;index" json:"circle_id"`
	CreatorID   uint                            `gorm:"not null" json:"creator_id"`
	Title       string                          `gorm:"not null" json:"title"`
	Description string                          `json:"description"`
	Location    string                          `json:"location"`
	StartsAt    time.Time                       `gorm:"not null" json:"starts_at"`
	RSVPs       datatypes.JSONSlice[EventRSVP]  `gorm:"column:rsvps" json:"rsvps"`
	CreatedAt   time.Time                       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time                       `gorm:"not null" json:"updated_at"`
}
