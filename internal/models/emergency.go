package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	AlertTypeTampon     = "tampon"
	AlertTypePads       = "pads"
	AlertTypePainkiller = "painkiller"
	AlertTypeHeatingPad = "heating_pad"
	AlertTypeTheEar     = "the_ear"
	AlertTypeThePMS     = "the_pms"
)

const (
	AlertStatusActive   = "active"
	AlertStatusResolved = "resolved"
	AlertStatusExpired  = "expired"
)

// AlertTTL is the auto-resolve deadline window after creation.
const AlertTTL = 24 * time.Hour

// SystemResolver is stamped as the resolver when the expiry sweep
// transitions an alert.
const SystemResolver = "system"

func ValidAlertType(value string) bool {
	switch value {
	case AlertTypeTampon, AlertTypePads, AlertTypePainkiller, AlertTypeHeatingPad, AlertTypeTheEar, AlertTypeThePMS:
		return true
	default:
		return false
	}
}

type AlertResponse struct {
	ResponderID   uint      `json:"responder_id"`
	ResponderName string    `json:"responder_name"`
	Message       string    `json:"message"`
	Declined      bool      `json:"declined"`
	CreatedAt     time.Time `json:"created_at"`
}

// EmergencyAlert is a help request. It is never deleted; terminal alerts
// remain as history.
type EmergencyAlert struct {
	ID           uint                                     `gorm:"primaryKey" json:"-"`
	PublicID     string                                   `gorm:"uniqueIndex;not null" json:"id"`
	CircleID     uint                                     `gorm:"not null;index" json:"circle_id"`
	SenderID     uint                                     `gorm:"not null;index" json:"sender_id"`
	SenderName   string                                   `gorm:"not null" json:"sender_name"`
	Type         string                                   `gorm:"not null" json:"type"`
	Message      string                                   `json:"message"`
	RecipientIDs datatypes.JSONSlice[uint]                `json:"recipient_ids"`
	Responses    datatypes.JSONSlice[AlertResponse]       `json:"responses"`
	Status       string                                   `gorm:"not null;default:active;index" json:"status"`
	CreatedAt    time.Time                                `gorm:"not null" json:"created_at"`
	ExpiresAt    time.Time                                `gorm:"not null" json:"expires_at"`
	ResolvedAt   *time.Time                               `json:"resolved_at"`
	ResolvedBy   string                                   `json:"resolved_by"`
}

func (alert EmergencyAlert) Terminal() bool {
	return alert.Status == AlertStatusResolved || alert.Status == AlertStatusExpired
}

func (alert EmergencyAlert) HasRecipient(userID uint) bool {
	for _, recipientID := range alert.RecipientIDs {
		if recipientID == userID {
			return true
		}
	}
	return false
}
