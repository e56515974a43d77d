package models

import "time"

const (
	PrivacyShowAll        = "show_all"
	PrivacyBoundariesOnly = "boundaries_only"
	PrivacyHidden         = "hidden"
)

const (
	MaxCircleMembers = 5
	InviteCodeLength = 8
)

func ValidPrivacyLevel(level string) bool {
	switch level {
	case PrivacyShowAll, PrivacyBoundariesOnly, PrivacyHidden:
		return true
	default:
		return false
	}
}

type Circle struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	InviteCode string    `gorm:"uniqueIndex;not null" json:"invite_code"`
	CreatorID  uint      `gorm:"not null;index" json:"creator_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

type CircleMember struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CircleID     uint      `gorm:"not null;uniqueIndex:uidx_circle_user" json:"circle_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:uidx_circle_user" json:"user_id"`
	PrivacyLevel string    `gorm:"not null;default:show_all" json:"privacy_level"`
	JoinedAt     time.Time `gorm:"not null" json:"joined_at"`
}

// MemberProfile is a CircleMember joined with the member's display name,
// the shape circle listings and calendar aggregation work with.
type MemberProfile struct {
	UserID       uint      `json:"user_id"`
	DisplayName  string    `json:"display_name"`
	PrivacyLevel string    `json:"privacy_level"`
	JoinedAt     time.Time `json:"joined_at"`
}
