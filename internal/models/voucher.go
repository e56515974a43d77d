package models

import "time"

const (
	VoucherTypeChocolate  = "chocolate"
	VoucherTypeTea        = "tea"
	VoucherTypeHug        = "hug"
	VoucherTypeMovieNight = "movie_night"
	VoucherTypeMassage    = "massage"
	VoucherTypeFlowers    = "flowers"
)

const (
	VoucherStatusUnredeemed = "unredeemed"
	VoucherStatusRedeemed   = "redeemed"
)

const VoucherCodePrefix = "BAT-"

func ValidVoucherType(value string) bool {
	switch value {
	case VoucherTypeChocolate, VoucherTypeTea, VoucherTypeHug, VoucherTypeMovieNight, VoucherTypeMassage, VoucherTypeFlowers:
		return true
	default:
		return false
	}
}

// Voucher is a care token. One document per recipient per send; redeemed
// exactly once, only by the designated recipient; never deleted.
type Voucher struct {
	ID            uint       `gorm:"primaryKey" json:"-"`
	PublicID      string     `gorm:"uniqueIndex;not null" json:"id"`
	Code          string     `gorm:"uniqueIndex;not null" json:"code"`
	Type          string     `gorm:"not null" json:"type"`
	CircleID      uint       `gorm:"not null;index" json:"circle_id"`
	SenderID      uint       `gorm:"not null;index" json:"sender_id"`
	SenderName    string     `gorm:"not null" json:"sender_name"`
	RecipientID   uint       `gorm:"not null;index" json:"recipient_id"`
	RecipientName string     `gorm:"not null" json:"recipient_name"`
	Message       string     `json:"message"`
	Status        string     `gorm:"not null;default:unredeemed;index" json:"status"`
	SentAt        time.Time  `gorm:"not null" json:"sent_at"`
	RedeemedAt    *time.Time `json:"redeemed_at"`
	RedeemerID    *uint      `json:"redeemer_id"`
}
