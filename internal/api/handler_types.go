package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/owletdev/nocturna/internal/db"
	"github.com/owletdev/nocturna/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	db        *gorm.DB
	secretKey []byte
	location  *time.Location

	repositories *db.Repositories

	authService      *services.AuthService
	circleService    *services.CircleService
	periodService    *services.PeriodService
	calendarService  *services.CalendarService
	emergencyService *services.EmergencyService
	voucherService   *services.VoucherService
	eventService     *services.EventService

	feed     *services.ChangeFeed
	notifier *services.PushNotifier
}

type authClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

type registerInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createCircleInput struct {
	Name string `json:"name"`
}

type joinCircleInput struct {
	InviteCode string `json:"invite_code"`
}

type privacyInput struct {
	PrivacyLevel string `json:"privacy_level"`
}

type createPeriodInput struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type logSymptomsInput struct {
	Date   string `json:"date"`
	Cramps string `json:"cramps"`
	Mood   string `json:"mood"`
}

type calendarInput struct {
	Colors map[uint]string `json:"colors"`
}

type calendarTapInput struct {
	CircleID   uint                    `json:"circle_id"`
	Date       string                  `json:"date"`
	SharedView bool                    `json:"shared_view"`
	State      services.SelectionState `json:"state"`
	Colors     map[uint]string         `json:"colors"`
}

type createAlertInput struct {
	Type         string `json:"type"`
	Message      string `json:"message"`
	RecipientIDs []uint `json:"recipient_ids"`
}

type respondAlertInput struct {
	Message string `json:"message"`
}

type sendVoucherInput struct {
	Type         string `json:"type"`
	Message      string `json:"message"`
	RecipientIDs []uint `json:"recipient_ids"`
}

type createEventInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartsAt    string `json:"starts_at"`
}

type rsvpInput struct {
	Status string `json:"status"`
}
