package api

import (
	"time"

	"github.com/owletdev/nocturna/internal/db"
	"github.com/owletdev/nocturna/internal/services"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, secretKey string, location *time.Location, pushWebhookURL string) *Handler {
	if location == nil {
		location = time.UTC
	}

	handler := &Handler{
		db:        database,
		secretKey: []byte(secretKey),
		location:  location,
		feed:      services.NewChangeFeed(),
		notifier:  services.NewPushNotifier(pushWebhookURL),
	}

	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users)
	handler.circleService = services.NewCircleService(handler.repositories.Circles)
	handler.periodService = services.NewPeriodService(handler.repositories.Periods, location)
	handler.calendarService = services.NewCalendarService(
		handler.repositories.Periods,
		handler.repositories.Circles,
		handler.circleService,
		location,
	)
	handler.emergencyService = services.NewEmergencyService(
		handler.repositories.Emergencies,
		handler.circleService,
		handler.notifier,
		handler.feed,
		location,
	)
	handler.voucherService = services.NewVoucherService(
		handler.repositories.Vouchers,
		handler.repositories.Users,
		handler.circleService,
		handler.notifier,
		handler.feed,
	)
	handler.eventService = services.NewEventService(handler.repositories.Events, handler.circleService)

	return handler
}

// EmergencyService exposes the lifecycle service for the sweeper wiring in
// main.
func (handler *Handler) EmergencyService() *services.EmergencyService {
	return handler.emergencyService
}
