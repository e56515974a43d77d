package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Get("/me", handler.AuthRequired, handler.Me)

	circles := api.Group("/circles", handler.AuthRequired)
	circles.Post("", handler.CreateCircle)
	circles.Get("", handler.ListCircles)
	circles.Post("/join", handler.JoinCircle)
	circles.Get("/:id/members", handler.ListCircleMembers)
	circles.Delete("/:id/membership", handler.LeaveCircle)
	circles.Put("/:id/privacy", handler.SetCirclePrivacy)
	circles.Get("/:id/calendar", handler.GetCircleCalendar)
	circles.Post("/:id/alerts", handler.CreateAlert)
	circles.Post("/:id/vouchers", handler.SendVoucher)
	circles.Post("/:id/events", handler.CreateEvent)
	circles.Get("/:id/events", handler.ListEvents)

	periods := api.Group("/periods", handler.AuthRequired)
	periods.Post("", handler.CreatePeriod)
	periods.Get("", handler.ListPeriods)
	periods.Delete("/:id", handler.DeletePeriod)
	periods.Post("/:id/symptoms", handler.LogSymptoms)
	periods.Get("/:id/symptoms", handler.ListSymptoms)

	api.Get("/prediction", handler.AuthRequired, handler.GetPrediction)
	api.Post("/calendar/tap", handler.AuthRequired, handler.CalendarTap)

	alerts := api.Group("/alerts", handler.AuthRequired)
	alerts.Get("", handler.ListAlerts)
	alerts.Post("/:publicID/responses", handler.RespondToAlert)
	alerts.Post("/:publicID/resolve", handler.ResolveAlert)

	vouchers := api.Group("/vouchers", handler.AuthRequired)
	vouchers.Get("", handler.ListVouchers)
	vouchers.Post("/:publicID/redeem", handler.RedeemVoucher)

	events := api.Group("/events", handler.AuthRequired)
	events.Post("/:publicID/rsvp", handler.RSVPEvent)

	badges := api.Group("/badges", handler.AuthRequired)
	badges.Get("", handler.GetBadges)
	badges.Get("/stream", handler.StreamBadges)
}
