package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/owletdev/nocturna/internal/services"
	"github.com/valyala/fasthttp"
)

const badgeKeepAliveInterval = 30 * time.Second

func (handler *Handler) GetBadges(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	counts, err := handler.badgeCounts(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load badges")
	}
	return apiSuccess(c, counts)
}

// StreamBadges pushes badge counts over server-sent events. A snapshot goes
// out immediately, then one per change-feed nudge, plus a keep-alive comment
// so idle proxies do not drop the connection.
func (handler *Handler) StreamBadges(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	userID := user.ID

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		nudges, cancel := handler.feed.Subscribe(userID)
		defer cancel()

		if err := handler.writeBadgeEvent(w, userID); err != nil {
			return
		}

		keepAlive := time.NewTicker(badgeKeepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case <-nudges:
				if err := handler.writeBadgeEvent(w, userID); err != nil {
					return
				}
			case <-keepAlive.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func (handler *Handler) writeBadgeEvent(w *bufio.Writer, userID uint) error {
	counts, err := handler.badgeCounts(userID)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

func (handler *Handler) badgeCounts(userID uint) (services.BadgeCounts, error) {
	activeAlerts, err := handler.repositories.Emergencies.CountActiveForRecipient(userID)
	if err != nil {
		return services.BadgeCounts{}, err
	}
	unredeemedVouchers, err := handler.repositories.Vouchers.CountUnredeemedForRecipient(userID)
	if err != nil {
		return services.BadgeCounts{}, err
	}
	return services.BadgeCounts{
		ActiveAlerts:       activeAlerts,
		UnredeemedVouchers: unredeemedVouchers,
	}, nil
}
