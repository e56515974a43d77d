package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/owletdev/nocturna/internal/models"
)

// notificationText is a push notification title/body pair.
type notificationText struct {
	Title string
	Body  string
}

// alertTexts maps alert types to recipient-facing notifications. Unknown
// types fall through to alertFallbackText.
var alertTexts = map[string]notificationText{
	models.AlertTypeTampon:     {Title: "Tampon emergency", Body: "%s needs a tampon, fast"},
	models.AlertTypePads:       {Title: "Pads emergency", Body: "%s needs pads, fast"},
	models.AlertTypePainkiller: {Title: "Painkiller needed", Body: "%s needs a painkiller"},
	models.AlertTypeHeatingPad: {Title: "Heating pad needed", Body: "%s could use a heating pad"},
	models.AlertTypeTheEar:     {Title: "Someone needs an ear", Body: "%s needs someone to listen"},
	models.AlertTypeThePMS:     {Title: "PMS backup requested", Body: "%s is having a rough PMS day"},
}

var alertFallbackText = notificationText{Title: "Circle emergency", Body: "%s needs help"}

// voucherTypeNames maps voucher types to display names for notifications.
var voucherTypeNames = map[string]string{
	models.VoucherTypeChocolate:  "chocolate",
	models.VoucherTypeTea:        "a cup of tea",
	models.VoucherTypeHug:        "a hug",
	models.VoucherTypeMovieNight: "a movie night",
	models.VoucherTypeMassage:    "a massage",
	models.VoucherTypeFlowers:    "flowers",
}

func alertNotification(alertType string) notificationText {
	if text, ok := alertTexts[alertType]; ok {
		return text
	}
	return alertFallbackText
}

func voucherTypeName(voucherType string) string {
	if name, ok := voucherTypeNames[voucherType]; ok {
		return name
	}
	return "a treat"
}

// PushNotifier delivers push notifications through a webhook the actual
// transport (APNs/FCM bridge) sits behind. Delivery is best effort: errors
// are logged and never surface to the triggering request.
type PushNotifier struct {
	webhookURL string
	enabled    bool
	client     *http.Client
}

func NewPushNotifier(webhookURL string) *PushNotifier {
	return &PushNotifier{
		webhookURL: webhookURL,
		enabled:    webhookURL != "",
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

type pushPayload struct {
	UserID uint   `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Kind   string `json:"kind"`
	Ref    string `json:"ref"`
}

func (notifier *PushNotifier) AlertCreated(ctx context.Context, alert models.EmergencyAlert) {
	text := alertNotification(alert.Type)
	body := fmt.Sprintf(text.Body, alert.SenderName)
	for _, recipientID := range alert.RecipientIDs {
		notifier.send(ctx, pushPayload{
			UserID: recipientID,
			Title:  text.Title,
			Body:   body,
			Kind:   "emergency_created",
			Ref:    alert.PublicID,
		})
	}
}

func (notifier *PushNotifier) AlertResponded(ctx context.Context, alert models.EmergencyAlert, response models.AlertResponse) {
	if response.Declined {
		return
	}
	notifier.send(ctx, pushPayload{
		UserID: alert.SenderID,
		Title:  "Help is coming",
		Body:   fmt.Sprintf("%s responded to your alert", response.ResponderName),
		Kind:   "emergency_response",
		Ref:    alert.PublicID,
	})
}

func (notifier *PushNotifier) VoucherSent(ctx context.Context, voucher models.Voucher) {
	notifier.send(ctx, pushPayload{
		UserID: voucher.RecipientID,
		Title:  "You got a care voucher",
		Body:   fmt.Sprintf("%s sent you %s", voucher.SenderName, voucherTypeName(voucher.Type)),
		Kind:   "voucher_sent",
		Ref:    voucher.PublicID,
	})
}

func (notifier *PushNotifier) VoucherRedeemed(ctx context.Context, voucher models.Voucher) {
	notifier.send(ctx, pushPayload{
		UserID: voucher.SenderID,
		Title:  "Voucher redeemed",
		Body:   fmt.Sprintf("%s redeemed your %s voucher", voucher.RecipientName, voucherTypeName(voucher.Type)),
		Kind:   "voucher_redeemed",
		Ref:    voucher.PublicID,
	})
}

func (notifier *PushNotifier) send(ctx context.Context, payload pushPayload) {
	if !notifier.enabled {
		return
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		log.Printf("notifier: encode payload: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, notifier.webhookURL, bytes.NewReader(encoded))
	if err != nil {
		log.Printf("notifier: build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := notifier.client.Do(req)
	if err != nil {
		log.Printf("notifier: push %s for user %d failed: %v", payload.Kind, payload.UserID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("notifier: push %s for user %d status %d: %s", payload.Kind, payload.UserID, resp.StatusCode, string(body))
	}
}
