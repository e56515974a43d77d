package api

import (
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/owletdev/nocturna/internal/models"
)

func sendTestVouchers(t *testing.T, app *fiber.App, sender testUser, circleID uint, voucherType string, recipientIDs []uint) []models.Voucher {
	t.Helper()

	response := performJSON(t, app, http.MethodPost, circlePath(circleID, "vouchers"), sender.Token, fiber.Map{
		"type":          voucherType,
		"message":       "you deserve this",
		"recipient_ids": recipientIDs,
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("send vouchers: status %d, error %q", response.StatusCode, readAPIError(t, response.Body))
	}
	var vouchers []models.Voucher
	decodeData(t, response.Body, &vouchers)
	return vouchers
}

func TestSendVoucherCreatesOneDocumentPerRecipient(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	sender := registerTestUser(t, app, "ana@example.com", "Ana")
	recipientB := registerTestUser(t, app, "bea@example.com", "Bea")
	recipientC := registerTestUser(t, app, "cat@example.com", "Cat")

	circleID, inviteCode := createTestCircle(t, app, sender, "Coven A")
	joinTestCircle(t, app, recipientB, inviteCode)
	joinTestCircle(t, app, recipientC, inviteCode)

	vouchers := sendTestVouchers(t, app, sender, circleID, models.VoucherTypeChocolate, []uint{recipientB.ID, recipientC.ID})
	if len(vouchers) != 2 {
		t.Fatalf("vouchers = %d, want one per recipient", len(vouchers))
	}
	if vouchers[0].Code == vouchers[1].Code {
		t.Fatalf("both vouchers share code %q", vouchers[0].Code)
	}
	for _, voucher := range vouchers {
		if !strings.HasPrefix(voucher.Code, models.VoucherCodePrefix) {
			t.Fatalf("voucher code %q missing %q prefix", voucher.Code, models.VoucherCodePrefix)
		}
		if voucher.Status != models.VoucherStatusUnredeemed {
			t.Fatalf("voucher status = %q, want unredeemed", voucher.Status)
		}
		if voucher.PublicID == "" {
			t.Fatal("voucher missing public id")
		}
	}
}

func TestSendVoucherValidatesRecipients(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	sender := registerTestUser(t, app, "ana@example.com", "Ana")
	outsider := registerTestUser(t, app, "zoe@example.com", "Zoe")
	circleID, _ := createTestCircle(t, app, sender, "Coven A")

	tests := []struct {
		name         string
		voucherType  string
		recipientIDs []uint
	}{
		{name: "unknown type", voucherType: "sports_car", recipientIDs: []uint{outsider.ID}},
		{name: "no recipients", voucherType: models.VoucherTypeTea, recipientIDs: nil},
		{name: "sender as recipient", voucherType: models.VoucherTypeTea, recipientIDs: []uint{sender.ID}},
		{name: "non-member recipient", voucherType: models.VoucherTypeTea, recipientIDs: []uint{outsider.ID}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			response := performJSON(t, app, http.MethodPost, circlePath(circleID, "vouchers"), sender.Token, fiber.Map{
				"type":          testCase.voucherType,
				"recipient_ids": testCase.recipientIDs,
			})
			if response.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", response.StatusCode)
			}
		})
	}
}

func TestRedeemVoucherGuards(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	sender := registerTestUser(t, app, "ana@example.com", "Ana")
	recipient := registerTestUser(t, app, "bea@example.com", "Bea")
	bystander := registerTestUser(t, app, "cat@example.com", "Cat")

	circleID, inviteCode := createTestCircle(t, app, sender, "Coven A")
	joinTestCircle(t, app, recipient, inviteCode)
	joinTestCircle(t, app, bystander, inviteCode)

	vouchers := sendTestVouchers(t, app, sender, circleID, models.VoucherTypeHug, []uint{recipient.ID})
	redeemPath := "/api/vouchers/" + vouchers[0].PublicID + "/redeem"

	response := performJSON(t, app, http.MethodPost, redeemPath, bystander.Token, nil)
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("non-recipient redeem status = %d, want 403", response.StatusCode)
	}

	response = performJSON(t, app, http.MethodPost, redeemPath, recipient.Token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("redeem status = %d, error %q", response.StatusCode, readAPIError(t, response.Body))
	}
	var redeemed models.Voucher
	decodeData(t, response.Body, &redeemed)
	if redeemed.Status != models.VoucherStatusRedeemed || redeemed.RedeemedAt == nil {
		t.Fatalf("redeemed voucher = %+v, want redeemed status with timestamp", redeemed)
	}

	response = performJSON(t, app, http.MethodPost, redeemPath, recipient.Token, nil)
	if response.StatusCode != http.StatusConflict {
		t.Fatalf("second redeem status = %d, want 409", response.StatusCode)
	}

	// Once redeemed, the redeemed state wins over the recipient check.
	response = performJSON(t, app, http.MethodPost, redeemPath, bystander.Token, nil)
	if response.StatusCode != http.StatusConflict {
		t.Fatalf("non-recipient redeem of redeemed voucher status = %d, want 409", response.StatusCode)
	}

	response = performJSON(t, app, http.MethodPost, "/api/vouchers/no-such-voucher/redeem", recipient.Token, nil)
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown voucher status = %d, want 404", response.StatusCode)
	}
}

func TestRedeemVoucherExactlyOnceUnderConcurrency(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	sender := registerTestUser(t, app, "ana@example.com", "Ana")
	recipient := registerTestUser(t, app, "bea@example.com", "Bea")

	circleID, inviteCode := createTestCircle(t, app, sender, "Coven A")
	joinTestCircle(t, app, recipient, inviteCode)

	vouchers := sendTestVouchers(t, app, sender, circleID, models.VoucherTypeMovieNight, []uint{recipient.ID})
	redeemPath := "/api/vouchers/" + vouchers[0].PublicID + "/redeem"

	const attempts = 8
	statuses := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			response := performJSON(t, app, http.MethodPost, redeemPath, recipient.Token, nil)
			statuses[slot] = response.StatusCode
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, status := range statuses {
		switch status {
		case http.StatusOK:
			winners++
		case http.StatusConflict:
		default:
			t.Fatalf("unexpected redeem status %d", status)
		}
	}
	if winners != 1 {
		t.Fatalf("redeem winners = %d, want exactly one", winners)
	}
}

func TestListVouchersMergesSentAndReceived(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	sender := registerTestUser(t, app, "ana@example.com", "Ana")
	recipient := registerTestUser(t, app, "bea@example.com", "Bea")

	circleID, inviteCode := createTestCircle(t, app, sender, "Coven A")
	joinTestCircle(t, app, recipient, inviteCode)

	sendTestVouchers(t, app, sender, circleID, models.VoucherTypeFlowers, []uint{recipient.ID})
	sendTestVouchers(t, app, recipient, circleID, models.VoucherTypeTea, []uint{sender.ID})

	response := performJSON(t, app, http.MethodGet, "/api/vouchers", sender.Token, nil)
	var vouchers []models.Voucher
	decodeData(t, response.Body, &vouchers)
	if len(vouchers) != 2 {
		t.Fatalf("vouchers = %d, want sent and received", len(vouchers))
	}
}
