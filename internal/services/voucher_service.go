package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/owletdev/nocturna/internal/db"
	"github.com/owletdev/nocturna/internal/models"
	"github.com/owletdev/nocturna/internal/security"
)

const voucherCodeLength = 4

// maxVoucherCodeAttempts bounds the uniqueness retry loop. When it
// exhausts, a timestamp-derived suffix is used instead: a negligible
// collision risk is preferable to an unbounded loop.
const maxVoucherCodeAttempts = 5

type VoucherRepository interface {
	Create(voucher *models.Voucher) error
	FindByPublicID(publicID string) (models.Voucher, error)
	CodeExists(code string) (bool, error)
	ListBySender(senderID uint) ([]models.Voucher, error)
	ListByRecipient(recipientID uint) ([]models.Voucher, error)
	Redeem(publicID string, redeemerID uint, now time.Time) (models.Voucher, db.RedeemStatus, error)
}

type VoucherNotifier interface {
	VoucherSent(ctx context.Context, voucher models.Voucher)
	VoucherRedeemed(ctx context.Context, voucher models.Voucher)
}

type VoucherRecipientReader interface {
	FindByID(userID uint) (models.User, error)
}

type VoucherService struct {
	vouchers VoucherRepository
	users    VoucherRecipientReader
	circles  MembershipGuard
	notifier VoucherNotifier
	feed     ChangePublisher
}

func NewVoucherService(vouchers VoucherRepository, users VoucherRecipientReader, circles MembershipGuard, notifier VoucherNotifier, feed ChangePublisher) *VoucherService {
	return &VoucherService{
		vouchers: vouchers,
		users:    users,
		circles:  circles,
		notifier: notifier,
		feed:     feed,
	}
}

// GenerateVoucherCode produces a BAT-XXXX code from the unambiguous
// alphabet, retrying on collision up to maxVoucherCodeAttempts before
// falling back to a timestamp-derived suffix.
func GenerateVoucherCode(codeExists func(code string) (bool, error), now time.Time) (string, error) {
	for attempt := 0; attempt < maxVoucherCodeAttempts; attempt++ {
		suffix, err := security.RandomString(voucherCodeLength, security.UnambiguousAlphabet)
		if err != nil {
			return "", err
		}
		code := models.VoucherCodePrefix + suffix
		exists, err := codeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	stamp := strings.ToUpper(strconv.FormatInt(now.UnixNano(), 36))
	if len(stamp) > voucherCodeLength {
		stamp = stamp[len(stamp)-voucherCodeLength:]
	}
	return models.VoucherCodePrefix + stamp, nil
}

// Send creates one voucher document per recipient, each with its own code,
// and notifies every recipient.
func (service *VoucherService) Send(ctx context.Context, sender models.User, circleID uint, voucherType string, message string, recipientIDs []uint, now time.Time) ([]models.Voucher, error) {
	if !models.ValidVoucherType(voucherType) {
		return nil, newValidationError("invalid voucher type")
	}
	if len(recipientIDs) == 0 {
		return nil, newValidationError("at least one recipient is required")
	}
	if _, err := service.circles.RequireMember(circleID, sender.ID); err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(recipientIDs))
	recipients := make([]models.User, 0, len(recipientIDs))
	for _, recipientID := range recipientIDs {
		if recipientID == sender.ID {
			return nil, newValidationError("sender cannot be a recipient")
		}
		if _, duplicate := seen[recipientID]; duplicate {
			return nil, newValidationError("duplicate recipient")
		}
		seen[recipientID] = struct{}{}

		if _, err := service.circles.RequireMember(circleID, recipientID); err != nil {
			if err == ErrNotCircleMember {
				return nil, newValidationError("recipient is not a circle member")
			}
			return nil, err
		}
		recipient, err := service.users.FindByID(recipientID)
		if err != nil {
			return nil, fmt.Errorf("load recipient %d: %w", recipientID, err)
		}
		recipients = append(recipients, recipient)
	}

	vouchers := make([]models.Voucher, 0, len(recipients))
	for _, recipient := range recipients {
		code, err := GenerateVoucherCode(service.vouchers.CodeExists, now)
		if err != nil {
			return nil, err
		}

		voucher := models.Voucher{
			PublicID:      uuid.NewString(),
			Code:          code,
			Type:          voucherType,
			CircleID:      circleID,
			SenderID:      sender.ID,
			SenderName:    sender.DisplayName,
			RecipientID:   recipient.ID,
			RecipientName: recipient.DisplayName,
			Message:       strings.TrimSpace(message),
			Status:        models.VoucherStatusUnredeemed,
			SentAt:        now,
		}
		if err := service.vouchers.Create(&voucher); err != nil {
			return nil, err
		}

		service.notifier.VoucherSent(ctx, voucher)
		vouchers = append(vouchers, voucher)
	}

	service.feed.Publish(recipientIDs...)
	return vouchers, nil
}

// Redeem performs the exactly-once unredeemed -> redeemed transition.
// Under concurrent attempts the repository's conditional update guarantees
// a single winner; everyone else gets ErrAlreadyRedeemed.
func (service *VoucherService) Redeem(ctx context.Context, redeemer models.User, publicID string, now time.Time) (models.Voucher, error) {
	voucher, status, err := service.vouchers.Redeem(publicID, redeemer.ID, now)
	if err != nil {
		return models.Voucher{}, err
	}

	switch status {
	case db.RedeemNotFound:
		return models.Voucher{}, ErrNotFound
	case db.RedeemNotRecipient:
		return models.Voucher{}, ErrNotRecipient
	case db.RedeemAlreadyRedeemed:
		return models.Voucher{}, ErrAlreadyRedeemed
	}

	service.notifier.VoucherRedeemed(ctx, voucher)
	service.feed.Publish(voucher.SenderID, voucher.RecipientID)
	return voucher, nil
}

// ListForUser merges sent and received vouchers, newest first.
func (service *VoucherService) ListForUser(user models.User) ([]models.Voucher, error) {
	sent, err := service.vouchers.ListBySender(user.ID)
	if err != nil {
		return nil, err
	}
	received, err := service.vouchers.ListByRecipient(user.ID)
	if err != nil {
		return nil, err
	}

	merged := make([]models.Voucher, 0, len(sent)+len(received))
	merged = append(merged, sent...)
	merged = append(merged, received...)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].SentAt.After(merged[j].SentAt)
	})
	return merged, nil
}
