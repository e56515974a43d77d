package db

import (
	"errors"
	"time"

	"github.com/owletdev/nocturna/internal/models"
	"gorm.io/gorm"
)

// RedeemStatus is the outcome of the guarded redemption. The conditional
// UPDATE on status is the compare-and-set that makes concurrent redemption
// attempts yield exactly one success.
type RedeemStatus string

const (
	RedeemOK              RedeemStatus = "ok"
	RedeemNotFound        RedeemStatus = "not_found"
	RedeemNotRecipient    RedeemStatus = "not_recipient"
	RedeemAlreadyRedeemed RedeemStatus = "already_redeemed"
)

type VoucherRepository struct {
	database *gorm.DB
}

func NewVoucherRepository(database *gorm.DB) *VoucherRepository {
	return &VoucherRepository{database: database}
}

func (repo *VoucherRepository) Create(voucher *models.Voucher) error {
	return repo.database.Create(voucher).Error
}

func (repo *VoucherRepository) FindByPublicID(publicID string) (models.Voucher, error) {
	var voucher models.Voucher
	if err := repo.database.Where("public_id = ?", publicID).First(&voucher).Error; err != nil {
		return models.Voucher{}, err
	}
	return voucher, nil
}

func (repo *VoucherRepository) CodeExists(code string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.Voucher{}).
		Where("code = ?", code).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *VoucherRepository) ListBySender(senderID uint) ([]models.Voucher, error) {
	vouchers := make([]models.Voucher, 0)
	if err := repo.database.
		Where("sender_id = ?", senderID).
		Order("sent_at DESC, id DESC").
		Find(&vouchers).Error; err != nil {
		return nil, err
	}
	return vouchers, nil
}

func (repo *VoucherRepository) ListByRecipient(recipientID uint) ([]models.Voucher, error) {
	vouchers := make([]models.Voucher, 0)
	if err := repo.database.
		Where("recipient_id = ?", recipientID).
		Order("sent_at DESC, id DESC").
		Find(&vouchers).Error; err != nil {
		return nil, err
	}
	return vouchers, nil
}

func (repo *VoucherRepository) CountUnredeemedForRecipient(recipientID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Voucher{}).
		Where("recipient_id = ? AND status = ?", recipientID, models.VoucherStatusUnredeemed).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Redeem performs the unredeemed -> redeemed transition inside a
// transaction. The status predicate on the UPDATE guarantees at most one
// attempt flips the row; losers observe RowsAffected == 0 and report
// RedeemAlreadyRedeemed.
//
// The UPDATE comes before any read so the transaction takes the write lock
// up front. A read-then-write shape leaves two concurrent redeemers holding
// shared locks, and the loser's lock upgrade fails with SQLITE_BUSY instead
// of waiting out the busy timeout.
func (repo *VoucherRepository) Redeem(publicID string, redeemerID uint, now time.Time) (models.Voucher, RedeemStatus, error) {
	var voucher models.Voucher
	status := RedeemOK

	err := repo.database.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Voucher{}).
			Where("public_id = ? AND recipient_id = ? AND status = ?",
				publicID, redeemerID, models.VoucherStatusUnredeemed).
			Updates(map[string]any{
				"status":      models.VoucherStatusRedeemed,
				"redeemed_at": now,
				"redeemer_id": redeemerID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 1 {
			return tx.Where("public_id = ?", publicID).First(&voucher).Error
		}

		// Nothing flipped; read the row to say why.
		err := tx.Where("public_id = ?", publicID).First(&voucher).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status = RedeemNotFound
			return nil
		}
		if err != nil {
			return err
		}
		if voucher.Status == models.VoucherStatusRedeemed {
			status = RedeemAlreadyRedeemed
			return nil
		}
		status = RedeemNotRecipient
		return nil
	})
	if err != nil {
		return models.Voucher{}, "", err
	}
	if status != RedeemOK {
		return models.Voucher{}, status, nil
	}
	return voucher, RedeemOK, nil
}
