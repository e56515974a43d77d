package db

import (
	"errors"

	"github.com/owletdev/nocturna/internal/models"
	"gorm.io/gorm"
)

// JoinStatus is the outcome of a guarded membership insert. The capacity
// check runs inside the same transaction as the insert so two concurrent
// joins cannot both squeeze into the last seat.
type JoinStatus string

const (
	JoinOK            JoinStatus = "ok"
	JoinCircleFull    JoinStatus = "circle_full"
	JoinAlreadyMember JoinStatus = "already_member"
)

type CircleRepository struct {
	database *gorm.DB
}

func NewCircleRepository(database *gorm.DB) *CircleRepository {
	return &CircleRepository{database: database}
}

func (repo *CircleRepository) CreateWithCreator(circle *models.Circle, creator *models.CircleMember) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(circle).Error; err != nil {
			return err
		}
		creator.CircleID = circle.ID
		return tx.Create(creator).Error
	})
}

func (repo *CircleRepository) FindByID(circleID uint) (models.Circle, error) {
	var circle models.Circle
	if err := repo.database.First(&circle, circleID).Error; err != nil {
		return models.Circle{}, err
	}
	return circle, nil
}

func (repo *CircleRepository) FindByInviteCode(code string) (models.Circle, error) {
	var circle models.Circle
	if err := repo.database.Where("invite_code = ?", code).First(&circle).Error; err != nil {
		return models.Circle{}, err
	}
	return circle, nil
}

func (repo *CircleRepository) InviteCodeExists(code string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.Circle{}).
		Where("invite_code = ?", code).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

// AddMemberChecked inserts the membership only while a seat is free and the
// user is not already in the circle. The guarded INSERT is the transaction's
// first statement so the write lock is taken before any read; a count-then-
// insert shape lets two concurrent joins deadlock on the lock upgrade.
func (repo *CircleRepository) AddMemberChecked(member *models.CircleMember, maxMembers int) (JoinStatus, error) {
	status := JoinOK
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(`
			INSERT INTO circle_members (circle_id, user_id, privacy_level, joined_at)
			SELECT ?, ?, ?, ?
			WHERE (SELECT COUNT(*) FROM circle_members WHERE circle_id = ?) < ?
			  AND NOT EXISTS (
			    SELECT 1 FROM circle_members WHERE circle_id = ? AND user_id = ?
			  )`,
			member.CircleID, member.UserID, member.PrivacyLevel, member.JoinedAt,
			member.CircleID, maxMembers,
			member.CircleID, member.UserID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 1 {
			return nil
		}

		// Nothing inserted; read the counts to say why.
		var existing int64
		if err := tx.Model(&models.CircleMember{}).
			Where("circle_id = ? AND user_id = ?", member.CircleID, member.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			status = JoinAlreadyMember
			return nil
		}
		status = JoinCircleFull
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

func (repo *CircleRepository) RemoveMember(circleID uint, userID uint) error {
	return repo.database.
		Where("circle_id = ? AND user_id = ?", circleID, userID).
		Delete(&models.CircleMember{}).Error
}

func (repo *CircleRepository) FindMember(circleID uint, userID uint) (models.CircleMember, bool, error) {
	var member models.CircleMember
	err := repo.database.
		Where("circle_id = ? AND user_id = ?", circleID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CircleMember{}, false, nil
	}
	if err != nil {
		return models.CircleMember{}, false, err
	}
	return member, true, nil
}

func (repo *CircleRepository) UpdateMemberPrivacy(circleID uint, userID uint, privacyLevel string) error {
	return repo.database.Model(&models.CircleMember{}).
		Where("circle_id = ? AND user_id = ?", circleID, userID).
		Update("privacy_level", privacyLevel).Error
}

// ListMembers returns member profiles in join order, which is also the
// color-assignment order for the shared calendar.
func (repo *CircleRepository) ListMembers(circleID uint) ([]models.MemberProfile, error) {
	members := make([]models.MemberProfile, 0, models.MaxCircleMembers)
	err := repo.database.Model(&models.CircleMember{}).
		Select("circle_members.user_id", "users.display_name", "circle_members.privacy_level", "circle_members.joined_at").
		Joins("JOIN users ON users.id = circle_members.user_id").
		Where("circle_members.circle_id = ?", circleID).
		Order("circle_members.joined_at ASC, circle_members.id ASC").
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (repo *CircleRepository) ListByUser(userID uint) ([]models.Circle, error) {
	circles := make([]models.Circle, 0)
	err := repo.database.Model(&models.Circle{}).
		Joins("JOIN circle_members ON circle_members.circle_id = circles.id").
		Where("circle_members.user_id = ?", userID).
		Order("circles.created_at ASC").
		Find(&circles).Error
	if err != nil {
		return nil, err
	}
	return circles, nil
}
