package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/owletdev/nocturna/internal/db"
	"github.com/owletdev/nocturna/internal/models"
	"github.com/owletdev/nocturna/internal/security"
	"gorm.io/gorm"
)

// maxInviteCodeAttempts bounds the generate-then-check loop for invite
// codes; the 32^8 space makes exhaustion effectively impossible.
const maxInviteCodeAttempts = 10

type CircleRepository interface {
	CreateWithCreator(circle *models.Circle, creator *models.CircleMember) error
	FindByID(circleID uint) (models.Circle, error)
	FindByInviteCode(code string) (models.Circle, error)
	InviteCodeExists(code string) (bool, error)
	AddMemberChecked(member *models.CircleMember, maxMembers int) (db.JoinStatus, error)
	RemoveMember(circleID uint, userID uint) error
	FindMember(circleID uint, userID uint) (models.CircleMember, bool, error)
	UpdateMemberPrivacy(circleID uint, userID uint, privacyLevel string) error
	ListMembers(circleID uint) ([]models.MemberProfile, error)
	ListByUser(userID uint) ([]models.Circle, error)
}

type CircleService struct {
	circles CircleRepository
}

func NewCircleService(circles CircleRepository) *CircleService {
	return &CircleService{circles: circles}
}

func (service *CircleService) CreateCircle(creator models.User, name string, now time.Time) (models.Circle, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Circle{}, newValidationError("circle name is required")
	}

	code, err := service.generateInviteCode()
	if err != nil {
		return models.Circle{}, err
	}

	circle := models.Circle{
		Name:       name,
		InviteCode: code,
		CreatorID:  creator.ID,
		CreatedAt:  now,
	}
	member := models.CircleMember{
		UserID:       creator.ID,
		PrivacyLevel: models.PrivacyShowAll,
		JoinedAt:     now,
	}
	if err := service.circles.CreateWithCreator(&circle, &member); err != nil {
		return models.Circle{}, err
	}
	return circle, nil
}

func (service *CircleService) generateInviteCode() (string, error) {
	for attempt := 0; attempt < maxInviteCodeAttempts; attempt++ {
		code, err := security.RandomString(models.InviteCodeLength, security.UnambiguousAlphabet)
		if err != nil {
			return "", err
		}
		exists, err := service.circles.InviteCodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("invite code space exhausted after %d attempts", maxInviteCodeAttempts)
}

func (service *CircleService) JoinByInviteCode(user models.User, code string, now time.Time) (models.Circle, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != models.InviteCodeLength {
		return models.Circle{}, newValidationError("invite code must be 8 characters")
	}

	circle, err := service.circles.FindByInviteCode(code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Circle{}, ErrNotFound
	}
	if err != nil {
		return models.Circle{}, err
	}

	member := models.CircleMember{
		CircleID:     circle.ID,
		UserID:       user.ID,
		PrivacyLevel: models.PrivacyShowAll,
		JoinedAt:     now,
	}
	status, err := service.circles.AddMemberChecked(&member, models.MaxCircleMembers)
	if err != nil {
		return models.Circle{}, err
	}
	switch status {
	case db.JoinCircleFull:
		return models.Circle{}, ErrCapacityExceeded
	case db.JoinAlreadyMember:
		return models.Circle{}, ErrAlreadyMember
	}
	return circle, nil
}

func (service *CircleService) Leave(user models.User, circleID uint) error {
	_, isMember, err := service.circles.FindMember(circleID, user.ID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotCircleMember
	}
	return service.circles.RemoveMember(circleID, user.ID)
}

func (service *CircleService) SetPrivacy(user models.User, circleID uint, privacyLevel string) error {
	if !models.ValidPrivacyLevel(privacyLevel) {
		return newValidationError("invalid privacy level")
	}
	_, isMember, err := service.circles.FindMember(circleID, user.ID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotCircleMember
	}
	return service.circles.UpdateMemberPrivacy(circleID, user.ID, privacyLevel)
}

func (service *CircleService) ListForUser(user models.User) ([]models.Circle, error) {
	return service.circles.ListByUser(user.ID)
}

// MembersForMember returns the member list, guarded so only circle members
// can see it.
func (service *CircleService) MembersForMember(user models.User, circleID uint) ([]models.MemberProfile, error) {
	_, isMember, err := service.circles.FindMember(circleID, user.ID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotCircleMember
	}
	return service.circles.ListMembers(circleID)
}

// RequireMember is the membership guard shared by the alert, voucher,
// calendar and event flows.
func (service *CircleService) RequireMember(circleID uint, userID uint) (models.CircleMember, error) {
	member, isMember, err := service.circles.FindMember(circleID, userID)
	if err != nil {
		return models.CircleMember{}, err
	}
	if !isMember {
		return models.CircleMember{}, ErrNotCircleMember
	}
	return member, nil
}
