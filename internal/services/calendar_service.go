package services

import (
	"time"

	"github.com/owletdev/nocturna/internal/models"
)

type CalendarPeriodReader interface {
	ListByUserDesc(userID uint, limit int) ([]models.CycleRecord, error)
	ListByUsersRange(userIDs []uint, fromStart time.Time, toEnd time.Time) ([]models.CycleRecord, error)
}

type CalendarMemberReader interface {
	ListMembers(circleID uint) ([]models.MemberProfile, error)
}

// CalendarService assembles the shared circle calendar: it loads the
// viewer's and members' records, applies the privacy projection and color
// assignment, and returns the merged annotation map together with the
// updated color state the client persists.
type CalendarService struct {
	periods  CalendarPeriodReader
	circles  CalendarMemberReader
	guard    MembershipGuard
	location *time.Location
}

func NewCalendarService(periods CalendarPeriodReader, circles CalendarMemberReader, guard MembershipGuard, location *time.Location) *CalendarService {
	if location == nil {
		location = time.UTC
	}
	return &CalendarService{
		periods:  periods,
		circles:  circles,
		guard:    guard,
		location: location,
	}
}

type SharedCalendar struct {
	Days   map[string]DayAnnotation `json:"days"`
	Colors map[uint]string          `json:"colors"`
}

func (service *CalendarService) BuildForCircle(viewer models.User, circleID uint, colors map[uint]string, now time.Time) (SharedCalendar, error) {
	if _, err := service.guard.RequireMember(circleID, viewer.ID); err != nil {
		return SharedCalendar{}, err
	}

	profiles, err := service.circles.ListMembers(circleID)
	if err != nil {
		return SharedCalendar{}, err
	}

	today := DateAtLocation(now, service.location)
	windowStart := today.AddDate(0, 0, -calendarWindowDays)
	windowEnd := today.AddDate(0, 0, calendarWindowDays)

	memberIDs := make([]uint, 0, len(profiles))
	viewerName := viewer.DisplayName
	for _, profile := range profiles {
		if profile.UserID == viewer.ID {
			continue
		}
		memberIDs = append(memberIDs, profile.UserID)
	}

	records, err := service.periods.ListByUsersRange(memberIDs, windowStart, windowEnd)
	if err != nil {
		return SharedCalendar{}, err
	}
	recordsByUser := make(map[uint][]models.CycleRecord, len(memberIDs))
	for _, record := range records {
		recordsByUser[record.UserID] = append(recordsByUser[record.UserID], record)
	}

	members := make([]MemberRecords, 0, len(memberIDs))
	for _, profile := range profiles {
		if profile.UserID == viewer.ID {
			continue
		}
		members = append(members, MemberRecords{
			UserID:       profile.UserID,
			DisplayName:  profile.DisplayName,
			PrivacyLevel: profile.PrivacyLevel,
			Records:      recordsByUser[profile.UserID],
		})
	}

	ownRecords, err := service.periods.ListByUserDesc(viewer.ID, 0)
	if err != nil {
		return SharedCalendar{}, err
	}

	assigned := AssignMemberColors(colors, memberIDs)
	days := BuildSharedCalendar(viewer.ID, viewerName, ownRecords, members, assigned, now, service.location)

	return SharedCalendar{Days: days, Colors: assigned}, nil
}

// MemberNamesAt resolves which circle members (viewer included) cover a
// given day, feeding the shared-view tap handling.
func (service *CalendarService) MemberNamesAt(viewer models.User, circleID uint, day time.Time, colors map[uint]string, now time.Time) ([]string, bool, error) {
	calendar, err := service.BuildForCircle(viewer, circleID, colors, now)
	if err != nil {
		return nil, false, err
	}

	annotation, ok := calendar.Days[DayKey(DateAtLocation(day, service.location))]
	if !ok {
		return nil, false, nil
	}
	return annotation.MemberNames, annotation.IsOwn, nil
}
