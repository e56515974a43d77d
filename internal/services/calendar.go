package services

import (
	"time"

	"github.com/owletdev/nocturna/internal/models"
)

// Calendar marker colors. Members draw from MemberPalette in join order;
// the viewer's own days use a fixed highlight outside the palette, and the
// overlap and today markers override individual coloring.
const (
	OwnPeriodColor = "#E91E63"
	OverlapColor   = "#7C4DFF"
	TodayColor     = "#FFD54F"
)

var MemberPalette = []string{
	"#FF8A65",
	"#4FC3F7",
	"#81C784",
	"#BA68C8",
	"#FFB74D",
	"#4DB6AC",
	"#F06292",
	"#A1887F",
}

// calendarWindowDays bounds the annotated window on both sides of today.
const calendarWindowDays = 365

// MemberRecords bundles one circle member's visible cycle records for
// aggregation. Records are projected through the member's privacy level
// before any day is annotated.
type MemberRecords struct {
	UserID       uint
	DisplayName  string
	PrivacyLevel string
	Records      []models.CycleRecord
}

type DayAnnotation struct {
	Date        string   `json:"date"`
	Color       string   `json:"color"`
	IsOwn       bool     `json:"is_own"`
	IsOverlap   bool     `json:"is_overlap"`
	IsToday     bool     `json:"is_today"`
	Disabled    bool     `json:"disabled"`
	MemberIDs   []uint   `json:"member_ids"`
	MemberNames []string `json:"member_names"`
}

// AssignMemberColors returns a stable member -> color map. Existing
// assignments are kept untouched; unassigned members receive palette colors
// in the given member-list order, cycling when the palette runs out. The
// caller passes the map in and persists what comes back, so no ambient
// global state is involved.
func AssignMemberColors(existing map[uint]string, memberIDs []uint) map[uint]string {
	assigned := make(map[uint]string, len(memberIDs))
	used := 0
	for _, memberID := range memberIDs {
		if color, ok := existing[memberID]; ok && color != "" {
			assigned[memberID] = color
			continue
		}
		assigned[memberID] = MemberPalette[used%len(MemberPalette)]
		used++
	}
	return assigned
}

// ProjectMemberDays is the CirclePeriodView read projection: it reduces a
// member's records to the calendar days their privacy level exposes.
// show_all reveals every day of each range, boundaries_only only the range
// edges, hidden nothing. The projection is recomputed on every fetch and
// never persisted.
func ProjectMemberDays(member MemberRecords, location *time.Location) []time.Time {
	days := make([]time.Time, 0)
	switch member.PrivacyLevel {
	case models.PrivacyShowAll:
		for _, record := range member.Records {
			start := DateAtLocation(record.StartDate, location)
			end := DateAtLocation(record.EndDate, location)
			for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
				days = append(days, day)
			}
		}
	case models.PrivacyBoundariesOnly:
		for _, record := range member.Records {
			start := DateAtLocation(record.StartDate, location)
			end := DateAtLocation(record.EndDate, location)
			days = append(days, start)
			if !end.Equal(start) {
				days = append(days, end)
			}
		}
	}
	return days
}

// BuildSharedCalendar merges the viewer's own records with the projected
// records of the other circle members into a day -> annotation map covering
// [today-365d, today+365d]. Days covered by two or more distinct users get
// the overlap marker; today always carries the today marker on top while
// keeping the underlying ownership for tap handling; future days are
// flagged disabled.
func BuildSharedCalendar(
	viewerID uint,
	viewerName string,
	ownRecords []models.CycleRecord,
	members []MemberRecords,
	colors map[uint]string,
	now time.Time,
	location *time.Location,
) map[string]DayAnnotation {
	today := DateAtLocation(now, location)
	windowStart := today.AddDate(0, 0, -calendarWindowDays)
	windowEnd := today.AddDate(0, 0, calendarWindowDays)

	type dayOwners struct {
		ids   []uint
		names []string
	}
	ownersByDay := make(map[string]*dayOwners)

	claim := func(day time.Time, userID uint, name string) {
		if day.Before(windowStart) || day.After(windowEnd) {
			return
		}
		key := DayKey(day)
		owners, ok := ownersByDay[key]
		if !ok {
			owners = &dayOwners{}
			ownersByDay[key] = owners
		}
		for _, existingID := range owners.ids {
			if existingID == userID {
				return
			}
		}
		owners.ids = append(owners.ids, userID)
		owners.names = append(owners.names, name)
	}

	for _, record := range ownRecords {
		start := DateAtLocation(record.StartDate, location)
		end := DateAtLocation(record.EndDate, location)
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			claim(day, viewerID, viewerName)
		}
	}

	for _, member := range members {
		if member.UserID == viewerID {
			continue
		}
		for _, day := range ProjectMemberDays(member, location) {
			claim(day, member.UserID, member.DisplayName)
		}
	}

	annotations := make(map[string]DayAnnotation, len(ownersByDay)+1)
	todayKey := DayKey(today)

	for key, owners := range ownersByDay {
		day, err := ParseDayKey(key, location)
		if err != nil {
			continue
		}

		annotation := DayAnnotation{
			Date:        key,
			MemberIDs:   owners.ids,
			MemberNames: owners.names,
			Disabled:    day.After(today),
		}

		isOwn := false
		for _, ownerID := range owners.ids {
			if ownerID == viewerID {
				isOwn = true
				break
			}
		}
		annotation.IsOwn = isOwn

		switch {
		case len(owners.ids) >= 2:
			annotation.IsOverlap = true
			annotation.Color = OverlapColor
		case isOwn:
			annotation.Color = OwnPeriodColor
		default:
			annotation.Color = colors[owners.ids[0]]
		}

		if key == todayKey {
			annotation.IsToday = true
			annotation.Color = TodayColor
		}

		annotations[key] = annotation
	}

	// Today is always annotated even when nothing covers it.
	if _, ok := annotations[todayKey]; !ok {
		annotations[todayKey] = DayAnnotation{
			Date:    todayKey,
			IsToday: true,
			Color:   TodayColor,
		}
	}

	return annotations
}
