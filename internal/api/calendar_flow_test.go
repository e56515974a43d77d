package api

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/owletdev/nocturna/internal/models"
	"github.com/owletdev/nocturna/internal/services"
)

func fetchCalendar(t *testing.T, app *fiber.App, viewer testUser, circleID uint) services.SharedCalendar {
	t.Helper()

	response := performJSON(t, app, http.MethodGet, circlePath(circleID, "calendar"), viewer.Token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("calendar status = %d, error %q", response.StatusCode, readAPIError(t, response.Body))
	}
	var calendar services.SharedCalendar
	decodeData(t, response.Body, &calendar)
	return calendar
}

func recentDay(daysAgo int) string {
	return time.Now().UTC().AddDate(0, 0, -daysAgo).Format("2006-01-02")
}

func TestSharedCalendarAggregatesMembers(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	viewer := registerTestUser(t, app, "ana@example.com", "Ana")
	member := registerTestUser(t, app, "bea@example.com", "Bea")

	circleID, inviteCode := createTestCircle(t, app, viewer, "Coven A")
	joinTestCircle(t, app, member, inviteCode)

	// Viewer covers days 10..8 ago, member days 9..6 ago: 9 and 8 overlap.
	createTestPeriod(t, app, viewer, recentDay(10), recentDay(8))
	createTestPeriod(t, app, member, recentDay(9), recentDay(6))

	calendar := fetchCalendar(t, app, viewer, circleID)

	if color, ok := calendar.Colors[member.ID]; !ok || color == "" {
		t.Fatalf("member colors = %v, want an assignment for %d", calendar.Colors, member.ID)
	}

	overlap, ok := calendar.Days[recentDay(9)]
	if !ok {
		t.Fatalf("no annotation for overlap day %s", recentDay(9))
	}
	if !overlap.IsOverlap || overlap.Color != services.OverlapColor {
		t.Fatalf("overlap annotation = %+v, want overlap color", overlap)
	}

	ownOnly := calendar.Days[recentDay(10)]
	if !ownOnly.IsOwn || ownOnly.Color != services.OwnPeriodColor {
		t.Fatalf("own-only annotation = %+v, want own color", ownOnly)
	}

	memberOnly := calendar.Days[recentDay(6)]
	if memberOnly.IsOwn || memberOnly.Color != calendar.Colors[member.ID] {
		t.Fatalf("member-only annotation = %+v, want member color %q", memberOnly, calendar.Colors[member.ID])
	}

	today := time.Now().UTC().Format("2006-01-02")
	if annotation, ok := calendar.Days[today]; !ok || !annotation.IsToday {
		t.Fatal("today must always be annotated")
	}
}

func TestSharedCalendarHonorsPrivacy(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	viewer := registerTestUser(t, app, "ana@example.com", "Ana")
	member := registerTestUser(t, app, "bea@example.com", "Bea")

	circleID, inviteCode := createTestCircle(t, app, viewer, "Coven A")
	joinTestCircle(t, app, member, inviteCode)
	createTestPeriod(t, app, member, recentDay(9), recentDay(6))

	response := performJSON(t, app, http.MethodPut, circlePath(circleID, "privacy"), member.Token, fiber.Map{
		"privacy_level": models.PrivacyBoundariesOnly,
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("set privacy status = %d", response.StatusCode)
	}

	calendar := fetchCalendar(t, app, viewer, circleID)
	if _, ok := calendar.Days[recentDay(9)]; !ok {
		t.Fatal("range start must stay visible under boundaries_only")
	}
	if _, ok := calendar.Days[recentDay(6)]; !ok {
		t.Fatal("range end must stay visible under boundaries_only")
	}
	if _, ok := calendar.Days[recentDay(8)]; ok {
		t.Fatal("interior days must be hidden under boundaries_only")
	}

	response = performJSON(t, app, http.MethodPut, circlePath(circleID, "privacy"), member.Token, fiber.Map{
		"privacy_level": models.PrivacyHidden,
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("set privacy status = %d", response.StatusCode)
	}

	calendar = fetchCalendar(t, app, viewer, circleID)
	if _, ok := calendar.Days[recentDay(9)]; ok {
		t.Fatal("hidden members must not appear on the shared calendar")
	}
}

func TestSharedCalendarKeepsClientColorAssignments(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	viewer := registerTestUser(t, app, "ana@example.com", "Ana")
	member := registerTestUser(t, app, "bea@example.com", "Bea")

	circleID, inviteCode := createTestCircle(t, app, viewer, "Coven A")
	joinTestCircle(t, app, member, inviteCode)

	colors := url.QueryEscape(`{"` + itoa(member.ID) + `":"#123456"}`)
	response := performJSON(t, app, http.MethodGet, circlePath(circleID, "calendar")+"?colors="+colors, viewer.Token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("calendar status = %d", response.StatusCode)
	}
	var calendar services.SharedCalendar
	decodeData(t, response.Body, &calendar)
	if calendar.Colors[member.ID] != "#123456" {
		t.Fatalf("member color = %q, want the passed-in assignment kept", calendar.Colors[member.ID])
	}
}

func TestCalendarRequiresMembership(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	creator := registerTestUser(t, app, "ana@example.com", "Ana")
	outsider := registerTestUser(t, app, "zoe@example.com", "Zoe")
	circleID, _ := createTestCircle(t, app, creator, "Coven A")

	response := performJSON(t, app, http.MethodGet, circlePath(circleID, "calendar"), outsider.Token, nil)
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("outsider calendar status = %d, want 403", response.StatusCode)
	}
}

func TestCalendarTapEndpoint(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	user := registerTestUser(t, app, "ana@example.com", "Ana")

	response := performJSON(t, app, http.MethodPost, "/api/calendar/tap", user.Token, fiber.Map{
		"date": recentDay(3),
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("tap status = %d, error %q", response.StatusCode, readAPIError(t, response.Body))
	}
	var result services.TapResult
	decodeData(t, response.Body, &result)
	if result.Action != services.TapActionBeginSelection {
		t.Fatalf("first tap action = %q, want %q", result.Action, services.TapActionBeginSelection)
	}

	response = performJSON(t, app, http.MethodPost, "/api/calendar/tap", user.Token, fiber.Map{
		"date":  recentDay(1),
		"state": result.State,
	})
	decodeData(t, response.Body, &result)
	if result.Action != services.TapActionCompleteRange {
		t.Fatalf("second tap action = %q, want %q", result.Action, services.TapActionCompleteRange)
	}

	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	response = performJSON(t, app, http.MethodPost, "/api/calendar/tap", user.Token, fiber.Map{
		"date": tomorrow,
	})
	decodeData(t, response.Body, &result)
	if result.Action != services.TapActionRejectFuture || result.Message != services.FutureStartMessage {
		t.Fatalf("future tap result = %+v, want rejection with message", result)
	}
}

func TestCalendarTapSharedViewShowsMembers(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	viewer := registerTestUser(t, app, "ana@example.com", "Ana")
	member := registerTestUser(t, app, "bea@example.com", "Bea")

	circleID, inviteCode := createTestCircle(t, app, viewer, "Coven A")
	joinTestCircle(t, app, member, inviteCode)
	createTestPeriod(t, app, member, recentDay(5), recentDay(3))

	response := performJSON(t, app, http.MethodPost, "/api/calendar/tap", viewer.Token, fiber.Map{
		"circle_id":   circleID,
		"date":        recentDay(4),
		"shared_view": true,
	})
	var result services.TapResult
	decodeData(t, response.Body, &result)
	if result.Action != services.TapActionShowMembers {
		t.Fatalf("shared tap action = %q, want %q", result.Action, services.TapActionShowMembers)
	}
	if len(result.MemberNames) != 1 || result.MemberNames[0] != "Bea" {
		t.Fatalf("member names = %v, want [Bea]", result.MemberNames)
	}

	response = performJSON(t, app, http.MethodPost, "/api/calendar/tap", viewer.Token, fiber.Map{
		"circle_id":   circleID,
		"date":        recentDay(20),
		"shared_view": true,
	})
	decodeData(t, response.Body, &result)
	if result.Action != services.TapActionNone {
		t.Fatalf("empty shared tap action = %q, want %q", result.Action, services.TapActionNone)
	}
}
