package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/owletdev/nocturna/internal/models"
)

func createTestEvent(t *testing.T, app *fiber.App, creator testUser, circleID uint, title string) models.CircleEvent {
	t.Helper()

	response := performJSON(t, app, http.MethodPost, circlePath(circleID, "events"), creator.Token, fiber.Map{
		"title":     title,
		"location":  "the usual place",
		"starts_at": time.Now().UTC().AddDate(0, 0, 7).Format(time.RFC3339),
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("create event: status %d, error %q", response.StatusCode, readAPIError(t, response.Body))
	}
	var event models.CircleEvent
	decodeData(t, response.Body, &event)
	return event
}

func TestCreateAndListEvents(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	creator := registerTestUser(t, app, "ana@example.com", "Ana")
	member := registerTestUser(t, app, "bea@example.com", "Bea")
	outsider := registerTestUser(t, app, "zoe@example.com", "Zoe")

	circleID, inviteCode := createTestCircle(t, app, creator, "Coven A")
	joinTestCircle(t, app, member, inviteCode)

	createTestEvent(t, app, creator, circleID, "Movie night")

	response := performJSON(t, app, http.MethodGet, circlePath(circleID, "events"), member.Token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("list events status = %d", response.StatusCode)
	}
	var events []models.CircleEvent
	decodeData(t, response.Body, &events)
	if len(events) != 1 || events[0].Title != "Movie night" {
		t.Fatalf("events = %+v, want the created event", events)
	}

	response = performJSON(t, app, http.MethodGet, circlePath(circleID, "events"), outsider.Token, nil)
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("outsider list status = %d, want 403", response.StatusCode)
	}

	response = performJSON(t, app, http.MethodPost, circlePath(circleID, "events"), creator.Token, fiber.Map{
		"title":     "   ",
		"starts_at": time.Now().UTC().Format(time.RFC3339),
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank title status = %d, want 400", response.StatusCode)
	}
}

func TestRSVPUpsertsPerMember(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	creator := registerTestUser(t, app, "ana@example.com", "Ana")
	member := registerTestUser(t, app, "bea@example.com", "Bea")

	circleID, inviteCode := createTestCircle(t, app, creator, "Coven A")
	joinTestCircle(t, app, member, inviteCode)

	event := createTestEvent(t, app, creator, circleID, "Tea party")
	rsvpPath := "/api/events/" + event.PublicID + "/rsvp"

	response := performJSON(t, app, http.MethodPost, rsvpPath, member.Token, fiber.Map{"status": models.RSVPGoing})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("rsvp status = %d, error %q", response.StatusCode, readAPIError(t, response.Body))
	}

	// Changing your answer replaces the entry instead of duplicating it.
	response = performJSON(t, app, http.MethodPost, rsvpPath, member.Token, fiber.Map{"status": models.RSVPMaybe})
	var updated models.CircleEvent
	decodeData(t, response.Body, &updated)
	if len(updated.RSVPs) != 1 || updated.RSVPs[0].Status != models.RSVPMaybe {
		t.Fatalf("rsvps = %+v, want single maybe entry", updated.RSVPs)
	}

	response = performJSON(t, app, http.MethodPost, rsvpPath, member.Token, fiber.Map{"status": "perhaps"})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid rsvp status = %d, want 400", response.StatusCode)
	}
}
