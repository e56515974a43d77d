package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/owletdev/nocturna/internal/models"
	"github.com/owletdev/nocturna/internal/services"
)

func createTestPeriod(t *testing.T, app *fiber.App, user testUser, start string, end string) models.CycleRecord {
	t.Helper()

	response := performJSON(t, app, http.MethodPost, "/api/periods", user.Token, fiber.Map{
		"start_date": start,
		"end_date":   end,
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("create period %s..%s: status %d, error %q", start, end, response.StatusCode, readAPIError(t, response.Body))
	}
	var record models.CycleRecord
	decodeData(t, response.Body, &record)
	return record
}

func TestCreatePeriodStampsCycleLength(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	user := registerTestUser(t, app, "luna@example.com", "Luna")

	first := createTestPeriod(t, app, user, "2026-05-12", "2026-05-16")
	if first.CycleLength != nil {
		t.Fatalf("first record cycle length = %d, want nil", *first.CycleLength)
	}

	second := createTestPeriod(t, app, user, "2026-06-10", "2026-06-14")
	if second.CycleLength == nil || *second.CycleLength != 29 {
		t.Fatalf("second record cycle length = %v, want 29", second.CycleLength)
	}

	// Stamped lengths never change when older history is edited later.
	response := performJSON(t, app, http.MethodDelete, "/api/periods/"+itoa(first.ID), user.Token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", response.StatusCode)
	}
	response = performJSON(t, app, http.MethodGet, "/api/periods", user.Token, nil)
	var records []models.CycleRecord
	decodeData(t, response.Body, &records)
	if len(records) != 1 || records[0].CycleLength == nil || *records[0].CycleLength != 29 {
		t.Fatalf("records after delete = %+v, want stamped length 29 kept", records)
	}
}

func TestCreatePeriodRejectsFutureStart(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	user := registerTestUser(t, app, "luna@example.com", "Luna")

	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	response := performJSON(t, app, http.MethodPost, "/api/periods", user.Token, fiber.Map{
		"start_date": tomorrow,
		"end_date":   tomorrow,
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("future start status = %d, want 400", response.StatusCode)
	}
	if message := readAPIError(t, response.Body); message != services.FutureStartMessage {
		t.Fatalf("future start error = %q, want %q", message, services.FutureStartMessage)
	}
}

func TestCreatePeriodRejectsInvertedRange(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	user := registerTestUser(t, app, "luna@example.com", "Luna")

	response := performJSON(t, app, http.MethodPost, "/api/periods", user.Token, fiber.Map{
		"start_date": "2026-06-10",
		"end_date":   "2026-06-08",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("inverted range status = %d, want 400", response.StatusCode)
	}
}

func TestPredictionEndpoint(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	user := registerTestUser(t, app, "luna@example.com", "Luna")

	response := performJSON(t, app, http.MethodGet, "/api/prediction", user.Token, nil)
	if response.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("no-history prediction status = %d, want 422", response.StatusCode)
	}

	createTestPeriod(t, app, user, "2026-05-12", "2026-05-16")
	response = performJSON(t, app, http.MethodGet, "/api/prediction", user.Token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("prediction status = %d", response.StatusCode)
	}
	var prediction services.Prediction
	decodeData(t, response.Body, &prediction)
	if prediction.Confidence != services.ConfidenceLow {
		t.Fatalf("single-record confidence = %q, want %q", prediction.Confidence, services.ConfidenceLow)
	}
	if got := prediction.NextStart.Format("2006-01-02"); got != "2026-06-09" {
		t.Fatalf("next start = %s, want 2026-06-09", got)
	}

	createTestPeriod(t, app, user, "2026-06-10", "2026-06-14")
	createTestPeriod(t, app, user, "2026-07-09", "2026-07-13")
	response = performJSON(t, app, http.MethodGet, "/api/prediction", user.Token, nil)
	decodeData(t, response.Body, &prediction)
	if prediction.Confidence != services.ConfidenceHigh {
		t.Fatalf("three-record confidence = %q, want %q", prediction.Confidence, services.ConfidenceHigh)
	}
	if prediction.AverageCycleLength != 29 {
		t.Fatalf("average cycle length = %d, want 29", prediction.AverageCycleLength)
	}
}

func TestLogSymptomsOnRecord(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	user := registerTestUser(t, app, "luna@example.com", "Luna")
	record := createTestPeriod(t, app, user, "2026-06-10", "2026-06-14")

	path := "/api/periods/" + itoa(record.ID) + "/symptoms"
	response := performJSON(t, app, http.MethodPost, path, user.Token, fiber.Map{
		"date":   "2026-06-11",
		"cramps": models.CrampsModerate,
		"mood":   models.MoodLow,
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("log symptoms status = %d, error %q", response.StatusCode, readAPIError(t, response.Body))
	}

	// Re-logging the same day overwrites rather than duplicating.
	response = performJSON(t, app, http.MethodPost, path, user.Token, fiber.Map{
		"date":   "2026-06-11",
		"cramps": models.CrampsMild,
		"mood":   models.MoodOkay,
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("re-log symptoms status = %d", response.StatusCode)
	}

	response = performJSON(t, app, http.MethodGet, path, user.Token, nil)
	var entries []models.SymptomEntry
	decodeData(t, response.Body, &entries)
	if len(entries) != 1 || entries[0].Cramps != models.CrampsMild {
		t.Fatalf("entries = %+v, want one upserted entry with mild cramps", entries)
	}

	response = performJSON(t, app, http.MethodPost, path, user.Token, fiber.Map{
		"date":   "2026-06-20",
		"cramps": models.CrampsMild,
		"mood":   models.MoodOkay,
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("out-of-range day status = %d, want 400", response.StatusCode)
	}
}

func TestPeriodsAreScopedToTheirOwner(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	owner := registerTestUser(t, app, "luna@example.com", "Luna")
	other := registerTestUser(t, app, "mira@example.com", "Mira")

	record := createTestPeriod(t, app, owner, "2026-06-10", "2026-06-14")

	response := performJSON(t, app, http.MethodDelete, "/api/periods/"+itoa(record.ID), other.Token, nil)
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign delete status = %d, want 404", response.StatusCode)
	}
}
