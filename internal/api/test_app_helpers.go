package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/owletdev/nocturna/internal/db"
)

func newTestApp(t *testing.T) (*fiber.App, *Handler) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "nocturna-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler := NewHandler(database, "test-secret-key", time.UTC, "")
	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, handler
}

type testUser struct {
	ID    uint
	Token string
	Email string
	Name  string
}

func registerTestUser(t *testing.T, app *fiber.App, email string, displayName string) testUser {
	t.Helper()

	response := performJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":        email,
		"password":     "strong-password",
		"display_name": displayName,
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d, error %q", email, response.StatusCode, readAPIError(t, response.Body))
	}

	var session struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decodeData(t, response.Body, &session)
	if session.Token == "" || session.User.ID == 0 {
		t.Fatalf("register %s: incomplete session payload", email)
	}
	return testUser{ID: session.User.ID, Token: session.Token, Email: email, Name: displayName}
}

func performJSON(t *testing.T, app *fiber.App, method string, path string, token string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode request payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return response
}

func decodeData(t *testing.T, body io.Reader, target interface{}) {
	t.Helper()

	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	envelope := struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode response envelope: %v (%s)", err, raw)
	}
	if !envelope.Success {
		t.Fatalf("expected success response, got error %q", envelope.Error)
	}
	if target == nil {
		return
	}
	if err := json.Unmarshal(envelope.Data, target); err != nil {
		t.Fatalf("decode response data: %v (%s)", err, envelope.Data)
	}
}

func readAPIError(t *testing.T, body io.Reader) string {
	t.Helper()

	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	envelope := struct {
		Error string `json:"error"`
	}{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, raw)
	}
	return envelope.Error
}

func createTestCircle(t *testing.T, app *fiber.App, creator testUser, name string) (uint, string) {
	t.Helper()

	response := performJSON(t, app, http.MethodPost, "/api/circles", creator.Token, fiber.Map{"name": name})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("create circle: status %d, error %q", response.StatusCode, readAPIError(t, response.Body))
	}

	var circle struct {
		ID         uint   `json:"id"`
		InviteCode string `json:"invite_code"`
	}
	decodeData(t, response.Body, &circle)
	return circle.ID, circle.InviteCode
}

func joinTestCircle(t *testing.T, app *fiber.App, member testUser, inviteCode string) {
	t.Helper()

	response := performJSON(t, app, http.MethodPost, "/api/circles/join", member.Token, fiber.Map{"invite_code": inviteCode})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("join circle: status %d, error %q", response.StatusCode, readAPIError(t, response.Body))
	}
}

func circlePath(circleID uint, suffix string) string {
	return fmt.Sprintf("/api/circles/%d/%s", circleID, suffix)
}

func itoa(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}
