package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nutrilog/nutrilog/internal/bot"
	"github.com/nutrilog/nutrilog/internal/config"
	"github.com/nutrilog/nutrilog/internal/repo"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "http_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := repo.SeedUnits(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	t.Setenv("OWNER_TELEGRAM_ID", "999")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	b := bot.New(db, cfg.Bot.OwnerID, true, "en")
	r := gin.New()
	RegisterRoutes(r, db, b, cfg)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestServer(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health body: %q", w.Body.String())
	}
}

func TestWebhook_EndToEnd(t *testing.T) {
	r := newTestServer(t)

	// Owner seeds the catalog through the same endpoint users talk to.
	for _, text := range []string{
		`/add_food "Apple" --cal=52 --fat=0.2 --carbs=14 --protein=0.3`,
	} {
		w := postJSON(t, r, "/webhook", map[string]any{
			"sender_id": 999, "sender_name": "Admin", "language_code": "en", "text": text,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("seed %q: %d %s", text, w.Code, w.Body.String())
		}
	}

	w := postJSON(t, r, "/webhook", map[string]any{
		"sender_id": 1, "sender_name": "Alice", "language_code": "en-GB", "text": "Apple 100 g",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("webhook = %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		Replies map[string]string `json:"replies"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.Replies["1"], "52 kcal") {
		t.Fatalf("expected logged confirmation, got %v", resp.Replies)
	}
	if !strings.Contains(resp.Replies["999"], "Alice") {
		t.Fatalf("expected owner shadow copy, got %v", resp.Replies)
	}
}

func TestWebhook_BadPayload(t *testing.T) {
	r := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad payload = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "bad_request") {
		t.Fatalf("error envelope: %q", w.Body.String())
	}
}

func TestRouter_NoRoute(t *testing.T) {
	r := newTestServer(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("no-route = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not_found") {
		t.Fatalf("error envelope: %q", w.Body.String())
	}
}
