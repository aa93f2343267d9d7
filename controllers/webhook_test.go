package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/require"

	"penelope-webhooks/config"
	dbpkg "penelope-webhooks/db"
	"penelope-webhooks/logging"
	"penelope-webhooks/models"
	"penelope-webhooks/rawstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RawEvent{}).Error)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{Provider: "GUPSHUP", WebhookSecret: "s3cr3t"}
	log := logging.New(logging.ModeDevelopment, "error")
	ctrl := NewWebhookController(cfg, rawstore.NewGormStore(), log)

	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(db))
	r.GET("/health", ctrl.Health)
	r.POST("/webhooks/gupshup/:appId/events", ctrl.Ingest)
	return r, db
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
}

func TestIngest_RejectsBadSecret(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/gupshup/A/events", strings.NewReader(`{}`))
	req.Header.Set("X-GUPSHUP-SECRET", "wrong")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

// Identical body posted twice yields exactly one stored row, and both
// calls still get a 200 response.
func TestIngest_DedupeByProviderEventID(t *testing.T) {
	r, db := newTestRouter(t)
	body := `{"statuses":[{"id":"gs-1","status":"delivered","timestamp":"1739112000"}],"eventId":"ev-42"}`

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/gupshup/A/events", strings.NewReader(body))
		req.Header.Set("X-GUPSHUP-SECRET", "s3cr3t")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"ok":true}`, w.Body.String())
	}

	var count int
	require.NoError(t, db.Model(&models.RawEvent{}).Count(&count).Error)
	require.Equal(t, 1, count)
}

func TestIngest_EmptyBodyIsWrapped(t *testing.T) {
	r, db := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/gupshup/A/events", strings.NewReader(""))
	req.Header.Set("X-GUPSHUP-SECRET", "s3cr3t")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var row models.RawEvent
	require.NoError(t, db.First(&row).Error)
	require.Equal(t, "UNKNOWN", row.EventKind)
	require.Contains(t, string(row.PayloadJSON), `"_empty":true`)
}
