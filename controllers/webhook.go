package controllers

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"penelope-webhooks/config"
	dbpkg "penelope-webhooks/db"
	"penelope-webhooks/logging"
	"penelope-webhooks/middleware"
	"penelope-webhooks/normalizer"
	"penelope-webhooks/rawstore"
)

func respondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"error": msg})
}

func respondSuccess(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// WebhookController holds the dependencies the ingest endpoint needs.
// It is constructed once in main and attached to the router; no
// package-level state.
type WebhookController struct {
	Config *config.Config
	Store  rawstore.Store
	Log    *logging.Logger
}

func NewWebhookController(cfg *config.Config, store rawstore.Store, log *logging.Logger) *WebhookController {
	return &WebhookController{Config: cfg, Store: store, Log: log}
}

// Health answers the liveness probe. No DB round-trip: if the process
// can answer HTTP at all, it's up.
func (wc *WebhookController) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Ingest implements POST /webhooks/<provider>/:appId/events. It is the
// only path that writes to the raw buffer; everything else happens in
// the worker loop.
func (wc *WebhookController) Ingest(c *gin.Context) {
	appID := c.Param("appId")
	requestID := middleware.RequestIDFrom(c)

	secretHeader := "X-" + wc.Config.Provider + "-SECRET"
	provided := c.GetHeader(secretHeader)
	if !constantTimeEquals(provided, wc.Config.WebhookSecret) {
		wc.Log.Warnw("webhook auth rejected", "app_id", appID, "request_id", requestID)
		respondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	raw, err := c.GetRawData()
	if err != nil && err != io.EOF {
		wc.Log.Errorw("webhook read body failed", "app_id", appID, "error", err)
		respondError(c, "internal error", http.StatusInternalServerError)
		return
	}
	rawBody := string(raw)

	decoded, err := rawstore.ParsePayloadJSON(rawBody)
	if err != nil {
		wc.Log.Errorw("webhook parse payload failed", "app_id", appID, "error", err)
		respondError(c, "internal error", http.StatusInternalServerError)
		return
	}

	result := normalizer.Normalize(decoded)
	dedupeKey := rawstore.BuildDedupeKey(appID, result.Kind, result.Hints, rawBody)

	payloadBytes, err := json.Marshal(decoded)
	if err != nil {
		wc.Log.Errorw("webhook encode payload failed", "app_id", appID, "error", err)
		respondError(c, "internal error", http.StatusInternalServerError)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		wc.Log.Errorw("webhook missing db in context", "app_id", appID)
		respondError(c, "internal error", http.StatusInternalServerError)
		return
	}

	inserted, err := wc.Store.InsertRawEvent(db, rawstore.InsertInput{
		AppID:       appID,
		Kind:        result.Kind,
		Hints:       result.Hints,
		PayloadJSON: payloadBytes,
		DedupeKey:   dedupeKey,
	})
	if err != nil {
		wc.Log.Errorw("webhook insert failed", "app_id", appID, "error", err)
		respondError(c, "internal error", http.StatusInternalServerError)
		return
	}

	if !inserted {
		wc.Log.Infow("webhook_duplicate_ignored", "app_id", appID, "dedupe_key", dedupeKey, "request_id", requestID)
	}

	respondSuccess(c, gin.H{"ok": true})
}

func constantTimeEquals(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
