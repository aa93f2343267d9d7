package router

import (
	"strings"

	"github.com/gin-gonic/gin"

	"penelope-webhooks/config"
	"penelope-webhooks/controllers"
	"penelope-webhooks/logging"
	"penelope-webhooks/middleware"
)

// Initialize wires the two routes this service exposes: a liveness
// probe and the provider webhook ingest endpoint.
func Initialize(r *gin.Engine, cfg *config.Config, webhook *controllers.WebhookController, log *logging.Logger) {
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestID())
	r.Use(Logger(log))

	r.GET("/health", webhook.Health)

	provider := strings.ToLower(cfg.Provider)
	r.POST("/webhooks/"+provider+"/:appId/events", webhook.Ingest)

	log.Infow("routes initialized", "provider", cfg.Provider)
}
