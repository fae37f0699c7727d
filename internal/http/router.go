package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/markoori/variant-backend/internal/http/handlers"
	httpMW "github.com/markoori/variant-backend/internal/http/middleware"
)

type RouterConfig struct {
	AdminAuthMiddleware *httpMW.AdminAuthMiddleware

	HealthHandler *httpH.HealthHandler
	ConfigHandler *httpH.ConfigHandler
	TrackHandler  *httpH.TrackHandler
	AdminHandler  *httpH.AdminHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS())
	r.Use(otelgin.Middleware("variant-backend"))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/", cfg.HealthHandler.Root)
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Client surface (public)
		if cfg.ConfigHandler != nil {
			api.GET("/config", cfg.ConfigHandler.GetConfig)
		}
		if cfg.TrackHandler != nil {
			api.POST("/track", cfg.TrackHandler.Track)
		}
		// Login is ungated: it IS the credential check.
		if cfg.AdminHandler != nil {
			api.POST("/admin/login", cfg.AdminHandler.Login)
		}
	}

	if cfg.AdminHandler != nil {
		gate := cfg.AdminAuthMiddleware.RequireAdmin()

		api.POST("/experiments", gate, cfg.AdminHandler.CreateExperiment)

		admin := api.Group("/admin")
		admin.Use(gate)
		admin.GET("/experiments", cfg.AdminHandler.ListExperiments)
		admin.PUT("/experiments/:key", cfg.AdminHandler.UpdateExperiment)
		admin.DELETE("/experiments/:key", cfg.AdminHandler.DeleteExperiment)
		admin.DELETE("/stats/:key", cfg.AdminHandler.ResetStats)
		admin.GET("/summary/:key", cfg.AdminHandler.Summary)
	}

	return r
}
