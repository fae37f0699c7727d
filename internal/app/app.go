package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/markoori/variant-backend/internal/auth"
	redisclient "github.com/markoori/variant-backend/internal/clients/redis"
	"github.com/markoori/variant-backend/internal/db"
	apphttp "github.com/markoori/variant-backend/internal/http"
	"github.com/markoori/variant-backend/internal/http/handlers"
	"github.com/markoori/variant-backend/internal/http/middleware"
	"github.com/markoori/variant-backend/internal/platform/logger"
	"github.com/markoori/variant-backend/internal/repos"
	"github.com/markoori/variant-backend/internal/services"
)

type Repos struct {
	Experiments repos.ExperimentRepo
	Events      repos.EventRepo
}

type Services struct {
	Assignment  services.AssignmentService
	Tracking    services.TrackingService
	Experiments services.ExperimentService
	Reporting   services.ReportingService
}

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Mongo    *db.MongoService
	Cache    *redisclient.ConfigCache
	Router   *gin.Engine
	Repos    Repos
	Services Services
}

// New wires the whole dependency graph once at startup: config, store,
// optional cache, repos, services, handlers, router. Nothing is created
// lazily per request.
func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg := LoadConfig()

	mongoSvc, err := db.NewMongoService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init mongo: %w", err)
	}
	if err := mongoSvc.EnsureIndexes(context.Background()); err != nil {
		log.Sync()
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}

	cache, err := redisclient.NewConfigCache(log)
	if err != nil {
		log.Warn("Config cache unavailable, continuing without it", "error", err)
		cache = nil
	}

	reposet := Repos{
		Experiments: repos.NewExperimentRepo(mongoSvc.DB(), log),
		Events:      repos.NewEventRepo(mongoSvc.DB(), log),
	}

	// A nil *ConfigCache must stay a nil interface for the services.
	var activeCache services.ActiveExperimentCache
	if cache != nil {
		activeCache = cache
	}

	serviceset := Services{
		Assignment:  services.NewAssignmentService(log, reposet.Experiments, activeCache),
		Tracking:    services.NewTrackingService(log, reposet.Events),
		Experiments: services.NewExperimentService(log, reposet.Experiments, activeCache),
		Reporting:   services.NewReportingService(log, reposet.Experiments, reposet.Events),
	}

	authorizer := auth.NewSecretAuthorizer(log, cfg.AdminSecret, cfg.AdminSecretHash)

	router := apphttp.NewRouter(apphttp.RouterConfig{
		AdminAuthMiddleware: middleware.NewAdminAuthMiddleware(log, authorizer),
		HealthHandler:       handlers.NewHealthHandler(),
		ConfigHandler:       handlers.NewConfigHandler(serviceset.Assignment),
		TrackHandler:        handlers.NewTrackHandler(serviceset.Tracking),
		AdminHandler:        handlers.NewAdminHandler(serviceset.Experiments, serviceset.Reporting, authorizer),
	})

	return &App{
		Log:      log,
		Cfg:      cfg,
		Mongo:    mongoSvc,
		Cache:    cache,
		Router:   router,
		Repos:    reposet,
		Services: serviceset,
	}, nil
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Log.Warn("redis close failed", "error", err)
		}
	}
	if a.Mongo != nil {
		if err := a.Mongo.Close(ctx); err != nil {
			a.Log.Warn("mongo disconnect failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
