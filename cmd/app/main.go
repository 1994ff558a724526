package main

import (
	"context"
	"errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"net/http"
	"time"
	"tripplanner/cmd/fx/backend_fx"
	"tripplanner/cmd/fx/config_fx"
	"tripplanner/cmd/fx/controllers_fx"
	"tripplanner/cmd/fx/db_fx"
	"tripplanner/cmd/fx/history_fx"
	"tripplanner/cmd/fx/planner_fx"
	"tripplanner/cmd/fx/pricing_fx"
	"tripplanner/cmd/fx/session_fx"
	"tripplanner/internal/api/controllers"
	"tripplanner/internal/infra"
	"tripplanner/internal/view"
	"tripplanner/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		db_fx.Module,
		backend_fx.Module,
		pricing_fx.Module,
		history_fx.Module,
		planner_fx.Module,
		session_fx.Module,
		controllers_fx.Module,

		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *infra.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *infra.Config,
	logger *zap.Logger,
	plannerController *controllers.PlannerController,
	historyController *controllers.HistoryController) (*gin.Engine, error) {

	tmpl, err := view.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	RegisterRoutes(r, cfg, logger, plannerController, historyController)

	return r, nil
}

func RegisterRoutes(r *gin.Engine,
	cfg *infra.Config,
	logger *zap.Logger,
	plannerController *controllers.PlannerController,
	historyController *controllers.HistoryController) {

	r.GET("/healthz", controllers.Health)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerSec, cfg.RateLimitBurst)
	session := middleware.SessionMiddleware(cfg.SessionSecret, cfg.SessionTTL, logger)

	planner := r.Group("/", session)
	planner.GET("/", plannerController.Index)
	planner.GET("/api/trip/state", plannerController.GetState)
	planner.GET("/api/trip/searches", historyController.ListRecentSearches)

	tripGroup := r.Group("/trip", session)
	tripGroup.POST("/validate", plannerController.ValidateForm)
	tripGroup.POST("/submit", limiter.Limit(), plannerController.SubmitQuery)
	tripGroup.POST("/select", limiter.Limit(), plannerController.SelectDestination)
	tripGroup.POST("/reset", plannerController.Reset)
}
