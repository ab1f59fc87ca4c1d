package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/mkovacevic/qrel-judge/internal/docsrc"
	"github.com/mkovacevic/qrel-judge/internal/loader"
	"github.com/mkovacevic/qrel-judge/internal/router"
	"github.com/mkovacevic/qrel-judge/internal/server"
	"github.com/mkovacevic/qrel-judge/internal/session"
	"github.com/mkovacevic/qrel-judge/internal/storage/factory"
	pkgserver "github.com/mkovacevic/qrel-judge/pkg/server"
	"github.com/mkovacevic/qrel-judge/web"
)

func main() {
	ctx := context.Background()

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	store, err := factory.NewStore(ctx, cfg.Storage)
	if err != nil {
		slog.Error("Failed to create durable store", "type", cfg.Storage.Type, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Loader failures are fatal: no partial UI is ever served.
	questions, err := loader.Topics(cfg.Topics)
	if err != nil {
		slog.Error("Failed to load topics", "source", cfg.Topics, "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded topics", "count", len(questions))

	candidates, err := loader.Pool(cfg.Pool)
	if err != nil {
		slog.Error("Failed to load relevance pool", "source", cfg.Pool, "error", err)
		os.Exit(1)
	}

	locations, err := loader.Mapping(cfg.Mapping)
	if err != nil {
		slog.Error("Failed to load document mapping", "source", cfg.Mapping, "error", err)
		os.Exit(1)
	}

	sess := session.New(questions, candidates, locations, store)
	if err := sess.Init(ctx); err != nil {
		slog.Error("Failed to initialize session", "error", err)
		os.Exit(1)
	}
	slog.Info("Session ready",
		"session", sess.ID,
		"active_questions", sess.State().Progress.QuestionCount)

	e := echo.New()
	e.HideBanner = true

	s := server.NewServer(e, sCfg)

	// Backends with a live connection report through it; the file and
	// in-memory stores have nothing to probe.
	hc := pkgserver.HealthChecker(pkgserver.NewOkHealthChecker())
	if p, ok := store.(interface{ Ping(context.Context) error }); ok {
		hc = pkgserver.HealthFunc(func(ctx context.Context) bool {
			return p.Ping(ctx) == nil
		})
	}
	e.GET("/healthz", func(c echo.Context) error {
		if !hc.Healthy(c.Request().Context()) {
			return c.String(http.StatusServiceUnavailable, "unhealthy")
		}
		return c.String(http.StatusOK, "ok")
	})

	judgeRouter := router.NewJudgeRouter(e, sess, docsrc.New(cfg.DocsDir))
	judgeRouter.Bind()

	e.StaticFS("/", echo.MustSubFS(web.Static, "static"))

	if err := s.Start(); err != nil {
		e.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
