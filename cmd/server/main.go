package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/opendash/opendash-server/internal/activity"
	"github.com/opendash/opendash-server/internal/auth"
	"github.com/opendash/opendash-server/internal/config"
	"github.com/opendash/opendash-server/internal/database"
	"github.com/opendash/opendash-server/internal/handler"
	"github.com/opendash/opendash-server/internal/harness"
	"github.com/opendash/opendash-server/internal/queue"
	"github.com/opendash/opendash-server/internal/repository"
	"github.com/opendash/opendash-server/internal/router"
	queue_publisher "github.com/opendash/opendash-server/internal/service"
)

func main() {
	// .env is a development convenience; in production the variables
	// come from the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	agents := repository.NewAgentRepo(db)
	files := repository.NewFileRepo(db)
	harnesses := repository.NewHarnessRepo(db)
	activities := repository.NewActivityRepo(db)

	recorder := activity.NewRecorder(activities)
	recorder.Publish = queue_publisher.PublishAgentActivity

	resolver := auth.NewResolver(agents, cfg.SessionSecret, cfg.SessionCookieName)
	provider := harness.NewProvider(harnesses)

	// Background consumer mirrors audit events into a tail-able log
	// file; it reconnects forever and never takes the server down.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e, router.Handlers{
		Files:   handler.NewFileHandler(files, provider, recorder),
		Agents:  handler.NewAgentHandler(agents, activities),
		Harness: handler.NewHarnessHandler(provider),
	}, resolver, config.LoadRateLimitConfig(), config.NewRedisClient())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
