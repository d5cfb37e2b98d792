// api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"panelstats/api/config"
	"panelstats/api/database"
	"panelstats/api/handlers"
	"panelstats/api/store"
	"panelstats/api/utils"
)

const tokenTTL = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		log.Fatalf("JWT_SECRET_KEY must be set")
	}

	// --- PostgreSQL: operators and processing runs ---
	dbClient, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- ClickHouse: raw interaction log and session tables ---
	chClient, err := database.NewClickHouseDB(cfg.ClickHouse)
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	operatorStore := store.NewOperatorStore(dbClient.DB)
	runStore := store.NewRunStore(dbClient.DB)
	eventStore := store.NewEventStore(chClient)
	tableStore := store.NewTableStore(chClient)

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, tokenTTL)

	r := handlers.NewRouter(handlers.RouterConfig{
		Auth:        handlers.NewAuthHandlers(operatorStore, tokens, tokenTTL),
		Ingest:      handlers.NewIngestHandlers(eventStore),
		Runs:        handlers.NewRunHandlers(eventStore, tableStore, runStore, cfg.RecordContentOpen),
		Stats:       handlers.NewStatsHandlers(eventStore),
		Tokens:      tokens,
		PanelAPIKey: cfg.PanelAPIKey,
		FEOrigin:    cfg.FEOrigin,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Panel stats API starting on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Panel stats API failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
