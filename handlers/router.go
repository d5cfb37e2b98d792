package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"panelstats/api/middleware"
	"panelstats/api/utils"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Auth        *AuthHandlers
	Ingest      *IngestHandlers
	Runs        *RunHandlers
	Stats       *StatsHandlers
	Tokens      *utils.TokenIssuer
	PanelAPIKey string
	FEOrigin    string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.FEOrigin))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/signup", cfg.Auth.Signup)
		api.POST("/login", cfg.Auth.Login)
		api.POST("/logout", cfg.Auth.Logout)

		// panels upload with their API key, operators with a JWT
		api.POST("/track", middleware.AuthRequired(cfg.Tokens, cfg.PanelAPIKey), cfg.Ingest.TrackEvents)

		protected := api.Group("/")
		protected.Use(middleware.AuthRequired(cfg.Tokens, ""))
		{
			protected.POST("/segment", cfg.Runs.Segment)

			runs := protected.Group("/runs")
			{
				runs.POST("", cfg.Runs.CreateRun)
				runs.GET("", cfg.Runs.ListRuns)
				runs.GET("/:id", cfg.Runs.GetRun)
				runs.GET("/:id/visits.csv", cfg.Runs.ExportVisits)
				runs.GET("/:id/actions.csv", cfg.Runs.ExportActions)
				runs.GET("/:id/stats/items", cfg.Runs.GetItemStats)
				runs.GET("/:id/stats/sessions", cfg.Runs.GetSessionStats)
			}

			protected.GET("/stats/event-counts", cfg.Stats.GetEventCountsOverTime)
			protected.GET("/stats/logs", cfg.Stats.GetLogSummary)
			protected.GET("/stats/logs.csv", cfg.Stats.ExportLogMetrics)
		}
	}

	return r
}
