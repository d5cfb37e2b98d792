package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"panelstats/api/models"
	"panelstats/api/processor"
	"panelstats/api/report"
	"panelstats/api/utils"
)

type StatsHandlers struct {
	Events EventStore
	now    func() time.Time
}

func NewStatsHandlers(events EventStore) *StatsHandlers {
	return &StatsHandlers{Events: events, now: time.Now}
}

// GetEventCountsOverTime reports how many interaction events were received
// per interval bucket, optionally only for actions with a given prefix.
func (h *StatsHandlers) GetEventCountsOverTime(c *gin.Context) {
	interval := c.Query("interval")
	if !utils.IsValidInterval(interval) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval query parameter is required (e.g., 'Day', 'Hour')"})
		return
	}

	start, end, err := utils.ParseTimeRange(c.Query("start"), c.Query("end"), h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := h.Events.GetEventCountsOverTime(ctx, interval, start, end, c.Query("actionPrefix"))
	if err != nil {
		log.Printf("Error getting event counts over time: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event statistics"})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *StatsHandlers) listLogMetrics(c *gin.Context) ([]models.LogMetrics, bool) {
	start, end, err := utils.ParseTimeRange(c.Query("start"), c.Query("end"), h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	logs, err := h.Events.ListLogMetrics(ctx, start, end)
	if err != nil {
		log.Printf("Error listing log metrics: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve log metrics"})
		return nil, false
	}
	return logs, true
}

// GetLogSummary counts the logs uploaded in the window by completeness and
// reports their average duration.
func (h *StatsHandlers) GetLogSummary(c *gin.Context) {
	logs, ok := h.listLogMetrics(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, processor.SummarizeLogs(logs))
}

func (h *StatsHandlers) ExportLogMetrics(c *gin.Context) {
	logs, ok := h.listLogMetrics(c)
	if !ok {
		return
	}

	setCSVHeaders(c, fmt.Sprintf("logs_metrics_%s.csv", h.now().UTC().Format("20060102")))
	if err := report.WriteLogMetrics(c.Writer, logs); err != nil {
		log.Printf("Error writing log metrics CSV: %v", err)
	}
}
