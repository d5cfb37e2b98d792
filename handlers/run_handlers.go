package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"panelstats/api/middleware"
	"panelstats/api/models"
	"panelstats/api/processor"
	"panelstats/api/report"
	"panelstats/api/store"
	"panelstats/api/utils"
)

type RunHandlers struct {
	Events            EventStore
	Tables            TableStore
	Runs              RunStore
	RecordContentOpen bool
	now               func() time.Time
}

func NewRunHandlers(events EventStore, tables TableStore, runs RunStore, recordContentOpen bool) *RunHandlers {
	return &RunHandlers{
		Events:            events,
		Tables:            tables,
		Runs:              runs,
		RecordContentOpen: recordContentOpen,
		now:               time.Now,
	}
}

func machineOptions(recordContentOpen bool) []processor.Option {
	if recordContentOpen {
		return []processor.Option{processor.WithContentOpenActions()}
	}
	return nil
}

// CreateRun segments the stored events of a time window and persists the
// resulting visit and action tables.
func (h *RunHandlers) CreateRun(c *gin.Context) {
	var req models.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	start, end, err := utils.ParseNamedTimeRange("from", req.From, "to", req.To, h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	events, err := h.Events.ListInteractionEvents(ctx, start, end)
	if err != nil {
		log.Printf("Error loading interaction events for run: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load interaction events"})
		return
	}

	sessions := processor.Segment(events, machineOptions(h.RecordContentOpen)...)
	visits, actions := processor.Flatten(sessions)

	run := &models.Run{
		ID:                uuid.New().String(),
		From:              start,
		To:                end,
		EventCount:        len(events),
		SessionCount:      len(sessions),
		VisitCount:        len(visits),
		ActionCount:       len(actions),
		RecordContentOpen: h.RecordContentOpen,
	}
	if id, ok := c.Get(middleware.OperatorIDKey); ok {
		if operatorID, ok := id.(int); ok {
			run.CreatedBy = &operatorID
		}
	}

	// Tables are only reachable through their run row, so a run that fails
	// to record takes its tables with it.
	if err := h.Tables.InsertTables(ctx, run.ID, visits, actions); err != nil {
		log.Printf("Error storing tables for run %s: %v", run.ID, err)
		h.discardTables(ctx, run.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store session tables"})
		return
	}

	if err := h.Runs.CreateRun(ctx, run); err != nil {
		log.Printf("Error recording run %s: %v", run.ID, err)
		h.discardTables(ctx, run.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record processing run"})
		return
	}

	c.JSON(http.StatusCreated, run)
}

// discardTables runs on its own deadline so that cleanup still happens when
// the request context is what failed.
func (h *RunHandlers) discardTables(ctx context.Context, runID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := h.Tables.DeleteTables(ctx, runID); err != nil {
		log.Printf("Error discarding tables of failed run %s: %v", runID, err)
	}
}

func (h *RunHandlers) ListRuns(c *gin.Context) {
	limit := 50
	if limitParam := c.Query("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter. Must be a positive integer."})
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	runs, err := h.Runs.ListRuns(ctx, limit)
	if err != nil {
		log.Printf("Error listing processing runs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list processing runs"})
		return
	}
	c.JSON(http.StatusOK, runs)
}

// lookupRun writes the error response itself and returns nil when the run
// cannot be served.
func (h *RunHandlers) lookupRun(ctx context.Context, c *gin.Context) *models.Run {
	// run ids are uuids; anything else cannot name a run
	if _, err := uuid.Parse(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Processing run not found"})
		return nil
	}
	run, err := h.Runs.GetRun(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Processing run not found"})
			return nil
		}
		log.Printf("Error getting processing run %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get processing run"})
		return nil
	}
	return run
}

func (h *RunHandlers) GetRun(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if run := h.lookupRun(ctx, c); run != nil {
		c.JSON(http.StatusOK, run)
	}
}

func (h *RunHandlers) ExportVisits(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	run := h.lookupRun(ctx, c)
	if run == nil {
		return
	}
	rows, err := h.Tables.GetVisitRows(ctx, run.ID)
	if err != nil {
		log.Printf("Error loading visit rows for run %s: %v", run.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load visit table"})
		return
	}

	setCSVHeaders(c, fmt.Sprintf("visits_%s.csv", run.ID))
	if err := report.WriteVisits(c.Writer, rows); err != nil {
		log.Printf("Error writing visit CSV for run %s: %v", run.ID, err)
	}
}

func (h *RunHandlers) ExportActions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	run := h.lookupRun(ctx, c)
	if run == nil {
		return
	}
	rows, err := h.Tables.GetActionRows(ctx, run.ID)
	if err != nil {
		log.Printf("Error loading action rows for run %s: %v", run.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load action table"})
		return
	}

	setCSVHeaders(c, fmt.Sprintf("actions_%s.csv", run.ID))
	if err := report.WriteActions(c.Writer, rows); err != nil {
		log.Printf("Error writing action CSV for run %s: %v", run.ID, err)
	}
}

func setCSVHeaders(c *gin.Context, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
}

func (h *RunHandlers) GetItemStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	run := h.lookupRun(ctx, c)
	if run == nil {
		return
	}
	stats, err := h.Tables.GetItemStats(ctx, run.ID)
	if err != nil {
		log.Printf("Error getting item stats for run %s: %v", run.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve item statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *RunHandlers) GetSessionStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	run := h.lookupRun(ctx, c)
	if run == nil {
		return
	}
	stats, err := h.Tables.GetSessionStats(ctx, run.ID)
	if err != nil {
		log.Printf("Error getting session stats for run %s: %v", run.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type segmentRequest struct {
	Events            []models.SegmentEvent `json:"events" binding:"dive"`
	RecordContentOpen bool                  `json:"recordContentOpen"`
}

// Segment runs the machine over the posted events without storing anything.
func (h *RunHandlers) Segment(c *gin.Context) {
	var req segmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	m := processor.NewMachine(machineOptions(req.RecordContentOpen)...)
	for _, ev := range req.Events {
		m.Feed(ev.Action, ev.Timestamp)
	}
	sessions := m.Sessions()
	visits, actions := processor.Flatten(sessions)

	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"visits":   visits,
		"actions":  actions,
	})
}
