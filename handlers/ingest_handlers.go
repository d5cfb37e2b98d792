// api/handlers/ingest_handlers.go
package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"panelstats/api/models"
	"panelstats/api/processor"
)

type IngestHandlers struct {
	Events EventStore
	now    func() time.Time
}

func NewIngestHandlers(events EventStore) *IngestHandlers {
	return &IngestHandlers{Events: events, now: time.Now}
}

// TrackEvents stores one uploaded interaction log and reports its metrics.
func (h *IngestHandlers) TrackEvents(c *gin.Context) {
	var req models.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Error binding incoming interaction log JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	receivedAt := h.now().UTC()
	events := make([]models.InteractionEvent, 0, len(req.Events))
	for i, entry := range req.Events {
		x, y, err := parsePositionScreen(entry.PositionScreen)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid positionScreen in event %d", i), "details": err.Error()})
			return
		}
		events = append(events, models.InteractionEvent{
			EventID:    uuid.New().String(),
			LogFile:    req.LogFile,
			Seq:        uint32(i),
			Action:     entry.Action,
			Timestamp:  entry.Time,
			PositionX:  x,
			PositionY:  y,
			ReceivedAt: receivedAt,
		})
	}

	metrics := processor.Metrics(req.LogFile, events)
	metrics.ReceivedAt = receivedAt

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if len(events) > 0 {
		if err := h.Events.InsertInteractionEvents(ctx, events); err != nil {
			log.Printf("Error inserting interaction events into ClickHouse: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record interaction events"})
			return
		}
	}

	// The events are stored at this point, so a failure here is reported
	// rather than turned into an error the panel would retry.
	metricsStored := true
	if err := h.Events.InsertLogMetrics(ctx, metrics); err != nil {
		log.Printf("Error inserting metrics of log %s: %v", req.LogFile, err)
		metricsStored = false
	}

	c.JSON(http.StatusOK, gin.H{"stored": len(events), "metrics": metrics, "metricsStored": metricsStored})
}

// parsePositionScreen reads the panel's "(x, y)" screen position. An empty
// string means the event carried no position.
func parsePositionScreen(s string) (float64, float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, nil
	}
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return 0, 0, fmt.Errorf("expected \"(x, y)\", got %q", s)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two coordinates, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad x coordinate: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad y coordinate: %w", err)
	}
	return x, y, nil
}
