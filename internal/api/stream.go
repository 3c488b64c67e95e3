package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/tamis/internal/broadcast"
	"github.com/mr1hm/tamis/internal/logging"
)

var keepAliveInterval = 25 * time.Second

// streamAlerts sends the current alert sequence, then one event per reseed
// until the client disconnects or the broadcaster closes.
func (h *Handler) streamAlerts(c *gin.Context) {
	if h.broadcaster == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "alert stream unavailable"})
		return
	}

	ctx := c.Request.Context()
	log := logging.FromContext(ctx)

	id, ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	r, err := h.svc.Dashboard(ctx)
	if err != nil {
		log.Error("error collecting alerts for stream", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to collect alerts"})
		return
	}

	log.Info("alert stream opened", "subscriber", id)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	// the first event is stamped with the time the current report was built
	c.SSEvent("alerts", broadcast.Batch{
		Alerts:     r.Alerts,
		SeededAt:   r.GeneratedAt,
		AlertCount: len(r.Alerts),
	})
	c.Writer.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case batch, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("alerts", batch)
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", t.UTC().Format(time.RFC3339))
			return true
		}
	})

	log.Info("alert stream closed", "subscriber", id)
}
