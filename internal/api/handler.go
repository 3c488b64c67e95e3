package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/tamis/internal/broadcast"
	"github.com/mr1hm/tamis/internal/logging"
	"github.com/mr1hm/tamis/internal/models"
	"github.com/mr1hm/tamis/internal/report"
	"github.com/mr1hm/tamis/internal/repository"
	"github.com/mr1hm/tamis/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DashboardService is the read side the handlers need.
type DashboardService interface {
	Dashboard(ctx context.Context) (*service.Report, error)
	Alerts(ctx context.Context, typ *models.AlertType, level *models.AlertLevel) ([]models.Alert, error)
	Snapshot(ctx context.Context) (*models.Snapshot, error)
	Counts(ctx context.Context) (repository.Counts, error)
}

type Handler struct {
	svc         DashboardService
	broadcaster *broadcast.Broadcaster
}

func NewHandler(svc DashboardService, broadcaster *broadcast.Broadcaster) *Handler {
	return &Handler{
		svc:         svc,
		broadcaster: broadcaster,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/summary", h.getSummary)
	api.GET("/summary/:domain", h.getDomainSummary)
	api.GET("/alerts", h.getAlerts)
	api.GET("/alerts/stream", h.streamAlerts)
	api.GET("/map/:layer", h.getMapLayer)
	api.GET("/reports/summary.xlsx", h.getReport)
}

func (h *Handler) health(c *gin.Context) {
	counts, err := h.svc.Counts(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"counts": counts,
	})
}

func (h *Handler) getSummary(c *gin.Context) {
	r, ok := h.dashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) getDomainSummary(c *gin.Context) {
	domain := c.Param("domain")
	switch domain {
	case "population", "safe-zones", "communication", "field-units", "aid-routes":
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown domain %q", domain)})
		return
	}

	r, ok := h.dashboard(c)
	if !ok {
		return
	}

	var body any
	switch domain {
	case "population":
		body = r.Population
	case "safe-zones":
		body = r.SafeZones
	case "communication":
		body = r.Communication
	case "field-units":
		body = r.FieldUnits
	case "aid-routes":
		body = r.AidRoutes
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handler) getAlerts(c *gin.Context) {
	var (
		typ   *models.AlertType
		level *models.AlertLevel
	)
	if t := c.Query("type"); t != "" {
		at, ok := models.ParseAlertType(t)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid alert type %q", t)})
			return
		}
		typ = &at
	}
	if l := c.Query("level"); l != "" {
		al, ok := models.ParseAlertLevel(l)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid alert level %q", l)})
			return
		}
		level = &al
	}

	alerts, err := h.svc.Alerts(c.Request.Context(), typ, level)
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("error collecting alerts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to collect alerts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

func (h *Handler) getMapLayer(c *gin.Context) {
	build, ok := layers[c.Param("layer")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown layer %q", c.Param("layer"))})
		return
	}

	snap, err := h.svc.Snapshot(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("error loading snapshot", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load map layer"})
		return
	}

	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, build(snap))
}

func (h *Handler) getReport(c *gin.Context) {
	r, ok := h.dashboard(c)
	if !ok {
		return
	}

	b, err := report.Generate(&r.Dashboard, r.GeneratedAt)
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("error generating report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}

	filename := fmt.Sprintf("tamis-summary-%s.xlsx", r.GeneratedAt.Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, b)
}

func (h *Handler) dashboard(c *gin.Context) (*service.Report, bool) {
	r, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("error building dashboard", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
		return nil, false
	}
	return r, true
}
