// Package handler exposes the threat service over HTTP and carries the
// cross-cutting middleware: API-key auth, per-IP rate limiting, and
// Prometheus metrics.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pocketsiem/pocketsiem/internal/reputation"
	"github.com/pocketsiem/pocketsiem/internal/siem/model"
	"github.com/pocketsiem/pocketsiem/internal/siem/service"
	"go.uber.org/zap"
)

// ThreatHandler handles HTTP requests for the threat API.
type ThreatHandler struct {
	svc    *service.ThreatService
	logger *zap.Logger
}

// NewThreatHandler creates a new ThreatHandler.
func NewThreatHandler(svc *service.ThreatService, logger *zap.Logger) *ThreatHandler {
	return &ThreatHandler{svc: svc, logger: logger}
}

// Register registers all threat routes on the given router group.
func (h *ThreatHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/reputation", h.CheckReputation)
	rg.POST("/report", h.SubmitReport)

	reports := rg.Group("/reports")
	{
		reports.GET("/ip/:ip", h.ReportsForIP)
		reports.GET("/ip/:ip/count", h.RecentReportCount)
		reports.GET("/app/:app", h.ReportsForApp)
	}

	rg.GET("/device-stats", h.DeviceStats)
	rg.GET("/attack-surface", h.AttackSurface)
	rg.GET("/live-connections", h.LiveConnections)
}

// CheckReputation handles GET /reputation?ip= — returns the reputation
// verdict for one IP. Malformed IPs are rejected before the core is
// consulted; provider failures map to 502 so the client may retry.
func (h *ThreatHandler) CheckReputation(c *gin.Context) {
	ip := c.Query("ip")
	if !model.ValidIP(ip) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid IP address"})
		return
	}

	rec, err := h.svc.CheckReputation(c.Request.Context(), ip)
	if err != nil {
		h.logger.Error("reputation check", zap.String("ip", ip), zap.Error(err))
		if errors.Is(err, reputation.ErrProviderUnavailable) || errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "reputation provider unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reputation check failed"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// SubmitReport handles POST /report — stores a new threat report.
func (h *ThreatHandler) SubmitReport(c *gin.Context) {
	var req model.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.svc.SubmitReport(c.Request.Context(), &req)
	if err != nil {
		var valErr *model.ErrValidation
		if errors.As(err, &valErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": valErr.Msg})
			return
		}
		h.logger.Error("submit report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store report"})
		return
	}
	RecordReportIngested()
	c.JSON(http.StatusCreated, report)
}

// ReportsForIP handles GET /reports/ip/:ip — all reports for an IP,
// newest first.
func (h *ThreatHandler) ReportsForIP(c *gin.Context) {
	ip := c.Param("ip")
	if !model.ValidIP(ip) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid IP address"})
		return
	}

	reports, err := h.svc.ReportsForIP(c.Request.Context(), ip)
	if err != nil {
		h.logger.Error("reports for ip", zap.String("ip", ip), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// RecentReportCount handles GET /reports/ip/:ip/count — the number of
// reports for an IP within the trailing 24 hours.
func (h *ThreatHandler) RecentReportCount(c *gin.Context) {
	ip := c.Param("ip")
	if !model.ValidIP(ip) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid IP address"})
		return
	}

	n, err := h.svc.RecentReportCount(c.Request.Context(), ip)
	if err != nil {
		h.logger.Error("recent report count", zap.String("ip", ip), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ip": ip, "count": n})
}

// ReportsForApp handles GET /reports/app/:app.
func (h *ThreatHandler) ReportsForApp(c *gin.Context) {
	app := c.Param("app")
	reports, err := h.svc.ReportsForApp(c.Request.Context(), app)
	if err != nil {
		h.logger.Error("reports for app", zap.String("app", app), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// DeviceStats handles GET /device-stats.
func (h *ThreatHandler) DeviceStats(c *gin.Context) {
	stats, err := h.svc.DeviceStats(c.Request.Context())
	if err != nil {
		h.logger.Error("device stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats computation failed"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AttackSurface handles GET /attack-surface.
func (h *ThreatHandler) AttackSurface(c *gin.Context) {
	points, err := h.svc.AttackSurface(c.Request.Context())
	if err != nil {
		h.logger.Error("attack surface", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "aggregation failed"})
		return
	}
	c.JSON(http.StatusOK, points)
}

// LiveConnections handles GET /live-connections.
func (h *ThreatHandler) LiveConnections(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.LiveConnections())
}
