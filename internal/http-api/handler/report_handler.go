package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"libraryhub/internal/http-api/service"
)

type ReportHandler struct {
	responder
	svc service.ReportService
}

func NewReportHandler(svc service.ReportService, opts Options, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{responder: newResponder(opts, logger), svc: svc}
}

func (h *ReportHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Home)
	r.GET("/reports", h.Reports)
}

func (h *ReportHandler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, "index", gin.H{"Title": "Home"})
}

func (h *ReportHandler) Reports(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	report, err := h.svc.Summary(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "reports", gin.H{"Title": "Reports", "Report": report})
}

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// Health answers /check-conn. Checks named in required fail the probe with
// 503; the rest are reported but do not.
func Health(checks map[string]HealthCheck, required ...string) gin.HandlerFunc {
	req := make(map[string]bool, len(required))
	for _, name := range required {
		req[name] = true
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				if req[name] {
					status = http.StatusServiceUnavailable
				}
				continue
			}
			results[name] = "ok"
		}

		message := "API is alive and database connected"
		if status != http.StatusOK {
			message = "API is alive but a required dependency is down"
		}
		c.JSON(status, gin.H{"message": message, "checks": results})
	}
}
