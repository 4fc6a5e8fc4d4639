package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmtperez/track-my-bids/internal/service"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Metrics returns the headline pipeline rollups.
func (h *DashboardHandler) Metrics(c *gin.Context) {
	metrics, err := h.svc.Metrics(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, metrics)
}

func chartRange(c *gin.Context) service.ChartRange {
	return service.ResolveChartRange(c.Query("start"), c.Query("end"), time.Now())
}

// BidsOver returns the monthly bid count series.
func (h *DashboardHandler) BidsOver(c *gin.Context) {
	points, err := h.svc.BidsOver(c.Request.Context(), chartRange(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, points)
}

// ValueOver returns the monthly total bid value series.
func (h *DashboardHandler) ValueOver(c *gin.Context) {
	points, err := h.svc.ValueOver(c.Request.Context(), chartRange(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, points)
}

// ScopeTotals returns won value broken down by scope name.
func (h *DashboardHandler) ScopeTotals(c *gin.Context) {
	rows, err := h.svc.ScopeTotals(c.Request.Context(), chartRange(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	Success(c, rows)
}
