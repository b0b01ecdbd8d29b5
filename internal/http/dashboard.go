package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/daybook/internal/analytics"
)

type DashboardController struct {
	analytics *analytics.Service
}

func NewDashboardController(analyticsService *analytics.Service) *DashboardController {
	return &DashboardController{analytics: analyticsService}
}

// Dashboard returns the full dashboard aggregate, recomputed from the
// current stored state.
func (ctl *DashboardController) Dashboard(c *gin.Context) {
	dashboard, err := ctl.analytics.Dashboard(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// Streak returns only the streak statistics.
func (ctl *DashboardController) Streak(c *gin.Context) {
	streak, err := ctl.analytics.Streak(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, streak)
}
