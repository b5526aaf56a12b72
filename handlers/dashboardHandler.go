package handlers

import (
	"net/http"
	"time"

	"github.com/financelog/finance_backend/models"
	"github.com/financelog/finance_backend/utils"
	"github.com/gin-gonic/gin"
)

func DashboardHandler(c *gin.Context) {
	today := utils.CalendarDateOf(time.Now().UTC())
	summary, err := models.GetDashboardSummary(c.Request.Context(), currentUserId(c), today)
	if err != nil {
		respondError(c, "dashboardHandler.go", "DashboardHandler", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
