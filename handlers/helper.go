package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/financelog/finance_backend/config"
	"github.com/financelog/finance_backend/middlewares"
	"github.com/financelog/finance_backend/utils"
	"github.com/gin-gonic/gin"
)

func currentUserId(c *gin.Context) int {
	return middlewares.UserId(c.Request.Context())
}

func pathId(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}

func queryDate(c *gin.Context, name string) (*utils.CalendarDate, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := utils.ParseCalendarDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return nil, false
	}
	return &parsed, true
}

// respondError maps the domain sentinels onto HTTP statuses; anything
// unrecognized is logged and reported as a plain 500.
func respondError(c *gin.Context, module string, funcName string, err error) {
	switch {
	case errors.Is(err, utils.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorConsistency):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		config.LogError(config.GetLogger(), module, funcName, c.FullPath(), nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
