// controllers/report.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"vaccitrack-backend/config"
	"vaccitrack-backend/services"
	"vaccitrack-backend/utils"

	"github.com/gin-gonic/gin"
)

// reportRange reads the optional start/end query parameters, defaulting
// to the last 30 days.
func reportRange(c *gin.Context) (time.Time, time.Time, bool) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if startStr := c.Query("start"); startStr != "" {
		parsed, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		start = utils.BeginningOfDay(parsed)
	}
	if endStr := c.Query("end"); endStr != "" {
		parsed, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		end = utils.EndOfDay(parsed)
	}

	if end.Before(start) {
		utils.RespondWithError(c, http.StatusBadRequest, "End date must not be before start date")
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}

func GetScheduleReport(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	start, end, ok := reportRange(c)
	if !ok {
		return
	}

	report, err := services.NewReportService(config.DB).ScheduleReport(identity, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func GetVaccineReport(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	report, err := services.NewReportService(config.DB).VaccineReport(identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func GetRevenueReport(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	start, end, ok := reportRange(c)
	if !ok {
		return
	}

	report, err := services.NewReportService(config.DB).RevenueReport(identity, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func GetCustomerReport(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	report, err := services.NewReportService(config.DB).CustomerReport(identity, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func GetReactionReport(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	report, err := services.NewReportService(config.DB).ReactionReport(identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func GetComprehensiveReport(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	start, end, ok := reportRange(c)
	if !ok {
		return
	}

	report, err := services.NewReportService(config.DB).ComprehensiveReport(identity, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
