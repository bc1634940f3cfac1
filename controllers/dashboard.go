// controllers/dashboard.go
package controllers

import (
	"net/http"
	"time"

	"vaccitrack-backend/config"
	"vaccitrack-backend/models"
	"vaccitrack-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetDashboard returns the quick counters the staff landing page shows:
// today's appointments, pending work and open severe reactions.
func GetDashboard(c *gin.Context) {
	now := time.Now()
	todayStart := utils.BeginningOfDay(now)
	todayEnd := utils.EndOfDay(now)

	var todayCount, pendingCount, upcomingWeek, severeOpen int64
	var customers, children int64

	db := config.DB

	if err := db.Model(&models.Schedule{}).
		Where("schedule_date BETWEEN ? AND ? AND status NOT IN ?",
			todayStart, todayEnd, []models.ScheduleStatus{models.ScheduleCancelled, models.ScheduleMissed}).
		Count(&todayCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	db.Model(&models.Schedule{}).
		Where("status = ?", models.SchedulePending).
		Count(&pendingCount)

	db.Model(&models.Schedule{}).
		Where("schedule_date BETWEEN ? AND ? AND status NOT IN ?",
			now, now.AddDate(0, 0, 7), []models.ScheduleStatus{models.ScheduleCancelled, models.ScheduleMissed}).
		Count(&upcomingWeek)

	db.Model(&models.Reaction{}).
		Where("resolved = ? AND severity >= ?", false, models.SevereReactionThreshold).
		Count(&severeOpen)

	db.Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count(&customers)
	db.Model(&models.Child{}).Count(&children)

	var unpaidOrders int64
	db.Model(&models.Order{}).Where("paid = ?", false).Count(&unpaidOrders)

	c.JSON(http.StatusOK, gin.H{
		"todaySchedules":            todayCount,
		"pendingSchedules":          pendingCount,
		"upcomingWeekSchedules":     upcomingWeek,
		"unresolvedSevereReactions": severeOpen,
		"totalCustomers":            customers,
		"totalChildren":             children,
		"unpaidOrders":              unpaidOrders,
	})
}
