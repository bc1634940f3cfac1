// controllers/schedule.go
package controllers

import (
	"net/http"
	"time"

	"vaccitrack-backend/config"
	"vaccitrack-backend/models"
	"vaccitrack-backend/services"
	"vaccitrack-backend/utils"

	"github.com/gin-gonic/gin"
)

func GetSchedules(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	svc := services.NewScheduleService(config.DB)

	if status := c.Query("status"); status != "" {
		scheduleStatus := models.ScheduleStatus(status)
		if !scheduleStatus.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown schedule status: "+status)
			return
		}
		schedules, err := svc.ListByStatus(identity, scheduleStatus)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, schedules)
		return
	}

	if startStr := c.Query("start"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		end := utils.EndOfDay(start)
		if endStr := c.Query("end"); endStr != "" {
			parsed, err := time.Parse("2006-01-02", endStr)
			if err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD")
				return
			}
			end = utils.EndOfDay(parsed)
		}
		schedules, svcErr := svc.ListByDateRange(identity, utils.BeginningOfDay(start), end)
		if svcErr != nil {
			respondError(c, svcErr)
			return
		}
		c.JSON(http.StatusOK, schedules)
		return
	}

	schedules, err := svc.ListAll(identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedules)
}

func GetSchedule(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	schedule, err := services.NewScheduleService(config.DB).FindByID(identity, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

func GetSchedulesByChild(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	childID, ok := pathUUID(c, "childId")
	if !ok {
		return
	}

	schedules, err := services.NewScheduleService(config.DB).ListByChild(identity, childID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedules)
}

func GetUpcomingSchedulesByChild(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	childID, ok := pathUUID(c, "childId")
	if !ok {
		return
	}

	schedules, err := services.NewScheduleService(config.DB).ListUpcoming(identity, childID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedules)
}

func GetSchedulesByVaccine(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	vaccineID, ok := pathUUID(c, "vaccineId")
	if !ok {
		return
	}

	schedules, err := services.NewScheduleService(config.DB).ListByVaccine(identity, vaccineID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedules)
}

func CreateSchedule(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var input services.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	schedule, err := services.NewScheduleService(config.DB).Create(identity, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

func UpdateSchedule(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input services.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	schedule, err := services.NewScheduleService(config.DB).Update(identity, id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

func DeleteSchedule(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := services.NewScheduleService(config.DB).Delete(identity, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted successfully"})
}

type UpdateStatusInput struct {
	Status models.ScheduleStatus `json:"status" binding:"required"`
	Notes  string                `json:"notes"`
}

// UpdateScheduleStatus is the staff transition endpoint for the full
// status state machine.
func UpdateScheduleStatus(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	schedule, err := services.NewScheduleService(config.DB).UpdateStatus(identity, id, input.Status, input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

type CancelScheduleInput struct {
	Reason string `json:"reason"`
}

func CancelSchedule(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input CancelScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	schedule, err := services.NewScheduleService(config.DB).Cancel(identity, id, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

type CompleteScheduleInput struct {
	Notes string `json:"notes"`
}

func CompleteSchedule(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input CompleteScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	schedule, err := services.NewScheduleService(config.DB).Complete(identity, id, input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}
