// controllers/feedback.go
package controllers

import (
	"net/http"

	"vaccitrack-backend/config"
	"vaccitrack-backend/services"
	"vaccitrack-backend/utils"

	"github.com/gin-gonic/gin"
)

func GetFeedbacks(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	feedbacks, err := services.NewFeedbackService(config.DB).List(identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, feedbacks)
}

func GetFeedback(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	feedback, err := services.NewFeedbackService(config.DB).FindByID(identity, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, feedback)
}

func CreateFeedback(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var input services.FeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	feedback, err := services.NewFeedbackService(config.DB).Create(identity, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

type RespondFeedbackInput struct {
	Response string `json:"response" binding:"required"`
}

// RespondToFeedback records a staff reply on a feedback entry.
func RespondToFeedback(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input RespondFeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	feedback, err := services.NewFeedbackService(config.DB).Respond(identity, id, input.Response)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, feedback)
}

func DeleteFeedback(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := services.NewFeedbackService(config.DB).Delete(identity, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback deleted successfully"})
}
