// controllers/reaction.go
package controllers

import (
	"net/http"

	"vaccitrack-backend/config"
	"vaccitrack-backend/services"
	"vaccitrack-backend/utils"

	"github.com/gin-gonic/gin"
)

func GetReactions(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	reactions, err := services.NewReactionService(config.DB).List(identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reactions)
}

func GetReaction(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	reaction, err := services.NewReactionService(config.DB).FindByID(identity, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reaction)
}

// GetUnresolvedSevereReactions lists open reactions at or above the
// severe threshold, for the staff follow-up queue.
func GetUnresolvedSevereReactions(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	reactions, err := services.NewReactionService(config.DB).ListUnresolvedSevere(identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reactions)
}

func CreateReaction(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var input services.ReactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	reaction, err := services.NewReactionService(config.DB).Create(identity, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reaction)
}

func UpdateReaction(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input services.ReactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	reaction, err := services.NewReactionService(config.DB).Update(identity, id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reaction)
}

type ResolveReactionInput struct {
	Notes string `json:"notes"`
}

func ResolveReaction(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input ResolveReactionInput
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	reaction, err := services.NewReactionService(config.DB).Resolve(identity, id, input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reaction)
}

func DeleteReaction(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := services.NewReactionService(config.DB).Delete(identity, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reaction deleted successfully"})
}
