// controllers/child.go
package controllers

import (
	"net/http"

	"vaccitrack-backend/config"
	"vaccitrack-backend/services"
	"vaccitrack-backend/utils"

	"github.com/gin-gonic/gin"
)

func GetChildren(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	children, err := services.NewChildService(config.DB).List(identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, children)
}

func GetChild(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	child, err := services.NewChildService(config.DB).FindByID(identity, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, child)
}

func CreateChild(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var input services.ChildInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	child, err := services.NewChildService(config.DB).Create(identity, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, child)
}

func UpdateChild(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input services.ChildInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	child, err := services.NewChildService(config.DB).Update(identity, id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, child)
}

func DeleteChild(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := services.NewChildService(config.DB).Delete(identity, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Child deleted successfully"})
}
