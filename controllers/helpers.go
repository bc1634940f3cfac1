// controllers/helpers.go
package controllers

import (
	"errors"
	"net/http"

	"vaccitrack-backend/models"
	"vaccitrack-backend/services"
	"vaccitrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentIdentity rebuilds the caller's identity from the values the
// auth middleware stored on the context.
func currentIdentity(c *gin.Context) (models.Identity, bool) {
	rawID, ok := c.Get(utils.ContextUserID)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return models.Identity{}, false
	}
	userID, err := uuid.Parse(rawID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid authentication token")
		return models.Identity{}, false
	}

	rawRole, _ := c.Get(utils.ContextRole)
	role := models.Role(rawRole.(string))
	if !role.Valid() {
		utils.RespondWithError(c, http.StatusForbidden, "Unknown role")
		return models.Identity{}, false
	}

	return models.Identity{UserID: userID, Role: role}, true
}

// respondError maps service errors onto the HTTP error envelope.
func respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		utils.RespondWithError(c, svcErr.Status, svcErr.Message)
		return
	}
	utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
}

// pathUUID parses the named path parameter as a UUID.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
