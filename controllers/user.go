// controllers/user.go
package controllers

import (
	"errors"
	"net/http"

	"vaccitrack-backend/config"
	"vaccitrack-backend/models"
	"vaccitrack-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Admin-only account management. Route-level role checks gate these, so
// the handlers stay thin over the users table.

func GetUsers(c *gin.Context) {
	var users []models.User

	query := config.DB.Order("created_at DESC")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	if err := query.Find(&users).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, users)
}

func GetUser(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.Preload("Children").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

func setUserEnabled(c *gin.Context, enabled bool) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	// An admin cannot lock themselves out.
	if !enabled && identity.Owns(id) {
		utils.RespondWithError(c, http.StatusBadRequest, "You cannot disable your own account")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Model(&user).Update("enabled", enabled).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	user.Enabled = enabled
	c.JSON(http.StatusOK, user)
}

func EnableUser(c *gin.Context) {
	setUserEnabled(c, true)
}

func DisableUser(c *gin.Context) {
	setUserEnabled(c, false)
}

type UpdateRoleInput struct {
	Role models.Role `json:"role" binding:"required"`
}

// UpdateUserRole promotes or demotes an account between the known tiers.
func UpdateUserRole(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !input.Role.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown role: "+string(input.Role))
		return
	}
	if identity.Owns(id) {
		utils.RespondWithError(c, http.StatusBadRequest, "You cannot change your own role")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Model(&user).Update("role", input.Role).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	user.Role = input.Role
	c.JSON(http.StatusOK, user)
}
