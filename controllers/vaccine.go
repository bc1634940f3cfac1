// controllers/vaccine.go
package controllers

import (
	"net/http"
	"strconv"

	"vaccitrack-backend/config"
	"vaccitrack-backend/models"
	"vaccitrack-backend/services"
	"vaccitrack-backend/utils"

	"github.com/gin-gonic/gin"
)

// Catalogue reads are public; guests browse vaccines before registering.

func GetVaccines(c *gin.Context) {
	svc := services.NewVaccineService(config.DB)

	if vaccineType := c.Query("type"); vaccineType != "" {
		vaccines, err := svc.ListByType(models.VaccineType(vaccineType))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, vaccines)
		return
	}

	vaccines, err := svc.List()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vaccines)
}

func GetVaccine(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	vaccine, err := services.NewVaccineService(config.DB).FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vaccine)
}

// GetVaccinesForAge lists vaccines suitable for a child of the given age
// in months.
func GetVaccinesForAge(c *gin.Context) {
	ageMonths, err := strconv.Atoi(c.Param("months"))
	if err != nil || ageMonths < 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid age in months")
		return
	}

	vaccines, svcErr := services.NewVaccineService(config.DB).ListSuitableForAge(ageMonths)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, vaccines)
}

func CreateVaccine(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var input services.VaccineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	vaccine, err := services.NewVaccineService(config.DB).Create(identity, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, vaccine)
}

func UpdateVaccine(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input services.VaccineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	vaccine, err := services.NewVaccineService(config.DB).Update(identity, id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vaccine)
}

func DeleteVaccine(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := services.NewVaccineService(config.DB).Delete(identity, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vaccine deleted successfully"})
}
