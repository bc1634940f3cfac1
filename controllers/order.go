// controllers/order.go
package controllers

import (
	"net/http"

	"vaccitrack-backend/config"
	"vaccitrack-backend/services"
	"vaccitrack-backend/utils"

	"github.com/gin-gonic/gin"
)

func GetOrders(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	orders, err := services.NewOrderService(config.DB).List(identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func GetOrder(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	order, err := services.NewOrderService(config.DB).FindByID(identity, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func CreateOrder(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var input services.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, err := services.NewOrderService(config.DB).Create(identity, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

type ApplyDiscountInput struct {
	DiscountAmount float64 `json:"discountAmount" binding:"required"`
}

func ApplyOrderDiscount(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input ApplyDiscountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, err := services.NewOrderService(config.DB).ApplyDiscount(identity, id, input.DiscountAmount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func DeleteOrder(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := services.NewOrderService(config.DB).Delete(identity, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
