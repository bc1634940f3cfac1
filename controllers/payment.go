// controllers/payment.go
package controllers

import (
	"net/http"
	"time"

	"vaccitrack-backend/config"
	"vaccitrack-backend/services"
	"vaccitrack-backend/utils"

	"github.com/gin-gonic/gin"
)

func paymentService() *services.PaymentService {
	return services.NewPaymentService(config.DB, services.NewGatewayFromEnv())
}

func GetPayments(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	payments, err := paymentService().List(identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

func GetPayment(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	payment, err := paymentService().FindByID(identity, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

func GetPaymentByOrder(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "orderId")
	if !ok {
		return
	}

	payment, err := paymentService().FindByOrderID(identity, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

func GetPaymentsByUser(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}

	payments, err := paymentService().ListByUser(identity, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// ProcessPayment charges an order through the configured gateway.
func ProcessPayment(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var input services.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := paymentService().Process(identity, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

type CompletePaymentInput struct {
	TransactionReference string `json:"transactionReference"`
}

// CompletePayment is the staff endpoint for settling a pending payment
// manually, e.g. a cash payment at the clinic desk.
func CompletePayment(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input CompletePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := paymentService().Complete(identity, id, input.TransactionReference)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

type FailPaymentInput struct {
	Notes string `json:"notes"`
}

func FailPayment(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input FailPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := paymentService().Fail(identity, id, input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

type RefundPaymentInput struct {
	Notes string `json:"notes"`
}

func RefundPayment(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input RefundPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := paymentService().Refund(identity, id, input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// GetRevenue reports completed-payment revenue for a date range,
// defaulting to the last 30 days.
func GetRevenue(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if startStr := c.Query("start"); startStr != "" {
		parsed, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		start = utils.BeginningOfDay(parsed)
	}
	if endStr := c.Query("end"); endStr != "" {
		parsed, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD")
			return
		}
		end = utils.EndOfDay(parsed)
	}

	total, err := paymentService().TotalRevenue(identity, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"start":        start,
		"end":          end,
		"totalRevenue": total,
	})
}
