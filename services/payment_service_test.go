package services

import (
	"net/http"
	"testing"

	"vaccitrack-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, total float64) *models.Order {
	t.Helper()

	order := models.Order{
		UserID:      userID,
		TotalAmount: total,
	}
	require.NoError(t, db.Create(&order).Error)
	return &order
}

func TestPaymentProcessCompletesAndMarksOrderPaid(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	order := createOrder(t, db, customer.ID, 120)

	svc := NewPaymentService(db, &SimulatedGateway{})
	payment, err := svc.Process(customer.Identity(), PaymentInput{
		OrderID:       order.ID,
		PaymentMethod: "bank_transfer",
	})

	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.Equal(t, 120.0, payment.Amount)
	assert.NotEmpty(t, payment.TransactionReference)
	assert.NotNil(t, payment.PaymentDate)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	assert.True(t, reloaded.Paid)
}

func TestPaymentProcessRejectsPaidOrder(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	order := createOrder(t, db, customer.ID, 120)
	require.NoError(t, db.Model(order).Update("paid", true).Error)

	svc := NewPaymentService(db, &SimulatedGateway{})
	_, err := svc.Process(customer.Identity(), PaymentInput{
		OrderID:       order.ID,
		PaymentMethod: "bank_transfer",
	})

	assertServiceError(t, err, http.StatusBadRequest)
}

func TestPaymentProcessConflictsOnTerminalPayment(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	order := createOrder(t, db, customer.ID, 120)
	payment := models.Payment{OrderID: order.ID, Amount: 120, Status: models.PaymentFailed}
	require.NoError(t, db.Create(&payment).Error)

	svc := NewPaymentService(db, &SimulatedGateway{})
	_, err := svc.Process(customer.Identity(), PaymentInput{
		OrderID:       order.ID,
		PaymentMethod: "bank_transfer",
	})

	assertServiceError(t, err, http.StatusConflict)
}

func TestPaymentProcessForbiddenForOtherCustomer(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	stranger := createUser(t, db, models.RoleCustomer)
	order := createOrder(t, db, customer.ID, 120)

	svc := NewPaymentService(db, &SimulatedGateway{})
	_, err := svc.Process(stranger.Identity(), PaymentInput{
		OrderID:       order.ID,
		PaymentMethod: "bank_transfer",
	})

	assertServiceError(t, err, http.StatusForbidden)
}

func TestPaymentCompleteRequiresPending(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	order := createOrder(t, db, customer.ID, 120)
	payment := models.Payment{OrderID: order.ID, Amount: 120, Status: models.PaymentCompleted}
	require.NoError(t, db.Create(&payment).Error)

	svc := NewPaymentService(db, &SimulatedGateway{})
	_, err := svc.Complete(customer.Identity(), payment.ID, "TXN-999")

	assertServiceError(t, err, http.StatusBadRequest)
}

func TestPaymentRefundAdminOnly(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	staff := createUser(t, db, models.RoleStaff)
	order := createOrder(t, db, customer.ID, 120)
	payment := models.Payment{OrderID: order.ID, Amount: 120, Status: models.PaymentCompleted}
	require.NoError(t, db.Create(&payment).Error)

	svc := NewPaymentService(db, &SimulatedGateway{})

	_, err := svc.Refund(customer.Identity(), payment.ID, "changed plans")
	assertServiceError(t, err, http.StatusForbidden)

	_, err = svc.Refund(staff.Identity(), payment.ID, "changed plans")
	assertServiceError(t, err, http.StatusForbidden)
}

func TestPaymentRefundReversesOrder(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	admin := createUser(t, db, models.RoleAdmin)
	order := createOrder(t, db, customer.ID, 120)
	require.NoError(t, db.Model(order).Update("paid", true).Error)
	payment := models.Payment{OrderID: order.ID, Amount: 120, Status: models.PaymentCompleted}
	require.NoError(t, db.Create(&payment).Error)

	svc := NewPaymentService(db, &SimulatedGateway{})
	refunded, err := svc.Refund(admin.Identity(), payment.ID, "duplicate charge")

	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, refunded.Status)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	assert.False(t, reloaded.Paid)
}

func TestPaymentRefundRequiresCompleted(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	admin := createUser(t, db, models.RoleAdmin)
	order := createOrder(t, db, customer.ID, 120)
	payment := models.Payment{OrderID: order.ID, Amount: 120, Status: models.PaymentPending}
	require.NoError(t, db.Create(&payment).Error)

	svc := NewPaymentService(db, &SimulatedGateway{})
	_, err := svc.Refund(admin.Identity(), payment.ID, "not delivered")

	assertServiceError(t, err, http.StatusBadRequest)
}

func TestPaymentListAdminOnly(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	staff := createUser(t, db, models.RoleStaff)
	admin := createUser(t, db, models.RoleAdmin)

	svc := NewPaymentService(db, &SimulatedGateway{})

	_, err := svc.List(customer.Identity())
	assertServiceError(t, err, http.StatusForbidden)

	_, err = svc.List(staff.Identity())
	assertServiceError(t, err, http.StatusForbidden)

	_, err = svc.List(admin.Identity())
	require.NoError(t, err)
}
