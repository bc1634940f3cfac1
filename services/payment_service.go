package services

import (
	"errors"
	"time"

	"vaccitrack-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentInput is the request body for processing an order's payment.
type PaymentInput struct {
	OrderID       uuid.UUID `json:"orderId" binding:"required"`
	PaymentMethod string    `json:"paymentMethod" binding:"required"`
	Notes         string    `json:"notes"`
}

// PaymentService owns the payment state machine. All money movement
// goes through the PaymentGateway boundary; the state machine itself is
// the same regardless of which gateway sits behind it.
type PaymentService struct {
	db      *gorm.DB
	gateway PaymentGateway
}

func NewPaymentService(db *gorm.DB, gateway PaymentGateway) *PaymentService {
	return &PaymentService{db: db, gateway: gateway}
}

func (s *PaymentService) FindByID(actor models.Identity, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.Preload("Order").First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Payment not found")
		}
		return nil, ErrInternal("Database error")
	}
	if payment.Order == nil || !actor.CanAccess(payment.Order.UserID) {
		return nil, ErrForbidden("You don't have permission to access this payment")
	}
	return &payment, nil
}

func (s *PaymentService) FindByOrderID(actor models.Identity, orderID uuid.UUID) (*models.Payment, error) {
	order, err := s.loadOrder(actor, orderID)
	if err != nil {
		return nil, err
	}

	var payment models.Payment
	if err := s.db.First(&payment, "order_id = ?", order.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Payment not found for this order")
		}
		return nil, ErrInternal("Database error")
	}
	payment.Order = order
	return &payment, nil
}

// Process charges an order through the gateway. A PENDING payment left
// from an earlier attempt is reused; a payment already in a terminal
// state is a conflict.
func (s *PaymentService) Process(actor models.Identity, input PaymentInput) (*models.Payment, error) {
	order, err := s.loadOrder(actor, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Paid {
		return nil, ErrBadRequest("This order has already been paid")
	}

	var payment models.Payment
	err = s.db.First(&payment, "order_id = ?", order.ID).Error
	switch {
	case err == nil:
		if payment.Status != models.PaymentPending {
			return nil, ErrConflict("A payment already exists for this order with status: " + string(payment.Status))
		}
		payment.PaymentMethod = input.PaymentMethod
		if input.Notes != "" {
			payment.Notes = input.Notes
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		payment = models.Payment{
			OrderID:       order.ID,
			Amount:        order.FinalAmount,
			Status:        models.PaymentPending,
			PaymentMethod: input.PaymentMethod,
			Notes:         input.Notes,
		}
		if err := s.db.Create(&payment).Error; err != nil {
			return nil, ErrInternal("Failed to create payment")
		}
	default:
		return nil, ErrInternal("Database error")
	}

	var customerName, customerEmail string
	if order.User != nil {
		customerName = order.User.FullName
		customerEmail = order.User.Email
	}
	result, chargeErr := s.gateway.Charge(ChargeRequest{
		OrderNumber:   order.OrderNumber,
		Amount:        payment.Amount,
		Method:        payment.PaymentMethod,
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
	})
	if chargeErr != nil {
		payment.Fail(chargeErr.Error())
		s.db.Save(&payment)
		return nil, ErrBadRequest("Payment was declined: " + chargeErr.Error())
	}

	payment.Complete(result.TransactionReference)
	order.Paid = true

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Save(&payment).Error; err != nil {
		tx.Rollback()
		return nil, ErrInternal("Failed to save payment")
	}
	if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("paid", true).Error; err != nil {
		tx.Rollback()
		return nil, ErrInternal("Failed to mark order paid")
	}
	tx.Commit()

	payment.Order = order
	return &payment, nil
}

// Complete marks a PENDING payment COMPLETED, for out-of-band
// settlements confirmed by staff or the owner.
func (s *PaymentService) Complete(actor models.Identity, id uuid.UUID, transactionReference string) (*models.Payment, error) {
	payment, err := s.FindByID(actor, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentPending {
		return nil, ErrBadRequest("Cannot complete payment with status: " + string(payment.Status))
	}

	payment.Complete(transactionReference)

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Save(payment).Error; err != nil {
		tx.Rollback()
		return nil, ErrInternal("Failed to save payment")
	}
	if err := tx.Model(&models.Order{}).Where("id = ?", payment.OrderID).Update("paid", true).Error; err != nil {
		tx.Rollback()
		return nil, ErrInternal("Failed to mark order paid")
	}
	tx.Commit()
	return payment, nil
}

// Fail marks a PENDING payment FAILED.
func (s *PaymentService) Fail(actor models.Identity, id uuid.UUID, notes string) (*models.Payment, error) {
	payment, err := s.FindByID(actor, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentPending {
		return nil, ErrBadRequest("Cannot fail payment with status: " + string(payment.Status))
	}

	payment.Fail(notes)
	if err := s.db.Save(payment).Error; err != nil {
		return nil, ErrInternal("Failed to save payment")
	}
	return payment, nil
}

// Refund reverses a COMPLETED payment through the gateway and unmarks
// the order's paid flag. Admin only.
func (s *PaymentService) Refund(actor models.Identity, id uuid.UUID, notes string) (*models.Payment, error) {
	if !actor.Role.IsAdmin() {
		return nil, ErrForbidden("Only administrators can refund payments")
	}

	payment, err := s.FindByID(actor, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentCompleted {
		return nil, ErrBadRequest("Cannot refund payment with status: " + string(payment.Status))
	}

	orderNumber := ""
	if payment.Order != nil {
		orderNumber = payment.Order.OrderNumber
	}
	if err := s.gateway.Refund(orderNumber, payment.Amount, notes); err != nil {
		return nil, ErrBadRequest("Refund was declined: " + err.Error())
	}

	payment.Refund(notes)

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Save(payment).Error; err != nil {
		tx.Rollback()
		return nil, ErrInternal("Failed to save payment")
	}
	if err := tx.Model(&models.Order{}).Where("id = ?", payment.OrderID).Update("paid", false).Error; err != nil {
		tx.Rollback()
		return nil, ErrInternal("Failed to unmark order paid")
	}
	tx.Commit()
	return payment, nil
}

// List returns every payment, admin only.
func (s *PaymentService) List(actor models.Identity) ([]models.Payment, error) {
	if !actor.Role.IsAdmin() {
		return nil, ErrForbidden("Only administrators can access all payments")
	}
	var payments []models.Payment
	if err := s.db.Preload("Order").Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	return payments, nil
}

// ListByUser returns a user's payments, for the user themself or staff.
func (s *PaymentService) ListByUser(actor models.Identity, userID uuid.UUID) ([]models.Payment, error) {
	if !actor.CanAccess(userID) {
		return nil, ErrForbidden("You don't have permission to access this user's payments")
	}
	var payments []models.Payment
	if err := s.db.Preload("Order").
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("orders.user_id = ?", userID).
		Order("payments.created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	return payments, nil
}

// TotalRevenue sums COMPLETED payments in the date range, staff only.
func (s *PaymentService) TotalRevenue(actor models.Identity, start, end time.Time) (float64, error) {
	if !actor.Role.IsStaff() {
		return 0, ErrForbidden("Only staff can calculate revenue")
	}
	var total float64
	if err := s.db.Model(&models.Payment{}).
		Where("status = ? AND payment_date BETWEEN ? AND ?", models.PaymentCompleted, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, ErrInternal("Database error")
	}
	return total, nil
}

func (s *PaymentService) loadOrder(actor models.Identity, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("User").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Order not found")
		}
		return nil, ErrInternal("Database error")
	}
	if !actor.CanAccess(order.UserID) {
		return nil, ErrForbidden("You don't have permission to access this order")
	}
	return &order, nil
}
