package services

import (
	"errors"

	"vaccitrack-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderInput is the request body for creating a billing order from a set
// of the caller's pending schedules.
type OrderInput struct {
	ScheduleIDs    []uuid.UUID `json:"scheduleIds" binding:"required,min=1"`
	DiscountAmount float64     `json:"discountAmount"`
	Notes          string      `json:"notes"`
	// UserID is honoured for staff callers creating an order on a
	// customer's behalf.
	UserID *uuid.UUID `json:"userId"`
}

// OrderService bundles schedules into orders and owns the amount
// arithmetic (final = max(0, total - discount)).
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

func (s *OrderService) FindByID(actor models.Identity, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Schedules").Preload("Schedules.Vaccine").Preload("Payment").
		First(&order, "id = ?", id).Error; err != nil {
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

// List returns all orders for staff, own orders for customers.
func (s *OrderService) List(actor models.Identity) ([]models.Order, error) {
	query := s.db.Preload("Payment").Order("created_at DESC")
	if !actor.Role.IsStaff() {
		query = query.Where("user_id = ?", actor.UserID)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	return orders, nil
}

// Create bundles the given schedules into a new unpaid order. Every
// schedule must be active, unbilled, and belong to the order's user.
func (s *OrderService) Create(actor models.Identity, input OrderInput) (*models.Order, error) {
	if input.DiscountAmount < 0 {
		return nil, ErrBadRequest("Discount must not be negative")
	}

	userID := actor.UserID
	if input.UserID != nil && *input.UserID != actor.UserID {
		if !actor.Role.IsStaff() {
			return nil, ErrForbidden("You can only create orders for yourself")
		}
		userID = *input.UserID
	}

	var schedules []models.Schedule
	if err := s.db.Preload("Child").Preload("Vaccine").
		Where("id IN ?", input.ScheduleIDs).
		Find(&schedules).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	if len(schedules) != len(input.ScheduleIDs) {
		return nil, ErrNotFound("One or more schedules not found")
	}

	var total float64
	for i := range schedules {
		schedule := &schedules[i]
		if schedule.Child == nil || schedule.Child.ParentID != userID {
			return nil, ErrForbidden("Schedule does not belong to the order's user")
		}
		if !schedule.IsActive() {
			return nil, ErrBadRequest("Cancelled or missed schedules cannot be billed")
		}
		if schedule.OrderID != nil {
			return nil, ErrConflict("Schedule is already part of another order")
		}
		if schedule.Vaccine != nil {
			total += schedule.Vaccine.Price
		}
	}

	order := models.Order{
		UserID:         userID,
		TotalAmount:    total,
		DiscountAmount: input.DiscountAmount,
		Notes:          input.Notes,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, ErrInternal("Failed to create order")
	}
	if err := tx.Model(&models.Schedule{}).
		Where("id IN ?", input.ScheduleIDs).
		Update("order_id", order.ID).Error; err != nil {
		tx.Rollback()
		return nil, ErrInternal("Failed to attach schedules to order")
	}

	tx.Commit()
	order.Schedules = schedules
	return &order, nil
}

// ApplyDiscount sets a new discount on an unpaid order, staff only.
func (s *OrderService) ApplyDiscount(actor models.Identity, id uuid.UUID, discount float64) (*models.Order, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden("Only staff can apply discounts")
	}
	if discount < 0 {
		return nil, ErrBadRequest("Discount must not be negative")
	}

	order, err := s.FindByID(actor, id)
	if err != nil {
		return nil, err
	}
	if order.Paid {
		return nil, ErrConflict("Order has already been paid")
	}

	order.ApplyDiscount(discount)
	if err := s.db.Save(order).Error; err != nil {
		return nil, ErrInternal("Failed to apply discount")
	}
	return order, nil
}

// Delete removes an unpaid order, detaching its schedules. Admin only.
func (s *OrderService) Delete(actor models.Identity, id uuid.UUID) error {
	if !actor.Role.IsAdmin() {
		return ErrForbidden("Only administrators can delete orders")
	}
	order, err := s.FindByID(actor, id)
	if err != nil {
		return err
	}
	if order.Paid {
		return ErrConflict("Paid orders cannot be deleted")
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(&models.Schedule{}).
		Where("order_id = ?", order.ID).
		Update("order_id", nil).Error; err != nil {
		tx.Rollback()
		return ErrInternal("Failed to detach schedules")
	}
	if err := tx.Where("order_id = ?", order.ID).Delete(&models.Payment{}).Error; err != nil {
		tx.Rollback()
		return ErrInternal("Failed to delete order's payment")
	}
	if err := tx.Delete(order).Error; err != nil {
		tx.Rollback()
		return ErrInternal("Failed to delete order")
	}

	tx.Commit()
	return nil
}
