package models

import (
	"time"

	"vaccitrack-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`

	OrderNumber    string  `gorm:"uniqueIndex;not null" json:"orderNumber"`
	TotalAmount    float64 `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	DiscountAmount float64 `gorm:"type:decimal(10,2);default:0.0" json:"discountAmount"`
	FinalAmount    float64 `gorm:"type:decimal(10,2);not null" json:"finalAmount"`
	Paid           bool    `gorm:"default:false" json:"paid"`
	Notes          string  `gorm:"type:text" json:"notes"`

	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Schedules []Schedule `gorm:"foreignKey:OrderID" json:"schedules,omitempty"`
	Payment   *Payment   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payment,omitempty"`

	gorm.Model
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = "ORD-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)
	}
	o.Recalculate()
	return
}

// Recalculate derives the final amount from total and discount, floored
// at zero so an oversized discount never produces a negative bill.
func (o *Order) Recalculate() {
	o.FinalAmount = o.TotalAmount - o.DiscountAmount
	if o.FinalAmount < 0 {
		o.FinalAmount = 0
	}
}

// ApplyDiscount sets the discount and recalculates the final amount.
func (o *Order) ApplyDiscount(discount float64) {
	if discount < 0 {
		discount = 0
	}
	o.DiscountAmount = discount
	o.Recalculate()
}
