package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentStatus lifecycle: PENDING -> COMPLETED | FAILED, and
// COMPLETED -> REFUNDED. All of COMPLETED, FAILED and REFUNDED are
// terminal for charging purposes.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

type Payment struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"orderId"`

	Amount      float64       `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentDate *time.Time    `json:"paymentDate"`
	Status      PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`

	PaymentMethod        string `gorm:"size:100" json:"paymentMethod"`
	TransactionReference string `gorm:"size:255" json:"transactionReference"`
	Notes                string `gorm:"type:text" json:"notes"`

	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`

	gorm.Model
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PaymentPending
	}
	return
}

// Complete marks the payment COMPLETED, stamping the payment date and
// recording the gateway transaction reference.
func (p *Payment) Complete(reference string) {
	now := time.Now()
	p.Status = PaymentCompleted
	p.PaymentDate = &now
	p.TransactionReference = reference
}

// Fail marks the payment FAILED with notes about the failure.
func (p *Payment) Fail(notes string) {
	p.Status = PaymentFailed
	p.Notes = notes
}

// Refund marks the payment REFUNDED with notes about the refund.
func (p *Payment) Refund(notes string) {
	p.Status = PaymentRefunded
	p.Notes = notes
}
