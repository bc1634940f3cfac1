package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleStatus is the lifecycle state of a vaccination appointment.
//
// PENDING, CONFIRMED and RESCHEDULED are the modifiable states.
// COMPLETED, CANCELLED and MISSED are terminal: once reached, no further
// transition is accepted by the schedule service.
type ScheduleStatus string

const (
	SchedulePending     ScheduleStatus = "PENDING"
	ScheduleConfirmed   ScheduleStatus = "CONFIRMED"
	ScheduleCompleted   ScheduleStatus = "COMPLETED"
	ScheduleCancelled   ScheduleStatus = "CANCELLED"
	ScheduleMissed      ScheduleStatus = "MISSED"
	ScheduleRescheduled ScheduleStatus = "RESCHEDULED"
)

func (s ScheduleStatus) Valid() bool {
	switch s {
	case SchedulePending, ScheduleConfirmed, ScheduleCompleted,
		ScheduleCancelled, ScheduleMissed, ScheduleRescheduled:
		return true
	}
	return false
}

// IsModifiable reports whether an appointment in this state may still be
// edited, rescheduled, cancelled or deleted.
func (s ScheduleStatus) IsModifiable() bool {
	return s == SchedulePending || s == ScheduleConfirmed || s == ScheduleRescheduled
}

// IsActive reports whether the appointment still counts against the
// child's calendar (anything not cancelled or missed).
func (s ScheduleStatus) IsActive() bool {
	return s != ScheduleCancelled && s != ScheduleMissed
}

type Schedule struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ChildID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"childId"`
	VaccineID uuid.UUID  `gorm:"type:uuid;index;not null" json:"vaccineId"`
	OrderID   *uuid.UUID `gorm:"type:uuid;index" json:"orderId"`

	ScheduleDate time.Time      `gorm:"not null" json:"scheduleDate"`
	Status       ScheduleStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	DoseNumber   int            `gorm:"default:1" json:"doseNumber"`
	Notes        string         `gorm:"type:text" json:"notes"`

	CompletedDate      *time.Time `json:"completedDate"`
	CancellationReason string     `json:"cancellationReason"`

	Child   *Child   `gorm:"foreignKey:ChildID" json:"child,omitempty"`
	Vaccine *Vaccine `gorm:"foreignKey:VaccineID" json:"vaccine,omitempty"`

	gorm.Model
}

func (s *Schedule) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = SchedulePending
	}
	return
}

func (s *Schedule) IsModifiable() bool {
	return s.Status.IsModifiable()
}

func (s *Schedule) IsActive() bool {
	return s.Status.IsActive()
}

// Cancel puts the schedule into CANCELLED and records the reason. It is a
// plain mutator; whether the transition is allowed is the schedule
// service's decision.
func (s *Schedule) Cancel(reason string) {
	s.Status = ScheduleCancelled
	s.CancellationReason = reason
}

// MarkCompleted puts the schedule into COMPLETED and stamps the
// completion time. Non-empty notes replace the existing ones.
func (s *Schedule) MarkCompleted(notes string) {
	now := time.Now()
	s.Status = ScheduleCompleted
	s.CompletedDate = &now
	if notes != "" {
		s.Notes = notes
	}
}
