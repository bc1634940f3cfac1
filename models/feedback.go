package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Feedback struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"userId"`
	ScheduleID *uuid.UUID `gorm:"type:uuid;index" json:"scheduleId"`

	Rating  int    `gorm:"not null" json:"rating"` // 1-5
	Comment string `gorm:"type:text" json:"comment"`

	StaffResponse string     `gorm:"type:text" json:"staffResponse"`
	RespondedAt   *time.Time `json:"respondedAt"`

	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Schedule *Schedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`

	gorm.Model
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}

// Respond records the staff response and stamps the response time.
func (f *Feedback) Respond(response string) {
	now := time.Now()
	f.StaffResponse = response
	f.RespondedAt = &now
}
