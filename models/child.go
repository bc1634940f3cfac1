package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Child struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ParentID uuid.UUID `gorm:"type:uuid;index;not null" json:"parentId"`

	FullName     string    `gorm:"not null" json:"fullName"`
	DateOfBirth  time.Time `gorm:"type:date;not null" json:"dateOfBirth"`
	Gender       string    `gorm:"type:varchar(10)" json:"gender"`
	MedicalNotes string    `gorm:"type:text" json:"medicalNotes"`
	Allergies    string    `gorm:"type:text" json:"allergies"`

	Parent    *User      `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Schedules []Schedule `gorm:"foreignKey:ChildID;constraint:OnDelete:CASCADE" json:"schedules,omitempty"`
	Reactions []Reaction `gorm:"foreignKey:ChildID;constraint:OnDelete:CASCADE" json:"reactions,omitempty"`

	gorm.Model
}

func (c *Child) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// AgeInMonths returns the child's age in whole calendar months at the
// given instant. A partial month does not count until the day-of-month
// of the birth date has passed.
func (c *Child) AgeInMonths(at time.Time) int {
	if c.DateOfBirth.IsZero() || at.Before(c.DateOfBirth) {
		return 0
	}
	months := (at.Year()-c.DateOfBirth.Year())*12 + int(at.Month()) - int(c.DateOfBirth.Month())
	if at.Day() < c.DateOfBirth.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// AgeInYears returns the child's age in whole years at the given instant.
func (c *Child) AgeInYears(at time.Time) int {
	return c.AgeInMonths(at) / 12
}
