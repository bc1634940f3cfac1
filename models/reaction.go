package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SevereReactionThreshold is the severity at and above which a reaction
// counts as severe on the 1-5 scale.
const SevereReactionThreshold = 4

type Reaction struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ChildID    uuid.UUID `gorm:"type:uuid;index;not null" json:"childId"`
	ScheduleID uuid.UUID `gorm:"type:uuid;index;not null" json:"scheduleId"`

	Symptoms     string    `gorm:"type:text;not null" json:"symptoms"`
	ReactionDate time.Time `gorm:"not null" json:"reactionDate"`
	Severity     int       `gorm:"not null" json:"severity"` // 1-5, 5 worst
	Treatment    string    `gorm:"type:text" json:"treatment"`
	StaffNotes   string    `gorm:"type:text" json:"staffNotes"`

	Resolved     bool       `gorm:"default:false" json:"resolved"`
	ResolvedDate *time.Time `json:"resolvedDate"`

	Child    *Child    `gorm:"foreignKey:ChildID" json:"child,omitempty"`
	Schedule *Schedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`

	gorm.Model
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// IsSevere reports whether the reaction severity is at or above the
// severe threshold.
func (r *Reaction) IsSevere() bool {
	return r.Severity >= SevereReactionThreshold
}

// MarkResolved closes the reaction, stamping the resolution time.
// Non-empty notes are appended to the staff notes.
func (r *Reaction) MarkResolved(notes string) {
	now := time.Now()
	r.Resolved = true
	r.ResolvedDate = &now
	if notes != "" {
		r.StaffNotes = notes
	}
}
