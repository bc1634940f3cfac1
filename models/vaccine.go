package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VaccineType classifies how strongly a vaccine is indicated.
type VaccineType string

const (
	VaccineMandatory   VaccineType = "MANDATORY"
	VaccineRecommended VaccineType = "RECOMMENDED"
	VaccineOptional    VaccineType = "OPTIONAL"
)

func (t VaccineType) Valid() bool {
	switch t {
	case VaccineMandatory, VaccineRecommended, VaccineOptional:
		return true
	}
	return false
}

type Vaccine struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	Name        string      `gorm:"uniqueIndex;not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Type        VaccineType `gorm:"type:varchar(20);not null" json:"type"`

	MinAgeMonths int  `gorm:"not null" json:"minAgeMonths"`
	MaxAgeMonths *int `json:"maxAgeMonths"` // nil means no upper bound

	Price            float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	DosesRequired    int     `gorm:"default:1" json:"dosesRequired"`
	DaysBetweenDoses int     `json:"daysBetweenDoses"`
	Manufacturer     string  `json:"manufacturer"`
	SideEffects      string  `gorm:"type:text" json:"sideEffects"`

	Schedules []Schedule `gorm:"foreignKey:VaccineID" json:"schedules,omitempty"`

	gorm.Model
}

func (v *Vaccine) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}

// SuitableForAge reports whether a child of the given age in months falls
// inside the vaccine's recommended window.
func (v *Vaccine) SuitableForAge(ageMonths int) bool {
	if ageMonths < v.MinAgeMonths {
		return false
	}
	return v.MaxAgeMonths == nil || ageMonths <= *v.MaxAgeMonths
}
