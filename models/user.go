package models

import (
	"time"

	"vaccitrack-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access tier of a user. Kept as a typed string so the
// capability checks live here instead of being re-derived in every handler.
type Role string

const (
	RoleGuest    Role = "GUEST"
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleCustomer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role has clinic-staff privileges.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// IsAdmin reports whether the role has administrator privileges.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Identity is the resolved caller of a request. It is built once by the
// auth middleware and passed explicitly into every service call; services
// never reach into ambient request state.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// Owns reports whether the identity is the owner referenced by ownerID.
func (id Identity) Owns(ownerID uuid.UUID) bool {
	return id.UserID == ownerID
}

// CanAccess reports whether the identity may touch a resource owned by
// ownerID: staff and admins always, everyone else only their own.
func (id Identity) CanAccess(ownerID uuid.UUID) bool {
	return id.Role.IsStaff() || id.Owns(ownerID)
}

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	FullName string    `gorm:"not null" json:"fullName"`
	Phone    string    `json:"phone"`
	Role     Role      `gorm:"type:varchar(20);not null;default:'CUSTOMER'" json:"role"`
	Gender   string    `gorm:"type:varchar(10)" json:"gender"`
	Enabled  bool      `gorm:"default:true" json:"enabled"`

	LastLogin *time.Time `json:"lastLogin"`

	Children  []Child    `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"children,omitempty"`
	Orders    []Order    `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	Feedbacks []Feedback `gorm:"foreignKey:UserID" json:"feedbacks,omitempty"`

	gorm.Model
}

// Initialize UUID and hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

// Identity returns the policy view of this user.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Role: u.Role}
}
