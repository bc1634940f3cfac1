package services

import (
	"errors"
	"time"

	"vaccitrack-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChildInput is the request body for creating or updating a child.
type ChildInput struct {
	FullName     string    `json:"fullName" binding:"required"`
	DateOfBirth  time.Time `json:"dateOfBirth" binding:"required"`
	Gender       string    `json:"gender"`
	MedicalNotes string    `json:"medicalNotes"`
	Allergies    string    `json:"allergies"`
	// ParentID is honoured for staff callers only; customers always
	// create children under themselves.
	ParentID *uuid.UUID `json:"parentId"`
}

type ChildService struct {
	db *gorm.DB
}

func NewChildService(db *gorm.DB) *ChildService {
	return &ChildService{db: db}
}

func (s *ChildService) FindByID(actor models.Identity, id uuid.UUID) (*models.Child, error) {
	var child models.Child
	if err := s.db.First(&child, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Child not found")
		}
		return nil, ErrInternal("Database error")
	}
	if !actor.CanAccess(child.ParentID) {
		return nil, ErrForbidden("You don't have permission to access this child")
	}
	return &child, nil
}

// List returns all children for staff; customers get the admin result
// filtered down to their own.
func (s *ChildService) List(actor models.Identity) ([]models.Child, error) {
	var children []models.Child
	if err := s.db.Order("full_name").Find(&children).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	if actor.Role.IsStaff() {
		return children, nil
	}

	owned := make([]models.Child, 0, len(children))
	for _, child := range children {
		if actor.Owns(child.ParentID) {
			owned = append(owned, child)
		}
	}
	return owned, nil
}

func (s *ChildService) Create(actor models.Identity, input ChildInput) (*models.Child, error) {
	if err := validateChildInput(input); err != nil {
		return nil, err
	}

	parentID := actor.UserID
	if input.ParentID != nil && *input.ParentID != actor.UserID {
		if !actor.Role.IsStaff() {
			return nil, ErrForbidden("You can only register your own children")
		}
		var parent models.User
		if err := s.db.First(&parent, "id = ?", *input.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound("Parent not found")
			}
			return nil, ErrInternal("Database error")
		}
		parentID = parent.ID
	}

	child := models.Child{
		ParentID:     parentID,
		FullName:     input.FullName,
		DateOfBirth:  input.DateOfBirth,
		Gender:       input.Gender,
		MedicalNotes: input.MedicalNotes,
		Allergies:    input.Allergies,
	}
	if err := s.db.Create(&child).Error; err != nil {
		return nil, ErrInternal("Failed to create child")
	}
	return &child, nil
}

func (s *ChildService) Update(actor models.Identity, id uuid.UUID, input ChildInput) (*models.Child, error) {
	child, err := s.FindByID(actor, id)
	if err != nil {
		return nil, err
	}
	if err := validateChildInput(input); err != nil {
		return nil, err
	}

	child.FullName = input.FullName
	child.DateOfBirth = input.DateOfBirth
	child.Gender = input.Gender
	child.MedicalNotes = input.MedicalNotes
	child.Allergies = input.Allergies

	if err := s.db.Save(child).Error; err != nil {
		return nil, ErrInternal("Failed to update child")
	}
	return child, nil
}

// Delete removes the child together with its schedules and reactions.
func (s *ChildService) Delete(actor models.Identity, id uuid.UUID) error {
	child, err := s.FindByID(actor, id)
	if err != nil {
		return err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("child_id = ?", child.ID).Delete(&models.Reaction{}).Error; err != nil {
		tx.Rollback()
		return ErrInternal("Failed to delete child's reactions")
	}
	if err := tx.Where("child_id = ?", child.ID).Delete(&models.Schedule{}).Error; err != nil {
		tx.Rollback()
		return ErrInternal("Failed to delete child's schedules")
	}
	if err := tx.Delete(child).Error; err != nil {
		tx.Rollback()
		return ErrInternal("Failed to delete child")
	}

	tx.Commit()
	return nil
}

func validateChildInput(input ChildInput) error {
	if input.DateOfBirth.After(time.Now()) {
		return ErrBadRequest("Date of birth cannot be in the future")
	}
	return nil
}
