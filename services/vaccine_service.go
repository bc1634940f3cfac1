package services

import (
	"errors"
	"strings"

	"vaccitrack-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VaccineInput is the request body for creating or updating a vaccine.
type VaccineInput struct {
	Name             string             `json:"name" binding:"required"`
	Description      string             `json:"description"`
	Type             models.VaccineType `json:"type" binding:"required"`
	MinAgeMonths     int                `json:"minAgeMonths"`
	MaxAgeMonths     *int               `json:"maxAgeMonths"`
	Price            float64            `json:"price"`
	DosesRequired    int                `json:"dosesRequired"`
	DaysBetweenDoses int                `json:"daysBetweenDoses"`
	Manufacturer     string             `json:"manufacturer"`
	SideEffects      string             `json:"sideEffects"`
}

// VaccineService manages the vaccine catalogue. Reads are public;
// writes are staff-only.
type VaccineService struct {
	db *gorm.DB
}

func NewVaccineService(db *gorm.DB) *VaccineService {
	return &VaccineService{db: db}
}

func (s *VaccineService) FindByID(id uuid.UUID) (*models.Vaccine, error) {
	var vaccine models.Vaccine
	if err := s.db.First(&vaccine, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Vaccine not found")
		}
		return nil, ErrInternal("Database error")
	}
	return &vaccine, nil
}

func (s *VaccineService) List() ([]models.Vaccine, error) {
	var vaccines []models.Vaccine
	if err := s.db.Order("name").Find(&vaccines).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	return vaccines, nil
}

func (s *VaccineService) ListByType(vaccineType models.VaccineType) ([]models.Vaccine, error) {
	if !vaccineType.Valid() {
		return nil, ErrBadRequest("Invalid vaccine type: " + string(vaccineType))
	}
	var vaccines []models.Vaccine
	if err := s.db.Where("type = ?", vaccineType).Order("name").Find(&vaccines).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	return vaccines, nil
}

// ListSuitableForAge returns vaccines whose recommended window covers
// the given age in months.
func (s *VaccineService) ListSuitableForAge(ageMonths int) ([]models.Vaccine, error) {
	if ageMonths < 0 {
		return nil, ErrBadRequest("Age must not be negative")
	}
	var vaccines []models.Vaccine
	if err := s.db.
		Where("min_age_months <= ? AND (max_age_months IS NULL OR max_age_months >= ?)", ageMonths, ageMonths).
		Order("name").
		Find(&vaccines).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	return vaccines, nil
}

func (s *VaccineService) Create(actor models.Identity, input VaccineInput) (*models.Vaccine, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden("Only staff can manage vaccines")
	}
	if err := validateVaccineInput(input); err != nil {
		return nil, err
	}
	if err := s.checkUniqueName(input.Name, nil); err != nil {
		return nil, err
	}

	dosesRequired := input.DosesRequired
	if dosesRequired == 0 {
		dosesRequired = 1
	}

	vaccine := models.Vaccine{
		Name:             strings.TrimSpace(input.Name),
		Description:      input.Description,
		Type:             input.Type,
		MinAgeMonths:     input.MinAgeMonths,
		MaxAgeMonths:     input.MaxAgeMonths,
		Price:            input.Price,
		DosesRequired:    dosesRequired,
		DaysBetweenDoses: input.DaysBetweenDoses,
		Manufacturer:     input.Manufacturer,
		SideEffects:      input.SideEffects,
	}
	if err := s.db.Create(&vaccine).Error; err != nil {
		return nil, ErrInternal("Failed to create vaccine")
	}
	return &vaccine, nil
}

func (s *VaccineService) Update(actor models.Identity, id uuid.UUID, input VaccineInput) (*models.Vaccine, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden("Only staff can manage vaccines")
	}
	vaccine, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := validateVaccineInput(input); err != nil {
		return nil, err
	}
	if err := s.checkUniqueName(input.Name, &id); err != nil {
		return nil, err
	}

	vaccine.Name = strings.TrimSpace(input.Name)
	vaccine.Description = input.Description
	vaccine.Type = input.Type
	vaccine.MinAgeMonths = input.MinAgeMonths
	vaccine.MaxAgeMonths = input.MaxAgeMonths
	vaccine.Price = input.Price
	if input.DosesRequired > 0 {
		vaccine.DosesRequired = input.DosesRequired
	}
	vaccine.DaysBetweenDoses = input.DaysBetweenDoses
	vaccine.Manufacturer = input.Manufacturer
	vaccine.SideEffects = input.SideEffects

	if err := s.db.Save(vaccine).Error; err != nil {
		return nil, ErrInternal("Failed to update vaccine")
	}
	return vaccine, nil
}

func (s *VaccineService) Delete(actor models.Identity, id uuid.UUID) error {
	if !actor.Role.IsAdmin() {
		return ErrForbidden("Only administrators can delete vaccines")
	}
	vaccine, err := s.FindByID(id)
	if err != nil {
		return err
	}

	var active int64
	if err := s.db.Model(&models.Schedule{}).
		Where("vaccine_id = ? AND status NOT IN ?",
			id, []models.ScheduleStatus{models.ScheduleCancelled, models.ScheduleMissed, models.ScheduleCompleted}).
		Count(&active).Error; err != nil {
		return ErrInternal("Database error")
	}
	if active > 0 {
		return ErrConflict("Vaccine has active schedules and cannot be deleted")
	}

	if err := s.db.Delete(vaccine).Error; err != nil {
		return ErrInternal("Failed to delete vaccine")
	}
	return nil
}

func (s *VaccineService) checkUniqueName(name string, excludeID *uuid.UUID) error {
	query := s.db.Model(&models.Vaccine{}).Where("name = ?", strings.TrimSpace(name))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return ErrInternal("Database error")
	}
	if count > 0 {
		return ErrConflict("A vaccine with this name already exists")
	}
	return nil
}

func validateVaccineInput(input VaccineInput) error {
	if !input.Type.Valid() {
		return ErrBadRequest("Invalid vaccine type: " + string(input.Type))
	}
	if input.MinAgeMonths < 0 {
		return ErrBadRequest("Minimum age must not be negative")
	}
	if input.MaxAgeMonths != nil && *input.MaxAgeMonths < input.MinAgeMonths {
		return ErrBadRequest("Maximum age must not be below minimum age")
	}
	if input.Price < 0 {
		return ErrBadRequest("Price must not be negative")
	}
	if input.DosesRequired < 0 || input.DaysBetweenDoses < 0 {
		return ErrBadRequest("Dose settings must not be negative")
	}
	return nil
}
