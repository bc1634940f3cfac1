package services

import (
	"errors"
	"time"

	"vaccitrack-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// conflictWindow is the naive double-booking window: a new appointment
// is rejected when the same child already has an active appointment
// within this distance of the proposed time.
const conflictWindow = time.Hour

// ScheduleInput is the request body for creating or updating a
// vaccination appointment.
type ScheduleInput struct {
	ChildID      uuid.UUID `json:"childId" binding:"required"`
	VaccineID    uuid.UUID `json:"vaccineId" binding:"required"`
	ScheduleDate time.Time `json:"scheduleDate" binding:"required"`
	DoseNumber   int       `json:"doseNumber"`
	Notes        string    `json:"notes"`
}

// ScheduleService owns the appointment lifecycle: creation and editing
// with age and conflict validation, and the status state machine.
type ScheduleService struct {
	db *gorm.DB
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

// FindByID loads a schedule and enforces ownership: staff see
// everything, customers only their own children's appointments.
func (s *ScheduleService) FindByID(actor models.Identity, id uuid.UUID) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := s.db.Preload("Child").Preload("Vaccine").First(&schedule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Schedule not found")
		}
		return nil, ErrInternal("Database error")
	}
	if schedule.Child == nil || !actor.CanAccess(schedule.Child.ParentID) {
		return nil, ErrForbidden("You don't have permission to access this schedule")
	}
	return &schedule, nil
}

// ListAll returns every schedule for staff; for customers the admin
// result is filtered down to their own children's appointments.
func (s *ScheduleService) ListAll(actor models.Identity) ([]models.Schedule, error) {
	return s.list(actor, s.db)
}

// ListByChild returns the child's schedules, owner or staff only.
func (s *ScheduleService) ListByChild(actor models.Identity, childID uuid.UUID) ([]models.Schedule, error) {
	child, err := s.loadChild(childID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(child.ParentID) {
		return nil, ErrForbidden("You don't have permission to access this child's schedules")
	}

	var schedules []models.Schedule
	if err := s.db.Preload("Child").Preload("Vaccine").
		Where("child_id = ?", childID).
		Order("schedule_date").
		Find(&schedules).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	return schedules, nil
}

// ListUpcoming returns the child's future, non-cancelled appointments.
func (s *ScheduleService) ListUpcoming(actor models.Identity, childID uuid.UUID) ([]models.Schedule, error) {
	child, err := s.loadChild(childID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(child.ParentID) {
		return nil, ErrForbidden("You don't have permission to access this child's schedules")
	}

	var schedules []models.Schedule
	if err := s.db.Preload("Vaccine").
		Where("child_id = ? AND schedule_date > ? AND status NOT IN ?",
			childID, time.Now(), []models.ScheduleStatus{models.ScheduleCancelled, models.ScheduleMissed}).
		Order("schedule_date").
		Find(&schedules).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	return schedules, nil
}

// ListByStatus returns schedules in the given state, customer-filtered.
func (s *ScheduleService) ListByStatus(actor models.Identity, status models.ScheduleStatus) ([]models.Schedule, error) {
	if !status.Valid() {
		return nil, ErrBadRequest("Invalid schedule status: " + string(status))
	}
	return s.list(actor, s.db.Where("status = ?", status))
}

// ListByDateRange returns schedules between start and end, customer-filtered.
func (s *ScheduleService) ListByDateRange(actor models.Identity, start, end time.Time) ([]models.Schedule, error) {
	if end.Before(start) {
		return nil, ErrBadRequest("End date must not be before start date")
	}
	return s.list(actor, s.db.Where("schedule_date BETWEEN ? AND ?", start, end))
}

// ListByVaccine returns schedules for a vaccine, customer-filtered.
func (s *ScheduleService) ListByVaccine(actor models.Identity, vaccineID uuid.UUID) ([]models.Schedule, error) {
	return s.list(actor, s.db.Where("vaccine_id = ?", vaccineID))
}

// Create validates age suitability and the conflict window, then stores
// a new PENDING appointment.
func (s *ScheduleService) Create(actor models.Identity, input ScheduleInput) (*models.Schedule, error) {
	child, vaccine, err := s.validateInput(actor, input)
	if err != nil {
		return nil, err
	}
	if err := s.checkConflicts(child.ID, input.ScheduleDate, nil); err != nil {
		return nil, err
	}

	doseNumber := input.DoseNumber
	if doseNumber == 0 {
		doseNumber = 1
	}

	schedule := models.Schedule{
		ChildID:      child.ID,
		VaccineID:    vaccine.ID,
		ScheduleDate: input.ScheduleDate,
		Status:       models.SchedulePending,
		DoseNumber:   doseNumber,
		Notes:        input.Notes,
	}
	if err := s.db.Create(&schedule).Error; err != nil {
		return nil, ErrInternal("Failed to create schedule")
	}
	schedule.Child = child
	schedule.Vaccine = vaccine
	return &schedule, nil
}

// Update re-validates and rewrites a modifiable appointment.
func (s *ScheduleService) Update(actor models.Identity, id uuid.UUID, input ScheduleInput) (*models.Schedule, error) {
	schedule, err := s.FindByID(actor, id)
	if err != nil {
		return nil, err
	}
	if !schedule.IsModifiable() {
		return nil, ErrBadRequest("Schedule cannot be modified (status: " + string(schedule.Status) + ")")
	}

	child, vaccine, err := s.validateInput(actor, input)
	if err != nil {
		return nil, err
	}
	if err := s.checkConflicts(child.ID, input.ScheduleDate, &id); err != nil {
		return nil, err
	}

	schedule.ChildID = child.ID
	schedule.VaccineID = vaccine.ID
	schedule.ScheduleDate = input.ScheduleDate
	if input.DoseNumber > 0 {
		schedule.DoseNumber = input.DoseNumber
	}
	schedule.Notes = input.Notes

	if err := s.db.Save(schedule).Error; err != nil {
		return nil, ErrInternal("Failed to update schedule")
	}
	schedule.Child = child
	schedule.Vaccine = vaccine
	return schedule, nil
}

// Delete removes a modifiable appointment, owner or staff only.
func (s *ScheduleService) Delete(actor models.Identity, id uuid.UUID) error {
	schedule, err := s.FindByID(actor, id)
	if err != nil {
		return err
	}
	if !schedule.IsModifiable() {
		return ErrBadRequest("Schedule cannot be deleted (status: " + string(schedule.Status) + ")")
	}
	if err := s.db.Delete(schedule).Error; err != nil {
		return ErrInternal("Failed to delete schedule")
	}
	return nil
}

// UpdateStatus is the staff-only generic transition. The policy is
// uniform: transitions are only accepted while the schedule is in a
// modifiable state; COMPLETED, CANCELLED and MISSED are terminal.
func (s *ScheduleService) UpdateStatus(actor models.Identity, id uuid.UUID, status models.ScheduleStatus, notes string) (*models.Schedule, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden("Only staff can update schedule status")
	}
	if !status.Valid() {
		return nil, ErrBadRequest("Invalid schedule status: " + string(status))
	}

	schedule, err := s.FindByID(actor, id)
	if err != nil {
		return nil, err
	}
	if !schedule.IsModifiable() {
		return nil, ErrBadRequest("Schedule cannot be modified (status: " + string(schedule.Status) + ")")
	}

	switch status {
	case models.ScheduleCompleted:
		schedule.MarkCompleted(notes)
	case models.ScheduleCancelled:
		schedule.Cancel(notes)
	default:
		schedule.Status = status
		if notes != "" {
			schedule.Notes = notes
		}
	}

	if err := s.db.Save(schedule).Error; err != nil {
		return nil, ErrInternal("Failed to update schedule status")
	}
	return schedule, nil
}

// Cancel cancels a modifiable appointment with a reason, owner or staff.
func (s *ScheduleService) Cancel(actor models.Identity, id uuid.UUID, reason string) (*models.Schedule, error) {
	schedule, err := s.FindByID(actor, id)
	if err != nil {
		return nil, err
	}
	if !schedule.IsModifiable() {
		return nil, ErrBadRequest("Schedule cannot be cancelled (status: " + string(schedule.Status) + ")")
	}

	schedule.Cancel(reason)
	if err := s.db.Save(schedule).Error; err != nil {
		return nil, ErrInternal("Failed to cancel schedule")
	}
	return schedule, nil
}

// Complete marks an appointment administered, staff only.
func (s *ScheduleService) Complete(actor models.Identity, id uuid.UUID, notes string) (*models.Schedule, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden("Only staff can complete schedules")
	}

	schedule, err := s.FindByID(actor, id)
	if err != nil {
		return nil, err
	}
	if !schedule.IsModifiable() {
		return nil, ErrBadRequest("Schedule cannot be completed (status: " + string(schedule.Status) + ")")
	}

	schedule.MarkCompleted(notes)
	if err := s.db.Save(schedule).Error; err != nil {
		return nil, ErrInternal("Failed to complete schedule")
	}
	return schedule, nil
}

func (s *ScheduleService) loadChild(childID uuid.UUID) (*models.Child, error) {
	var child models.Child
	if err := s.db.First(&child, "id = ?", childID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Child not found")
		}
		return nil, ErrInternal("Database error")
	}
	return &child, nil
}

// validateInput resolves and checks the child, vaccine, ownership, age
// window and dose number shared by Create and Update.
func (s *ScheduleService) validateInput(actor models.Identity, input ScheduleInput) (*models.Child, *models.Vaccine, error) {
	child, err := s.loadChild(input.ChildID)
	if err != nil {
		return nil, nil, err
	}
	if !actor.CanAccess(child.ParentID) {
		return nil, nil, ErrForbidden("You don't have permission to schedule for this child")
	}

	var vaccine models.Vaccine
	if err := s.db.First(&vaccine, "id = ?", input.VaccineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound("Vaccine not found")
		}
		return nil, nil, ErrInternal("Database error")
	}

	if input.ScheduleDate.Before(time.Now()) {
		return nil, nil, ErrBadRequest("Schedule date must be in the future")
	}
	if !vaccine.SuitableForAge(child.AgeInMonths(time.Now())) {
		return nil, nil, ErrBadRequest("Vaccine is not suitable for child's age")
	}
	if input.DoseNumber < 0 || (vaccine.DosesRequired > 0 && input.DoseNumber > vaccine.DosesRequired) {
		return nil, nil, ErrBadRequest("Invalid dose number for this vaccine")
	}

	return child, &vaccine, nil
}

// checkConflicts rejects the proposed time when another active
// appointment for the same child falls within the conflict window,
// excluding the schedule being updated.
func (s *ScheduleService) checkConflicts(childID uuid.UUID, proposed time.Time, excludeID *uuid.UUID) error {
	var others []models.Schedule
	if err := s.db.
		Where("child_id = ? AND status NOT IN ?",
			childID, []models.ScheduleStatus{models.ScheduleCancelled, models.ScheduleMissed}).
		Find(&others).Error; err != nil {
		return ErrInternal("Database error")
	}

	windowStart := proposed.Add(-conflictWindow)
	windowEnd := proposed.Add(conflictWindow)
	for _, other := range others {
		if excludeID != nil && other.ID == *excludeID {
			continue
		}
		if other.ScheduleDate.After(windowStart) && other.ScheduleDate.Before(windowEnd) {
			return ErrBadRequest("Schedule conflicts with an existing appointment")
		}
	}
	return nil
}

// list runs the query for staff as-is and post-filters the result by
// ownership for customers.
func (s *ScheduleService) list(actor models.Identity, query *gorm.DB) ([]models.Schedule, error) {
	var schedules []models.Schedule
	if err := query.Preload("Child").Preload("Vaccine").
		Order("schedule_date").
		Find(&schedules).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	if actor.Role.IsStaff() {
		return schedules, nil
	}

	owned := make([]models.Schedule, 0, len(schedules))
	for _, schedule := range schedules {
		if schedule.Child != nil && actor.Owns(schedule.Child.ParentID) {
			owned = append(owned, schedule)
		}
	}
	return owned, nil
}
