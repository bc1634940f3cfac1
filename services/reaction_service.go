package services

import (
	"errors"
	"time"

	"vaccitrack-backend/models"
	"vaccitrack-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReactionInput is the request body for reporting a post-vaccination
// reaction.
type ReactionInput struct {
	ChildID      uuid.UUID `json:"childId" binding:"required"`
	ScheduleID   uuid.UUID `json:"scheduleId" binding:"required"`
	Symptoms     string    `json:"symptoms" binding:"required"`
	ReactionDate time.Time `json:"reactionDate" binding:"required"`
	Severity     int       `json:"severity" binding:"required"`
	Treatment    string    `json:"treatment"`
}

// ReactionService tracks adverse reactions reported against completed
// vaccinations.
type ReactionService struct {
	db *gorm.DB
}

func NewReactionService(db *gorm.DB) *ReactionService {
	return &ReactionService{db: db}
}

func (s *ReactionService) FindByID(actor models.Identity, id uuid.UUID) (*models.Reaction, error) {
	var reaction models.Reaction
	if err := s.db.Preload("Child").Preload("Schedule").First(&reaction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Reaction not found")
		}
		return nil, ErrInternal("Database error")
	}
	if reaction.Child == nil || !actor.CanAccess(reaction.Child.ParentID) {
		return nil, ErrForbidden("You don't have permission to access this reaction")
	}
	return &reaction, nil
}

// List returns all reactions for staff; customers get the admin result
// filtered down to their own children's.
func (s *ReactionService) List(actor models.Identity) ([]models.Reaction, error) {
	var reactions []models.Reaction
	if err := s.db.Preload("Child").Order("reaction_date DESC").Find(&reactions).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	if actor.Role.IsStaff() {
		return reactions, nil
	}

	owned := make([]models.Reaction, 0, len(reactions))
	for _, reaction := range reactions {
		if reaction.Child != nil && actor.Owns(reaction.Child.ParentID) {
			owned = append(owned, reaction)
		}
	}
	return owned, nil
}

// ListUnresolvedSevere returns open severe reactions for staff triage.
func (s *ReactionService) ListUnresolvedSevere(actor models.Identity) ([]models.Reaction, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden("Only staff can list unresolved severe reactions")
	}
	var reactions []models.Reaction
	if err := s.db.Preload("Child").
		Where("resolved = ? AND severity >= ?", false, models.SevereReactionThreshold).
		Order("severity DESC, reaction_date").
		Find(&reactions).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	return reactions, nil
}

func (s *ReactionService) Create(actor models.Identity, input ReactionInput) (*models.Reaction, error) {
	if !utils.ValidRatingScale(input.Severity) {
		return nil, ErrBadRequest("Severity must be between 1 and 5")
	}

	var child models.Child
	if err := s.db.First(&child, "id = ?", input.ChildID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Child not found")
		}
		return nil, ErrInternal("Database error")
	}
	if !actor.CanAccess(child.ParentID) {
		return nil, ErrForbidden("You don't have permission to report for this child")
	}

	var schedule models.Schedule
	if err := s.db.First(&schedule, "id = ?", input.ScheduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Schedule not found")
		}
		return nil, ErrInternal("Database error")
	}
	if schedule.ChildID != child.ID {
		return nil, ErrBadRequest("Schedule does not belong to this child")
	}
	if schedule.Status != models.ScheduleCompleted {
		return nil, ErrBadRequest("Reactions can only be reported for completed vaccinations")
	}

	reaction := models.Reaction{
		ChildID:      child.ID,
		ScheduleID:   schedule.ID,
		Symptoms:     input.Symptoms,
		ReactionDate: input.ReactionDate,
		Severity:     input.Severity,
		Treatment:    input.Treatment,
	}
	if err := s.db.Create(&reaction).Error; err != nil {
		return nil, ErrInternal("Failed to create reaction")
	}
	return &reaction, nil
}

func (s *ReactionService) Update(actor models.Identity, id uuid.UUID, input ReactionInput) (*models.Reaction, error) {
	reaction, err := s.FindByID(actor, id)
	if err != nil {
		return nil, err
	}
	if !utils.ValidRatingScale(input.Severity) {
		return nil, ErrBadRequest("Severity must be between 1 and 5")
	}

	reaction.Symptoms = input.Symptoms
	reaction.ReactionDate = input.ReactionDate
	reaction.Severity = input.Severity
	reaction.Treatment = input.Treatment

	if err := s.db.Save(reaction).Error; err != nil {
		return nil, ErrInternal("Failed to update reaction")
	}
	return reaction, nil
}

// Resolve closes a reaction with staff notes, staff only.
func (s *ReactionService) Resolve(actor models.Identity, id uuid.UUID, notes string) (*models.Reaction, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden("Only staff can resolve reactions")
	}
	reaction, err := s.FindByID(actor, id)
	if err != nil {
		return nil, err
	}
	if reaction.Resolved {
		return nil, ErrBadRequest("Reaction is already resolved")
	}

	reaction.MarkResolved(notes)
	if err := s.db.Save(reaction).Error; err != nil {
		return nil, ErrInternal("Failed to resolve reaction")
	}
	return reaction, nil
}

func (s *ReactionService) Delete(actor models.Identity, id uuid.UUID) error {
	reaction, err := s.FindByID(actor, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(reaction).Error; err != nil {
		return ErrInternal("Failed to delete reaction")
	}
	return nil
}
