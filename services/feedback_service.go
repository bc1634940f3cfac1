package services

import (
	"errors"

	"vaccitrack-backend/models"
	"vaccitrack-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackInput is the request body for submitting feedback, optionally
// tied to a completed vaccination.
type FeedbackInput struct {
	Rating     int        `json:"rating" binding:"required"`
	Comment    string     `json:"comment"`
	ScheduleID *uuid.UUID `json:"scheduleId"`
}

type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

func (s *FeedbackService) FindByID(actor models.Identity, id uuid.UUID) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := s.db.Preload("Schedule").First(&feedback, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Feedback not found")
		}
		return nil, ErrInternal("Database error")
	}
	if !actor.CanAccess(feedback.UserID) {
		return nil, ErrForbidden("You don't have permission to access this feedback")
	}
	return &feedback, nil
}

// List returns all feedback for staff, own feedback for customers.
func (s *FeedbackService) List(actor models.Identity) ([]models.Feedback, error) {
	query := s.db.Preload("User").Order("created_at DESC")
	if !actor.Role.IsStaff() {
		query = query.Where("user_id = ?", actor.UserID)
	}
	var feedbacks []models.Feedback
	if err := query.Find(&feedbacks).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	return feedbacks, nil
}

func (s *FeedbackService) Create(actor models.Identity, input FeedbackInput) (*models.Feedback, error) {
	if !utils.ValidRatingScale(input.Rating) {
		return nil, ErrBadRequest("Rating must be between 1 and 5")
	}

	feedback := models.Feedback{
		UserID:  actor.UserID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}

	if input.ScheduleID != nil {
		var schedule models.Schedule
		if err := s.db.Preload("Child").First(&schedule, "id = ?", *input.ScheduleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound("Schedule not found")
			}
			return nil, ErrInternal("Database error")
		}
		if schedule.Child == nil || !actor.CanAccess(schedule.Child.ParentID) {
			return nil, ErrForbidden("You can't create feedback for this schedule")
		}
		if schedule.Status != models.ScheduleCompleted {
			return nil, ErrBadRequest("You can only provide feedback for completed vaccinations")
		}

		var existing int64
		if err := s.db.Model(&models.Feedback{}).
			Where("user_id = ? AND schedule_id = ?", actor.UserID, schedule.ID).
			Count(&existing).Error; err != nil {
			return nil, ErrInternal("Database error")
		}
		if existing > 0 {
			return nil, ErrBadRequest("You have already provided feedback for this schedule")
		}
		feedback.ScheduleID = input.ScheduleID
	}

	if err := s.db.Create(&feedback).Error; err != nil {
		return nil, ErrInternal("Failed to create feedback")
	}
	return &feedback, nil
}

// Respond records the staff answer on a feedback entry, staff only.
func (s *FeedbackService) Respond(actor models.Identity, id uuid.UUID, response string) (*models.Feedback, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden("Only staff can respond to feedback")
	}
	if response == "" {
		return nil, ErrBadRequest("Response must not be empty")
	}

	feedback, err := s.FindByID(actor, id)
	if err != nil {
		return nil, err
	}

	feedback.Respond(response)
	if err := s.db.Save(feedback).Error; err != nil {
		return nil, ErrInternal("Failed to save response")
	}
	return feedback, nil
}

// Delete removes feedback, author or admin only.
func (s *FeedbackService) Delete(actor models.Identity, id uuid.UUID) error {
	var feedback models.Feedback
	if err := s.db.First(&feedback, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound("Feedback not found")
		}
		return ErrInternal("Database error")
	}
	if !actor.Role.IsAdmin() && !actor.Owns(feedback.UserID) {
		return ErrForbidden("You don't have permission to delete this feedback")
	}
	if err := s.db.Delete(&feedback).Error; err != nil {
		return ErrInternal("Failed to delete feedback")
	}
	return nil
}
