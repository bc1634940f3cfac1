// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"vaccitrack-backend/models"
	"vaccitrack-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// missedGraceHours is how long after the appointment time a PENDING or
// CONFIRMED schedule may linger before the nightly job marks it MISSED.
const missedGraceHours = 24

// ReminderService runs the scheduled background work: appointment
// reminders to parents the day before, and marking overdue appointments
// as missed.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

// StartScheduler registers the daily jobs: reminders at 8 AM, missed
// marking just after midnight.
func (s *ReminderService) StartScheduler() {
	c := cron.New()

	if _, err := c.AddFunc("0 8 * * *", s.SendUpcomingReminders); err != nil {
		log.Printf("Failed to register reminder job: %v", err)
	}
	if _, err := c.AddFunc("30 0 * * *", s.MarkMissedSchedules); err != nil {
		log.Printf("Failed to register missed-schedule job: %v", err)
	}

	c.Start()
	log.Println("Reminder scheduler started")
}

// SendUpcomingReminders messages the parent of every child with an
// active appointment tomorrow, once per schedule.
func (s *ReminderService) SendUpcomingReminders() {
	log.Println("Starting daily reminder processing...")

	tomorrow := time.Now().AddDate(0, 0, 1)
	start := utils.BeginningOfDay(tomorrow)
	end := utils.EndOfDay(tomorrow)

	var schedules []models.Schedule
	if err := s.db.Preload("Child").Preload("Child.Parent").Preload("Vaccine").
		Where("schedule_date BETWEEN ? AND ? AND status IN ?",
			start, end, []models.ScheduleStatus{models.SchedulePending, models.ScheduleConfirmed, models.ScheduleRescheduled}).
		Find(&schedules).Error; err != nil {
		log.Printf("Failed to fetch upcoming schedules: %v", err)
		return
	}

	for _, schedule := range schedules {
		if schedule.Child == nil || schedule.Child.Parent == nil || schedule.Child.Parent.Phone == "" {
			continue
		}

		// Skip schedules already reminded about.
		var sent int64
		if err := s.db.Model(&models.NotificationLog{}).
			Where("schedule_id = ? AND type = ? AND status = ?", schedule.ID, "upcoming_schedule", "sent").
			Count(&sent).Error; err != nil || sent > 0 {
			continue
		}

		vaccineName := "a vaccination"
		if schedule.Vaccine != nil {
			vaccineName = schedule.Vaccine.Name
		}
		message := fmt.Sprintf("Hi %s, this is a reminder that %s has %s scheduled tomorrow at %s.",
			schedule.Child.Parent.FullName,
			schedule.Child.FullName,
			vaccineName,
			schedule.ScheduleDate.Format("15:04"))

		s.send(schedule, message)
	}

	log.Println("Daily reminder processing completed")
}

// MarkMissedSchedules moves appointments that are past their grace
// window and still PENDING or CONFIRMED into MISSED.
func (s *ReminderService) MarkMissedSchedules() {
	cutoff := time.Now().Add(-missedGraceHours * time.Hour)

	result := s.db.Model(&models.Schedule{}).
		Where("schedule_date < ? AND status IN ?",
			cutoff, []models.ScheduleStatus{models.SchedulePending, models.ScheduleConfirmed, models.ScheduleRescheduled}).
		Update("status", models.ScheduleMissed)
	if result.Error != nil {
		log.Printf("Failed to mark missed schedules: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Marked %d schedules as missed", result.RowsAffected)
	}
}

func (s *ReminderService) send(schedule models.Schedule, message string) {
	phone := schedule.Child.Parent.Phone

	// WhatsApp for E.164 numbers, SMS otherwise.
	channel := "sms"
	to := phone
	if strings.HasPrefix(phone, "+") {
		to = "whatsapp:" + phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send reminder to %s: %v", phone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Reminder sent to %s, SID: %s", phone, *resp.Sid)
	} else {
		log.Printf("Reminder sent to %s, but no SID returned", phone)
	}

	entry := models.NotificationLog{
		UserID:       schedule.Child.ParentID,
		ScheduleID:   schedule.ID,
		Type:         "upcoming_schedule",
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to log reminder for schedule %s: %v", schedule.ID, err)
	}
}
