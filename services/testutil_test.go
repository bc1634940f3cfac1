package services

import (
	"testing"
	"time"

	"vaccitrack-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Child{},
		&models.Vaccine{},
		&models.Schedule{},
		&models.Order{},
		&models.Payment{},
		&models.Reaction{},
		&models.Feedback{},
		&models.NotificationLog{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	suffix := uuid.NewString()[:8]
	user := models.User{
		Username: "user-" + suffix,
		Email:    suffix + "@example.com",
		Password: "secret123",
		FullName: "Test User " + suffix,
		Role:     role,
		Enabled:  true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createChild(t *testing.T, db *gorm.DB, parentID uuid.UUID, dateOfBirth time.Time) *models.Child {
	t.Helper()

	child := models.Child{
		ParentID:    parentID,
		FullName:    "Test Child",
		DateOfBirth: dateOfBirth,
	}
	require.NoError(t, db.Create(&child).Error)
	return &child
}

func createVaccine(t *testing.T, db *gorm.DB, minAgeMonths int, maxAgeMonths *int, price float64) *models.Vaccine {
	t.Helper()

	vaccine := models.Vaccine{
		Name:          "Vaccine " + uuid.NewString()[:8],
		Type:          models.VaccineMandatory,
		MinAgeMonths:  minAgeMonths,
		MaxAgeMonths:  maxAgeMonths,
		Price:         price,
		DosesRequired: 3,
	}
	require.NoError(t, db.Create(&vaccine).Error)
	return &vaccine
}

func createSchedule(t *testing.T, db *gorm.DB, childID, vaccineID uuid.UUID, at time.Time, status models.ScheduleStatus) *models.Schedule {
	t.Helper()

	schedule := models.Schedule{
		ChildID:      childID,
		VaccineID:    vaccineID,
		ScheduleDate: at,
		Status:       status,
		DoseNumber:   1,
	}
	require.NoError(t, db.Create(&schedule).Error)
	return &schedule
}

// monthsAgo returns a birth date that makes a child exactly the given
// number of whole months old today.
func monthsAgo(months int) time.Time {
	return time.Now().AddDate(0, -months, -1)
}
