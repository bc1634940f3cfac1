package services

import (
	"net/http"
	"testing"
	"time"

	"vaccitrack-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildCreateUnderSelf(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)

	svc := NewChildService(db)
	child, err := svc.Create(customer.Identity(), ChildInput{
		FullName:    "Maya",
		DateOfBirth: monthsAgo(3),
	})

	require.NoError(t, err)
	assert.Equal(t, customer.ID, child.ParentID)
}

func TestChildCreateCustomerCannotPickParent(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	other := createUser(t, db, models.RoleCustomer)

	svc := NewChildService(db)
	_, err := svc.Create(customer.Identity(), ChildInput{
		FullName:    "Maya",
		DateOfBirth: monthsAgo(3),
		ParentID:    &other.ID,
	})

	assertServiceError(t, err, http.StatusForbidden)
}

func TestChildCreateStaffPicksParent(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	staff := createUser(t, db, models.RoleStaff)

	svc := NewChildService(db)
	child, err := svc.Create(staff.Identity(), ChildInput{
		FullName:    "Maya",
		DateOfBirth: monthsAgo(3),
		ParentID:    &customer.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, customer.ID, child.ParentID)
}

func TestChildCreateRejectsFutureBirthDate(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)

	svc := NewChildService(db)
	_, err := svc.Create(customer.Identity(), ChildInput{
		FullName:    "Maya",
		DateOfBirth: time.Now().AddDate(0, 1, 0),
	})

	assertServiceError(t, err, http.StatusBadRequest)
}

func TestChildListScopedByOwnership(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	other := createUser(t, db, models.RoleCustomer)
	staff := createUser(t, db, models.RoleStaff)
	createChild(t, db, customer.ID, monthsAgo(10))
	createChild(t, db, other.ID, monthsAgo(20))

	svc := NewChildService(db)

	own, err := svc.List(customer.Identity())
	require.NoError(t, err)
	assert.Len(t, own, 1)

	all, err := svc.List(staff.Identity())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestChildDeleteRemovesSchedulesAndReactions(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	vaccine := createVaccine(t, db, 0, nil, 40)
	schedule := completedSchedule(t, db, child.ID, vaccine.ID)

	reaction := models.Reaction{
		ChildID:      child.ID,
		ScheduleID:   schedule.ID,
		Symptoms:     "rash",
		ReactionDate: time.Now(),
		Severity:     2,
	}
	require.NoError(t, db.Create(&reaction).Error)

	svc := NewChildService(db)
	require.NoError(t, svc.Delete(customer.Identity(), child.ID))

	var schedules, reactions int64
	db.Model(&models.Schedule{}).Where("child_id = ?", child.ID).Count(&schedules)
	db.Model(&models.Reaction{}).Where("child_id = ?", child.ID).Count(&reactions)
	assert.Zero(t, schedules)
	assert.Zero(t, reactions)
}
