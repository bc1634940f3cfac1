package services

import (
	"net/http"
	"testing"
	"time"

	"vaccitrack-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackCreateGeneral(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)

	svc := NewFeedbackService(db)
	feedback, err := svc.Create(customer.Identity(), FeedbackInput{
		Rating:  4,
		Comment: "friendly staff",
	})

	require.NoError(t, err)
	assert.Equal(t, customer.ID, feedback.UserID)
	assert.Nil(t, feedback.ScheduleID)
}

func TestFeedbackCreateRejectsBadRating(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)

	svc := NewFeedbackService(db)

	_, err := svc.Create(customer.Identity(), FeedbackInput{Rating: 0})
	assertServiceError(t, err, http.StatusBadRequest)

	_, err = svc.Create(customer.Identity(), FeedbackInput{Rating: 6})
	assertServiceError(t, err, http.StatusBadRequest)
}

func TestFeedbackCreateRequiresCompletedSchedule(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	vaccine := createVaccine(t, db, 6, nil, 50)
	schedule := createSchedule(t, db, child.ID, vaccine.ID, time.Now().AddDate(0, 0, 7), models.SchedulePending)

	svc := NewFeedbackService(db)
	_, err := svc.Create(customer.Identity(), FeedbackInput{
		Rating:     5,
		ScheduleID: &schedule.ID,
	})

	assertServiceError(t, err, http.StatusBadRequest)
}

func TestFeedbackCreateRejectsDuplicatePerSchedule(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	vaccine := createVaccine(t, db, 6, nil, 50)
	schedule := createSchedule(t, db, child.ID, vaccine.ID, time.Now().AddDate(0, 0, -7), models.ScheduleCompleted)

	svc := NewFeedbackService(db)

	_, err := svc.Create(customer.Identity(), FeedbackInput{Rating: 5, ScheduleID: &schedule.ID})
	require.NoError(t, err)

	_, err = svc.Create(customer.Identity(), FeedbackInput{Rating: 3, ScheduleID: &schedule.ID})
	assertServiceError(t, err, http.StatusBadRequest)
}

func TestFeedbackCreateForbiddenForOthersSchedule(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	stranger := createUser(t, db, models.RoleCustomer)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	vaccine := createVaccine(t, db, 6, nil, 50)
	schedule := createSchedule(t, db, child.ID, vaccine.ID, time.Now().AddDate(0, 0, -7), models.ScheduleCompleted)

	svc := NewFeedbackService(db)
	_, err := svc.Create(stranger.Identity(), FeedbackInput{Rating: 5, ScheduleID: &schedule.ID})

	assertServiceError(t, err, http.StatusForbidden)
}

func TestFeedbackRespondStaffOnly(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	staff := createUser(t, db, models.RoleStaff)

	svc := NewFeedbackService(db)
	feedback, err := svc.Create(customer.Identity(), FeedbackInput{Rating: 2, Comment: "long wait"})
	require.NoError(t, err)

	_, err = svc.Respond(customer.Identity(), feedback.ID, "sorry about that")
	assertServiceError(t, err, http.StatusForbidden)

	responded, err := svc.Respond(staff.Identity(), feedback.ID, "we have added a second nurse")
	require.NoError(t, err)
	assert.Equal(t, "we have added a second nurse", responded.StaffResponse)
	assert.NotNil(t, responded.RespondedAt)
}

func TestFeedbackListScopedByRole(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	other := createUser(t, db, models.RoleCustomer)
	staff := createUser(t, db, models.RoleStaff)

	svc := NewFeedbackService(db)
	_, err := svc.Create(customer.Identity(), FeedbackInput{Rating: 4})
	require.NoError(t, err)
	_, err = svc.Create(other.Identity(), FeedbackInput{Rating: 5})
	require.NoError(t, err)

	own, err := svc.List(customer.Identity())
	require.NoError(t, err)
	assert.Len(t, own, 1)

	all, err := svc.List(staff.Identity())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFeedbackDeleteAuthorOrAdmin(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	stranger := createUser(t, db, models.RoleCustomer)
	admin := createUser(t, db, models.RoleAdmin)

	svc := NewFeedbackService(db)
	first, err := svc.Create(customer.Identity(), FeedbackInput{Rating: 4})
	require.NoError(t, err)
	second, err := svc.Create(customer.Identity(), FeedbackInput{Rating: 3})
	require.NoError(t, err)

	assertServiceError(t, svc.Delete(stranger.Identity(), first.ID), http.StatusForbidden)
	require.NoError(t, svc.Delete(customer.Identity(), first.ID))
	require.NoError(t, svc.Delete(admin.Identity(), second.ID))
}
