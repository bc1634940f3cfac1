package services

import (
	"net/http"
	"testing"
	"time"

	"vaccitrack-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func completedSchedule(t *testing.T, db *gorm.DB, childID, vaccineID uuid.UUID) *models.Schedule {
	t.Helper()
	return createSchedule(t, db, childID, vaccineID, time.Now().AddDate(0, 0, -7), models.ScheduleCompleted)
}

func TestReactionCreateValid(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	vaccine := createVaccine(t, db, 0, nil, 40)
	schedule := completedSchedule(t, db, child.ID, vaccine.ID)

	svc := NewReactionService(db)
	reaction, err := svc.Create(customer.Identity(), ReactionInput{
		ChildID:      child.ID,
		ScheduleID:   schedule.ID,
		Symptoms:     "mild fever",
		ReactionDate: time.Now().AddDate(0, 0, -6),
		Severity:     2,
	})

	require.NoError(t, err)
	assert.False(t, reaction.Resolved)
	assert.False(t, reaction.IsSevere())
}

func TestReactionCreateRequiresCompletedSchedule(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	vaccine := createVaccine(t, db, 0, nil, 40)
	schedule := createSchedule(t, db, child.ID, vaccine.ID, time.Now().AddDate(0, 0, 7), models.SchedulePending)

	svc := NewReactionService(db)
	_, err := svc.Create(customer.Identity(), ReactionInput{
		ChildID:      child.ID,
		ScheduleID:   schedule.ID,
		Symptoms:     "rash",
		ReactionDate: time.Now(),
		Severity:     2,
	})

	assertServiceError(t, err, http.StatusBadRequest)
}

func TestReactionCreateRejectsMismatchedChild(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	first := createChild(t, db, customer.ID, monthsAgo(10))
	second := createChild(t, db, customer.ID, monthsAgo(24))
	vaccine := createVaccine(t, db, 0, nil, 40)
	schedule := completedSchedule(t, db, first.ID, vaccine.ID)

	svc := NewReactionService(db)
	_, err := svc.Create(customer.Identity(), ReactionInput{
		ChildID:      second.ID,
		ScheduleID:   schedule.ID,
		Symptoms:     "rash",
		ReactionDate: time.Now(),
		Severity:     2,
	})

	assertServiceError(t, err, http.StatusBadRequest)
}

func TestReactionCreateRejectsSeverityOutOfRange(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	vaccine := createVaccine(t, db, 0, nil, 40)
	schedule := completedSchedule(t, db, child.ID, vaccine.ID)

	svc := NewReactionService(db)
	_, err := svc.Create(customer.Identity(), ReactionInput{
		ChildID:      child.ID,
		ScheduleID:   schedule.ID,
		Symptoms:     "rash",
		ReactionDate: time.Now(),
		Severity:     7,
	})

	assertServiceError(t, err, http.StatusBadRequest)
}

func TestReactionUnresolvedSevereQueue(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	staff := createUser(t, db, models.RoleStaff)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	vaccine := createVaccine(t, db, 0, nil, 40)
	mildSchedule := completedSchedule(t, db, child.ID, vaccine.ID)
	severeSchedule := completedSchedule(t, db, child.ID, vaccine.ID)

	svc := NewReactionService(db)

	_, err := svc.Create(customer.Identity(), ReactionInput{
		ChildID: child.ID, ScheduleID: mildSchedule.ID,
		Symptoms: "sore arm", ReactionDate: time.Now(), Severity: 1,
	})
	require.NoError(t, err)

	severe, err := svc.Create(customer.Identity(), ReactionInput{
		ChildID: child.ID, ScheduleID: severeSchedule.ID,
		Symptoms: "high fever", ReactionDate: time.Now(), Severity: 5,
	})
	require.NoError(t, err)
	assert.True(t, severe.IsSevere())

	queue, err := svc.ListUnresolvedSevere(staff.Identity())
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, severe.ID, queue[0].ID)

	_, err = svc.Resolve(staff.Identity(), severe.ID, "advised paracetamol, recovered")
	require.NoError(t, err)

	queue, err = svc.ListUnresolvedSevere(staff.Identity())
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestReactionResolveStaffOnlyAndOnce(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	staff := createUser(t, db, models.RoleStaff)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	vaccine := createVaccine(t, db, 0, nil, 40)
	schedule := completedSchedule(t, db, child.ID, vaccine.ID)

	svc := NewReactionService(db)
	reaction, err := svc.Create(customer.Identity(), ReactionInput{
		ChildID: child.ID, ScheduleID: schedule.ID,
		Symptoms: "swelling", ReactionDate: time.Now(), Severity: 4,
	})
	require.NoError(t, err)

	_, err = svc.Resolve(customer.Identity(), reaction.ID, "")
	assertServiceError(t, err, http.StatusForbidden)

	resolved, err := svc.Resolve(staff.Identity(), reaction.ID, "observed, subsided")
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)
	assert.NotNil(t, resolved.ResolvedDate)

	_, err = svc.Resolve(staff.Identity(), reaction.ID, "again")
	assertServiceError(t, err, http.StatusBadRequest)
}
