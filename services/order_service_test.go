package services

import (
	"net/http"
	"testing"
	"time"

	"vaccitrack-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCreateSumsVaccinePrices(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	cheap := createVaccine(t, db, 0, nil, 40)
	pricey := createVaccine(t, db, 0, nil, 110)

	first := createSchedule(t, db, child.ID, cheap.ID, time.Now().AddDate(0, 0, 3), models.SchedulePending)
	second := createSchedule(t, db, child.ID, pricey.ID, time.Now().AddDate(0, 0, 10), models.ScheduleConfirmed)

	svc := NewOrderService(db)
	order, err := svc.Create(customer.Identity(), OrderInput{
		ScheduleIDs: []uuid.UUID{first.ID, second.ID},
	})

	require.NoError(t, err)
	assert.Equal(t, 150.0, order.TotalAmount)
	assert.Equal(t, 150.0, order.FinalAmount)
	assert.False(t, order.Paid)
	assert.NotEmpty(t, order.OrderNumber)

	var attached models.Schedule
	require.NoError(t, db.First(&attached, "id = ?", first.ID).Error)
	require.NotNil(t, attached.OrderID)
	assert.Equal(t, order.ID, *attached.OrderID)
}

func TestOrderCreateRejectsCancelledSchedule(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	vaccine := createVaccine(t, db, 0, nil, 40)
	schedule := createSchedule(t, db, child.ID, vaccine.ID, time.Now().AddDate(0, 0, 3), models.ScheduleCancelled)

	svc := NewOrderService(db)
	_, err := svc.Create(customer.Identity(), OrderInput{ScheduleIDs: []uuid.UUID{schedule.ID}})

	assertServiceError(t, err, http.StatusBadRequest)
}

func TestOrderCreateConflictsOnAlreadyBilledSchedule(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	vaccine := createVaccine(t, db, 0, nil, 40)
	schedule := createSchedule(t, db, child.ID, vaccine.ID, time.Now().AddDate(0, 0, 3), models.SchedulePending)

	svc := NewOrderService(db)
	_, err := svc.Create(customer.Identity(), OrderInput{ScheduleIDs: []uuid.UUID{schedule.ID}})
	require.NoError(t, err)

	_, err = svc.Create(customer.Identity(), OrderInput{ScheduleIDs: []uuid.UUID{schedule.ID}})
	assertServiceError(t, err, http.StatusConflict)
}

func TestOrderCreateForbiddenForOthersSchedules(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	stranger := createUser(t, db, models.RoleCustomer)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	vaccine := createVaccine(t, db, 0, nil, 40)
	schedule := createSchedule(t, db, child.ID, vaccine.ID, time.Now().AddDate(0, 0, 3), models.SchedulePending)

	svc := NewOrderService(db)
	_, err := svc.Create(stranger.Identity(), OrderInput{ScheduleIDs: []uuid.UUID{schedule.ID}})

	assertServiceError(t, err, http.StatusForbidden)
}

func TestOrderCreateStaffOnBehalfOfCustomer(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	staff := createUser(t, db, models.RoleStaff)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	vaccine := createVaccine(t, db, 0, nil, 40)
	schedule := createSchedule(t, db, child.ID, vaccine.ID, time.Now().AddDate(0, 0, 3), models.SchedulePending)

	svc := NewOrderService(db)
	order, err := svc.Create(staff.Identity(), OrderInput{
		ScheduleIDs: []uuid.UUID{schedule.ID},
		UserID:      &customer.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, customer.ID, order.UserID)
}

func TestOrderApplyDiscountFloorsFinalAmount(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	staff := createUser(t, db, models.RoleStaff)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	vaccine := createVaccine(t, db, 0, nil, 40)
	schedule := createSchedule(t, db, child.ID, vaccine.ID, time.Now().AddDate(0, 0, 3), models.SchedulePending)

	svc := NewOrderService(db)
	order, err := svc.Create(customer.Identity(), OrderInput{ScheduleIDs: []uuid.UUID{schedule.ID}})
	require.NoError(t, err)

	_, err = svc.ApplyDiscount(customer.Identity(), order.ID, 10)
	assertServiceError(t, err, http.StatusForbidden)

	discounted, err := svc.ApplyDiscount(staff.Identity(), order.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, discounted.FinalAmount)
}

func TestOrderDeleteDetachesSchedules(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	admin := createUser(t, db, models.RoleAdmin)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	vaccine := createVaccine(t, db, 0, nil, 40)
	schedule := createSchedule(t, db, child.ID, vaccine.ID, time.Now().AddDate(0, 0, 3), models.SchedulePending)

	svc := NewOrderService(db)
	order, err := svc.Create(customer.Identity(), OrderInput{ScheduleIDs: []uuid.UUID{schedule.ID}})
	require.NoError(t, err)

	assertServiceError(t, svc.Delete(customer.Identity(), order.ID), http.StatusForbidden)
	require.NoError(t, svc.Delete(admin.Identity(), order.ID))

	var detached models.Schedule
	require.NoError(t, db.First(&detached, "id = ?", schedule.ID).Error)
	assert.Nil(t, detached.OrderID)
}
