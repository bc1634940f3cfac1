package services

import (
	"net/http"
	"testing"
	"time"

	"vaccitrack-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaccineCreateStaffOnly(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	staff := createUser(t, db, models.RoleStaff)

	svc := NewVaccineService(db)
	input := VaccineInput{Name: "MMR", Type: models.VaccineMandatory, MinAgeMonths: 12, Price: 85}

	_, err := svc.Create(customer.Identity(), input)
	assertServiceError(t, err, http.StatusForbidden)

	vaccine, err := svc.Create(staff.Identity(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, vaccine.DosesRequired)
}

func TestVaccineCreateRejectsDuplicateName(t *testing.T) {
	db := newTestDB(t)
	staff := createUser(t, db, models.RoleStaff)

	svc := NewVaccineService(db)
	input := VaccineInput{Name: "Polio", Type: models.VaccineMandatory, Price: 30}

	_, err := svc.Create(staff.Identity(), input)
	require.NoError(t, err)

	_, err = svc.Create(staff.Identity(), input)
	assertServiceError(t, err, http.StatusConflict)
}

func TestVaccineCreateRejectsInvertedAgeWindow(t *testing.T) {
	db := newTestDB(t)
	staff := createUser(t, db, models.RoleStaff)

	max := 6
	svc := NewVaccineService(db)
	_, err := svc.Create(staff.Identity(), VaccineInput{
		Name:         "Backwards",
		Type:         models.VaccineOptional,
		MinAgeMonths: 12,
		MaxAgeMonths: &max,
	})

	assertServiceError(t, err, http.StatusBadRequest)
}

func TestVaccineListSuitableForAge(t *testing.T) {
	db := newTestDB(t)
	max := 24
	createVaccine(t, db, 6, &max, 50) // suitable for 6 to 24 months
	createVaccine(t, db, 36, nil, 70)
	infant := createVaccine(t, db, 0, nil, 20) // suitable at any age

	svc := NewVaccineService(db)

	forTen, err := svc.ListSuitableForAge(10)
	require.NoError(t, err)
	assert.Len(t, forTen, 2)

	forThirty, err := svc.ListSuitableForAge(30)
	require.NoError(t, err)
	require.Len(t, forThirty, 1)
	assert.Equal(t, infant.ID, forThirty[0].ID)
}

func TestVaccineDeleteBlockedByActiveSchedules(t *testing.T) {
	db := newTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	admin := createUser(t, db, models.RoleAdmin)
	child := createChild(t, db, customer.ID, monthsAgo(10))
	vaccine := createVaccine(t, db, 0, nil, 40)
	schedule := createSchedule(t, db, child.ID, vaccine.ID, time.Now().AddDate(0, 0, 3), models.SchedulePending)

	svc := NewVaccineService(db)
	assertServiceError(t, svc.Delete(admin.Identity(), vaccine.ID), http.StatusConflict)

	require.NoError(t, db.Model(schedule).Update("status", models.ScheduleCancelled).Error)
	require.NoError(t, svc.Delete(admin.Identity(), vaccine.ID))
}

func TestVaccineDeleteAdminOnly(t *testing.T) {
	db := newTestDB(t)
	staff := createUser(t, db, models.RoleStaff)
	vaccine := createVaccine(t, db, 0, nil, 40)

	svc := NewVaccineService(db)
	assertServiceError(t, svc.Delete(staff.Identity(), vaccine.ID), http.StatusForbidden)
}
