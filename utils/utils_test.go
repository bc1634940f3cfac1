package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	start := time.Date(2026, time.January, 1, 15, 30, 0, 0, time.UTC)
	end := time.Date(2026, time.January, 4, 2, 0, 0, 0, time.UTC)

	// Time of day does not matter, only calendar days
	assert.Equal(t, 3, DaysBetween(start, end))
	assert.Equal(t, 0, DaysBetween(start, start))
}

func TestBeginningAndEndOfDay(t *testing.T) {
	at := time.Date(2026, time.March, 10, 14, 22, 9, 0, time.UTC)

	assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), BeginningOfDay(at))
	assert.Equal(t, time.Date(2026, time.March, 10, 23, 59, 59, 0, time.UTC), EndOfDay(at))
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+6281234567890"))
	assert.True(t, ValidatePhone("62-812-3456-789"))
	assert.True(t, ValidatePhone("(628) 1234 5678"))
	assert.False(t, ValidatePhone("not-a-number"))
	assert.False(t, ValidatePhone("081-234-5678")) // leading zero
	assert.False(t, ValidatePhone("+0123"))
	assert.False(t, ValidatePhone(""))
}

func TestValidRatingScale(t *testing.T) {
	assert.False(t, ValidRatingScale(0))
	assert.True(t, ValidRatingScale(1))
	assert.True(t, ValidRatingScale(5))
	assert.False(t, ValidRatingScale(6))
}

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(6)
	assert.Len(t, s, 6)

	// No ambiguous characters in the alphabet
	assert.NotContains(t, s, "0")
	assert.NotContains(t, s, "O")
	assert.NotContains(t, s, "1")
	assert.NotContains(t, s, "I")
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2secret")
	assert.NoError(t, err)
	assert.NotEqual(t, "hunter2secret", hash)

	assert.True(t, CheckPasswordHash("hunter2secret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
