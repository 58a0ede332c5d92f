package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// Тесты для hashPassword и checkPasswordHash

func TestHashAndCheckPassword(t *testing.T) {
	password := "mysecretpassword"
	pepper := "test-pepper-for-unit-tests"

	// 1. Тест hashPassword
	hashedPassword, err := hashPassword(password, pepper)
	require.NoError(t, err, "hashPassword should not return an error")
	require.NotEmpty(t, hashedPassword, "hashPassword should return a non-empty string")
	assert.NotEqual(t, password, hashedPassword, "Hashed password should not be equal to the original password")

	// 2. Тест checkPasswordHash - Успех
	match := checkPasswordHash(password, hashedPassword, pepper)
	assert.True(t, match, "checkPasswordHash should return true for correct password and pepper")

	// 3. Тест checkPasswordHash - Неверный пароль
	match = checkPasswordHash("wrongpassword", hashedPassword, pepper)
	assert.False(t, match, "checkPasswordHash should return false for incorrect password")

	// 4. Тест checkPasswordHash - Неверный перец
	match = checkPasswordHash(password, hashedPassword, "another-pepper")
	assert.False(t, match, "checkPasswordHash should return false for incorrect pepper")

	// 5. Тест checkPasswordHash - Невалидный хеш
	match = checkPasswordHash(password, "not-a-bcrypt-hash", pepper)
	assert.False(t, match, "checkPasswordHash should return false for invalid hash format")
}

func validInput() *RegisterInput {
	return &RegisterInput{
		Email:       "temirbolat@example.com",
		Phone:       "+77011234567",
		FirstName:   "Temirbolat",
		Password:    "secret",
		Gender:      models.GenderMale,
		MonthBudget: 80000,
	}
}

func TestValidateRegisterInput(t *testing.T) {
	require.NoError(t, validateRegisterInput(validInput()))

	tests := []struct {
		name   string
		mutate func(in *RegisterInput)
	}{
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"bad phone", func(in *RegisterInput) { in.Phone = "12" }},
		{"phone with letters", func(in *RegisterInput) { in.Phone = "+77Ol1234567" }},
		{"blank first name", func(in *RegisterInput) { in.FirstName = "" }},
		{"blank password", func(in *RegisterInput) { in.Password = "" }},
		{"bad gender", func(in *RegisterInput) { in.Gender = "Z" }},
		{"negative budget", func(in *RegisterInput) { in.MonthBudget = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(in)
			err := validateRegisterInput(in)
			require.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestPhoneRegexp(t *testing.T) {
	valid := []string{
		"+77011234567",
		"7011234567",
		"(701) 123 4567",
		"701-123-4567",
		"701.123.456789",
	}
	for _, phone := range valid {
		assert.True(t, phoneRegexp.MatchString(phone), "expected %q to be valid", phone)
	}

	invalid := []string{
		"",
		"12345",
		"phone",
		"+7 (701) 123-45-67-89-01",
	}
	for _, phone := range invalid {
		assert.False(t, phoneRegexp.MatchString(phone), "expected %q to be invalid", phone)
	}
}
