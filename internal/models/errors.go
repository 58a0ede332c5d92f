package models

import "errors"

// Application-wide standard errors
var (
	// User & Authentication Errors
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("user with this email already exists")
	ErrPhoneAlreadyExists    = errors.New("user with this phone already exists")
	ErrTelegramAlreadyExists = errors.New("user with this telegram account already exists")
	ErrInvalidCredentials    = errors.New("invalid login or password")
	ErrValidation            = errors.New("validation error")
	ErrForbidden             = errors.New("forbidden")
	ErrAccountDeleted        = errors.New("account is deleted")
	ErrAccountInactive       = errors.New("account is not active")

	// Account lifecycle (idempotence guards; "already in that state" is reported, not silent)
	ErrAlreadyDeactivated = errors.New("account is already deactivated")
	ErrAlreadyActivated   = errors.New("account is already activated")
	ErrAlreadyConfirmed   = errors.New("account is already confirmed")
	ErrAlreadyDeleted     = errors.New("account is already deleted")
	ErrNotDeleted         = errors.New("account is not deleted")

	// Reference data
	ErrCityNotFound     = errors.New("city not found")
	ErrCategoryNotFound = errors.New("category not found")

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenNotFound  = errors.New("token not found in storage")
)
