package models

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Машиночитаемые коды ошибок для клиентов API
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeWrongCredentials  = "WRONG_CREDENTIALS"
	ErrCodeDuplicateEmail    = "DUPLICATE_EMAIL"
	ErrCodeDuplicatePhone    = "DUPLICATE_PHONE"
	ErrCodeDuplicateTelegram = "DUPLICATE_TELEGRAM"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeAccountState      = "ACCOUNT_STATE"
	ErrCodeTokenInvalid      = "TOKEN_INVALID"
	ErrCodeTokenExpired      = "TOKEN_EXPIRED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)
