package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// handleServiceError maps service-layer errors onto HTTP statuses.
func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp models.ErrorResponse

	switch {
	case errors.Is(err, models.ErrValidation):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeValidation, Message: err.Error()}
	case errors.Is(err, models.ErrEmailAlreadyExists):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeDuplicateEmail, Message: "User with this email already exists"}
	case errors.Is(err, models.ErrPhoneAlreadyExists):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeDuplicatePhone, Message: "User with this phone already exists"}
	case errors.Is(err, models.ErrTelegramAlreadyExists):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeDuplicateTelegram, Message: "User with this telegram account already exists"}
	case errors.Is(err, models.ErrInvalidCredentials):
		statusCode = http.StatusForbidden
		errResp = models.ErrorResponse{Code: models.ErrCodeWrongCredentials, Message: "Wrong password"}
	case errors.Is(err, models.ErrUserNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeUserNotFound, Message: "User not found"}
	case errors.Is(err, models.ErrCityNotFound), errors.Is(err, models.ErrCategoryNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Message: err.Error()}
	case errors.Is(err, models.ErrForbidden):
		statusCode = http.StatusForbidden
		errResp = models.ErrorResponse{Code: models.ErrCodeForbidden, Message: "You do not have permission to perform this action"}
	case errors.Is(err, models.ErrAccountDeleted), errors.Is(err, models.ErrAccountInactive):
		statusCode = http.StatusForbidden
		errResp = models.ErrorResponse{Code: models.ErrCodeAccountState, Message: err.Error()}
	case errors.Is(err, models.ErrAlreadyDeactivated),
		errors.Is(err, models.ErrAlreadyActivated),
		errors.Is(err, models.ErrAlreadyConfirmed),
		errors.Is(err, models.ErrAlreadyDeleted),
		errors.Is(err, models.ErrNotDeleted):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeAccountState, Message: err.Error()}
	case errors.Is(err, models.ErrTokenInvalid), errors.Is(err, models.ErrTokenMalformed):
		statusCode = http.StatusUnauthorized
		errResp = models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Token is invalid or malformed"}
	case errors.Is(err, models.ErrTokenExpired):
		statusCode = http.StatusUnauthorized
		errResp = models.ErrorResponse{Code: models.ErrCodeTokenExpired, Message: "Token has expired"}
	case errors.Is(err, models.ErrTokenNotFound):
		statusCode = http.StatusUnauthorized
		errResp = models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Provided token is invalid (possibly revoked or expired)"}
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = models.ErrorResponse{Code: models.ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}

// handleBindingError reports malformed request bodies.
func handleBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
		Code:    models.ErrCodeBadRequest,
		Message: "Invalid request body: " + err.Error(),
	})
}
