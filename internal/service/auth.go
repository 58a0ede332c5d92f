package service

import (
	"context"

	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// RegisterInput carries everything a new profile may be created with.
// IsStaff and IsSuperuser are honored only when the caller is staff;
// the handler zeroes them otherwise.
type RegisterInput struct {
	Email            string
	Phone            string
	FirstName        string
	Password         string
	TelegramUsername *string
	TelegramUserID   *int64
	Gender           models.Gender
	MonthBudget      int64
	Comment          *string
	PhotoURL         *string
	DistrictIDs      []int64
	SubCategoryIDs   []int64
	IsStaff          bool
	IsSuperuser      bool
}

// AuthService defines the interface for authentication and authorization logic.
type AuthService interface {
	Register(ctx context.Context, input *RegisterInput) (*models.User, error)
	Login(ctx context.Context, loginData, password string) (*models.User, *models.TokenDetails, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenDetails, error)
	VerifyAccessToken(ctx context.Context, tokenString string) (*models.Claims, error)
}
