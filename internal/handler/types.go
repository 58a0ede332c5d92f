package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
	"github.com/MaratulyTemirbolat/roommate-back/internal/utils"
)

// --- Requests ---

type registerRequest struct {
	Email            string  `json:"email" binding:"required"`
	Phone            string  `json:"phone" binding:"required"`
	FirstName        string  `json:"first_name" binding:"required"`
	Password         string  `json:"password" binding:"required"`
	TelegramUsername *string `json:"telegram_username"`
	TelegramUserID   *int64  `json:"telegram_user_id"`
	Gender           string  `json:"gender" binding:"required"`
	MonthBudget      int64   `json:"month_budjet"`
	Comment          *string `json:"comment"`
	PhotoURL         *string `json:"photo_url"`
	// Districts and SubCategories carry comma-separated id lists, wire format
	// inherited from the original API.
	Districts     string `json:"districts"`
	SubCategories string `json:"subcategories"`
	IsStaff       bool   `json:"is_staff"`
	IsSuperuser   bool   `json:"is_superuser"`
}

type loginRequest struct {
	LoginData string `json:"login_data" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type tokenObtainRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenRefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type tokenVerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

type districtsRequest struct {
	Districts string `json:"districts" binding:"required"`
}

type createCityRequest struct {
	Name string `json:"name" binding:"required"`
}

type createDistrictRequest struct {
	Name string `json:"name" binding:"required"`
}

// parseIDList splits a comma-separated id list ("1,2,3") into int64s.
// An empty string yields nil.
func parseIDList(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, models.ErrValidation)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// --- Responses ---

type cityResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type districtResponse struct {
	ID   int64         `json:"id"`
	Name string        `json:"name"`
	City *cityResponse `json:"city,omitempty"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type subCategoryResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CategoryID int64  `json:"category_id"`
}

// userResponse is the profile shape shared by the candidate list and the
// detail endpoint.
type userResponse struct {
	ID                 int64              `json:"id"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone"`
	FirstName          string             `json:"first_name"`
	TelegramUsername   *string            `json:"telegram_username"`
	Gender             models.Gender      `json:"gender"`
	IsActive           bool               `json:"is_active"`
	MonthBudget        int64              `json:"month_budjet"`
	Comment            *string            `json:"comment"`
	Photo              *string            `json:"photo"`
	Districts          []districtResponse `json:"districts"`
	IsSuperuser        bool               `json:"is_superuser"`
	IsActiveAccount    bool               `json:"is_active_account"`
	IsConfirmedAccount bool               `json:"is_confirmed_account"`
	LastLogin          *time.Time         `json:"last_login"`
	IsDeleted          bool               `json:"is_deleted"`
	DatetimeCreated    time.Time          `json:"datetime_created"`
}

type tokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// authResponse is returned by register_user and login: profile plus tokens.
type authResponse struct {
	User    userResponse `json:"user"`
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
}

// paginatedResponse is the page-number envelope used on list endpoints.
type paginatedResponse struct {
	Count    int  `json:"count"`
	Next     *int `json:"next"`
	Previous *int `json:"previous"`
	Results  any  `json:"results"`
}

func newPaginatedResponse(meta utils.PageMeta, results any) paginatedResponse {
	return paginatedResponse{
		Count:    meta.Count,
		Next:     meta.Next,
		Previous: meta.Previous,
		Results:  results,
	}
}

// --- Serializers ---

func toDistrictResponses(districts []models.District) []districtResponse {
	result := make([]districtResponse, 0, len(districts))
	for _, d := range districts {
		resp := districtResponse{ID: d.ID, Name: d.Name}
		if d.City != nil {
			resp.City = &cityResponse{ID: d.City.ID, Name: d.City.Name}
		}
		result = append(result, resp)
	}
	return result
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Phone:              user.Phone,
		FirstName:          user.FirstName,
		TelegramUsername:   user.TelegramUsername,
		Gender:             user.Gender,
		IsActive:           user.IsActive,
		MonthBudget:        user.MonthBudget,
		Comment:            user.Comment,
		Photo:              user.Photo,
		Districts:          toDistrictResponses(user.Districts),
		IsSuperuser:        user.IsSuperuser,
		IsActiveAccount:    user.IsActiveAccount,
		IsConfirmedAccount: user.IsConfirmedAccount,
		LastLogin:          user.LastLogin,
		IsDeleted:          user.IsDeleted(),
		DatetimeCreated:    user.DatetimeCreated,
	}
}
