package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
	"github.com/MaratulyTemirbolat/roommate-back/internal/service"
	"github.com/MaratulyTemirbolat/roommate-back/internal/utils"
)

func pathUserID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id must be an integer: %w", models.ErrValidation)
	}
	return id, nil
}

// registerUser handles POST /api/v1/auths/users/register_user. The new user
// is logged in right away, so the response carries the profile and a token
// pair.
func (h *Handler) registerUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindingError(c, err)
		return
	}

	districtIDs, err := parseIDList(req.Districts)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	subCategoryIDs, err := parseIDList(req.SubCategories)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	input := &service.RegisterInput{
		Email:            req.Email,
		Phone:            req.Phone,
		FirstName:        req.FirstName,
		Password:         req.Password,
		TelegramUsername: req.TelegramUsername,
		TelegramUserID:   req.TelegramUserID,
		Gender:           models.Gender(req.Gender),
		MonthBudget:      req.MonthBudget,
		Comment:          req.Comment,
		PhotoURL:         req.PhotoURL,
		DistrictIDs:      districtIDs,
		SubCategoryIDs:   subCategoryIDs,
	}

	// Служебные флаги доступны только персоналу
	if actor := currentUser(c); actor != nil && actor.IsStaff {
		input.IsStaff = req.IsStaff
		input.IsSuperuser = req.IsSuperuser
	}

	user, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// Сразу логиним нового пользователя: выдаем пару токенов и ставим last_login
	_, td, err := h.authService.Login(c.Request.Context(), user.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// Перечитываем профиль, чтобы отдать его вместе с прикрепленными районами
	profile, err := h.userService.GetUser(c.Request.Context(), user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	registrationsTotal.Inc()
	c.JSON(http.StatusCreated, authResponse{
		User:    toUserResponse(profile),
		Access:  td.AccessToken,
		Refresh: td.RefreshToken,
	})
}

// login handles POST /api/v1/auths/users/login. login_data may be an email,
// a phone number, or a telegram handle.
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindingError(c, err)
		return
	}

	user, td, err := h.authService.Login(c.Request.Context(), req.LoginData, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	profile, err := h.userService.GetUser(c.Request.Context(), user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	loginsTotal.Inc()
	c.JSON(http.StatusOK, authResponse{
		User:    toUserResponse(profile),
		Access:  td.AccessToken,
		Refresh: td.RefreshToken,
	})
}

// listCandidates handles GET /api/v1/auths/users, the roommate search.
func (h *Handler) listCandidates(c *gin.Context) {
	filter, err := service.ParseCandidateFilter(c.Request.URL.Query())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	pageParams, err := utils.ParsePageParams(c.Request.URL.Query())
	if err != nil {
		handleServiceError(c, fmt.Errorf("%s: %w", err.Error(), models.ErrValidation))
		return
	}

	requesterID := c.GetInt64(contextUserIDKey)
	candidates, relaxed, err := h.matcherService.FindCandidates(c.Request.Context(), requesterID, filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if relaxed {
		candidateSearchesTotal.WithLabelValues("relaxed").Inc()
	} else {
		candidateSearchesTotal.WithLabelValues("strict").Inc()
	}

	page, meta := utils.PaginateSlice(candidates, pageParams)
	results := make([]userResponse, 0, len(page))
	for i := range page {
		results = append(results, toUserResponse(&page[i]))
	}
	c.JSON(http.StatusOK, newPaginatedResponse(meta, results))
}

// getUser handles GET /api/v1/auths/users/:id.
func (h *Handler) getUser(c *gin.Context) {
	id, err := pathUserID(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// addDistricts handles POST /api/v1/auths/users/add_districts. The caller's
// district set is replaced with the ids from the request.
func (h *Handler) addDistricts(c *gin.Context) {
	var req districtsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindingError(c, err)
		return
	}

	districtIDs, err := parseIDList(req.Districts)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	callerID := c.GetInt64(contextUserIDKey)
	user, err := h.userService.ReplaceDistricts(c.Request.Context(), callerID, callerID, districtIDs)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Handler) accountOperation(c *gin.Context, operation string, targetID int64, fn func(ctx *gin.Context, actorID, targetID int64) error) {
	if err := fn(c, c.GetInt64(contextUserIDKey), targetID); err != nil {
		handleServiceError(c, err)
		return
	}

	accountOperationsTotal.WithLabelValues(operation).Inc()
	c.JSON(http.StatusOK, gin.H{"detail": fmt.Sprintf("Account %s succeeded", operation)})
}

// deactivateAccount handles PATCH /api/v1/auths/users/deactivate.
func (h *Handler) deactivateAccount(c *gin.Context) {
	h.accountOperation(c, "deactivate", c.GetInt64(contextUserIDKey), func(ctx *gin.Context, actorID, targetID int64) error {
		return h.userService.Deactivate(ctx.Request.Context(), actorID, targetID)
	})
}

// activateAccount handles PATCH /api/v1/auths/users/activate.
func (h *Handler) activateAccount(c *gin.Context) {
	h.accountOperation(c, "activate", c.GetInt64(contextUserIDKey), func(ctx *gin.Context, actorID, targetID int64) error {
		return h.userService.Activate(ctx.Request.Context(), actorID, targetID)
	})
}

// confirmAccount handles PATCH /api/v1/auths/users/:id/confirm_account.
func (h *Handler) confirmAccount(c *gin.Context) {
	id, err := pathUserID(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	h.accountOperation(c, "confirm", id, func(ctx *gin.Context, actorID, targetID int64) error {
		return h.userService.ConfirmAccount(ctx.Request.Context(), actorID, targetID)
	})
}

// deleteAccount handles DELETE /api/v1/auths/users (self soft-delete).
func (h *Handler) deleteAccount(c *gin.Context) {
	h.accountOperation(c, "delete", c.GetInt64(contextUserIDKey), func(ctx *gin.Context, actorID, targetID int64) error {
		return h.userService.SoftDelete(ctx.Request.Context(), actorID, targetID)
	})
}

// recoverAccount handles PATCH /api/v1/auths/users/recover.
func (h *Handler) recoverAccount(c *gin.Context) {
	h.accountOperation(c, "recover", c.GetInt64(contextUserIDKey), func(ctx *gin.Context, actorID, targetID int64) error {
		return h.userService.Recover(ctx.Request.Context(), actorID, targetID)
	})
}
