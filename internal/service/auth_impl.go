package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/MaratulyTemirbolat/roommate-back/internal/config"
	"github.com/MaratulyTemirbolat/roommate-back/internal/interfaces"
	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// Compile-time check to ensure authServiceImpl implements AuthService
var _ AuthService = (*authServiceImpl)(nil)

// Телефон в международном формате, например +7 701 123 4567
var phoneRegexp = regexp.MustCompile(`^[\+]?[(]?[0-9]{3}[)]?[-\s\.]?[0-9]{3}[-\s\.]?[0-9]{4,6}$`)

// authServiceImpl implements the AuthService interface.
type authServiceImpl struct {
	userRepo   interfaces.UserRepository
	tokenRepo  interfaces.TokenRepository
	cfg        *config.Config
	logger     *zap.Logger
	httpClient *http.Client
}

// NewAuthService creates a new instance of authServiceImpl.
func NewAuthService(userRepo interfaces.UserRepository, tokenRepo interfaces.TokenRepository, cfg *config.Config, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
		logger:    logger.Named("AuthService"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func validateRegisterInput(input *RegisterInput) error {
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return fmt.Errorf("invalid email format: %w", models.ErrValidation)
	}
	if !phoneRegexp.MatchString(input.Phone) {
		return fmt.Errorf("invalid phone format: %w", models.ErrValidation)
	}
	if input.FirstName == "" {
		return fmt.Errorf("first name must not be blank: %w", models.ErrValidation)
	}
	if input.Password == "" {
		return fmt.Errorf("password must not be blank: %w", models.ErrValidation)
	}
	if !input.Gender.Valid() {
		return fmt.Errorf("gender must be %q or %q: %w", models.GenderMale, models.GenderFemale, models.ErrValidation)
	}
	if input.MonthBudget < 0 {
		return fmt.Errorf("month_budjet must not be negative: %w", models.ErrValidation)
	}
	return nil
}

// Register creates a new user profile with its districts and hobbies.
func (s *authServiceImpl) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {
	// Приводим email к нижнему регистру и убираем пробелы
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	input.FirstName = strings.TrimSpace(input.FirstName)

	logFields := []zap.Field{zap.String("email", input.Email), zap.String("phone", input.Phone)}
	s.logger.Info("Registering new user", logFields...)

	if err := validateRegisterInput(input); err != nil {
		s.logger.Warn("Registration attempt with invalid data", append(logFields, zap.Error(err))...)
		return nil, err
	}

	// Используем перец перед хешированием
	hashedPassword, err := hashPassword(input.Password, s.cfg.PasswordPepper)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:            input.Email,
		Phone:            input.Phone,
		FirstName:        input.FirstName,
		TelegramUsername: input.TelegramUsername,
		TelegramUserID:   input.TelegramUserID,
		Gender:           input.Gender,
		MonthBudget:      input.MonthBudget,
		Comment:          input.Comment,
		PasswordHash:     hashedPassword,
		IsStaff:          input.IsStaff,
		IsSuperuser:      input.IsSuperuser,
	}

	// Фото скачиваем заранее, чтобы путь попал в INSERT. Неудача не
	// останавливает регистрацию.
	if input.PhotoURL != nil && *input.PhotoURL != "" {
		photoPath, err := s.fetchPhoto(ctx, *input.PhotoURL)
		if err != nil {
			s.logger.Warn("Failed to fetch profile photo, continuing without it", append(logFields, zap.Error(err))...)
		} else {
			user.Photo = &photoPath
		}
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		// Ошибки уникальности уже отображены репозиторием в сентинелы
		if !errors.Is(err, models.ErrEmailAlreadyExists) &&
			!errors.Is(err, models.ErrPhoneAlreadyExists) &&
			!errors.Is(err, models.ErrTelegramAlreadyExists) {
			s.logger.Error("Failed to create user via repository", append(logFields, zap.Error(err))...)
		}
		return nil, err
	}

	if len(input.DistrictIDs) > 0 {
		if err := s.userRepo.ReplaceDistricts(ctx, user.ID, input.DistrictIDs); err != nil {
			s.logger.Error("Failed to attach districts during registration", append(logFields, zap.Error(err))...)
			return nil, fmt.Errorf("failed to attach districts: %w", err)
		}
	}
	if len(input.SubCategoryIDs) > 0 {
		if err := s.userRepo.AttachSubCategories(ctx, user.ID, input.SubCategoryIDs); err != nil {
			s.logger.Error("Failed to attach subcategories during registration", append(logFields, zap.Error(err))...)
			return nil, fmt.Errorf("failed to attach subcategories: %w", err)
		}
	}

	s.logger.Info("User registered successfully", append(logFields, zap.Int64("userID", user.ID))...)
	return user, nil
}

// Login authenticates by email, phone or telegram username.
func (s *authServiceImpl) Login(ctx context.Context, loginData, password string) (*models.User, *models.TokenDetails, error) {
	loginData = strings.TrimSpace(loginData)
	logFields := []zap.Field{zap.String("loginData", loginData)}
	s.logger.Info("Attempting login", logFields...)

	user, err := s.userRepo.GetUserByLogin(ctx, loginData)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Warn("Login attempt for unknown user", logFields...)
			return nil, nil, models.ErrUserNotFound
		}
		s.logger.Error("Error getting user during login", append(logFields, zap.Error(err))...)
		return nil, nil, fmt.Errorf("error getting user during login: %w", err)
	}

	// Удалённый профиль для входа не существует
	if user.IsDeleted() {
		s.logger.Warn("Login attempt for soft-deleted user", append(logFields, zap.Int64("userID", user.ID))...)
		return nil, nil, models.ErrUserNotFound
	}

	if !checkPasswordHash(password, user.PasswordHash, s.cfg.PasswordPepper) {
		s.logger.Warn("Invalid password attempt", append(logFields, zap.Int64("userID", user.ID))...)
		return nil, nil, models.ErrInvalidCredentials
	}

	td, err := s.createTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tokens during login: %w", err)
	}

	if err := s.tokenRepo.SetToken(ctx, user.ID, td); err != nil {
		s.logger.Error("Failed to save token details during login", append(logFields, zap.Error(err))...)
		return nil, nil, fmt.Errorf("failed to save token details: %w", err)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Некритично для пользователя, просто фиксируем
		s.logger.Error("Non-critical: failed to update last_login", append(logFields, zap.Error(err))...)
	}

	s.logger.Info("Login successful", append(logFields, zap.Int64("userID", user.ID))...)
	return user, td, nil
}

// Refresh rotates a refresh token into a new token pair.
func (s *authServiceImpl) Refresh(ctx context.Context, refreshTokenString string) (*models.TokenDetails, error) {
	s.logger.Debug("Attempting token refresh")
	token, err := jwt.ParseWithClaims(refreshTokenString, &models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Warn("Refresh attempt with expired token")
			return nil, models.ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			s.logger.Warn("Refresh attempt with malformed token")
			return nil, models.ErrTokenMalformed
		}
		s.logger.Error("Failed to parse refresh token", zap.Error(err))
		return nil, models.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		s.logger.Warn("Refresh attempt with invalid token structure or signature")
		return nil, models.ErrTokenInvalid
	}

	refreshUUID := claims.ID
	s.logger.Debug("Refresh token parsed successfully", zap.Int64("userID", claims.UserID), zap.String("refreshUUID", refreshUUID))

	userID, err := s.tokenRepo.GetUserIDByRefreshUUID(ctx, refreshUUID)
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Warn("Refresh attempt with revoked token", zap.String("refreshUUID", refreshUUID))
			return nil, models.ErrTokenNotFound
		}
		s.logger.Error("Error checking refresh token existence", zap.Error(err), zap.String("refreshUUID", refreshUUID))
		return nil, fmt.Errorf("error checking refresh token existence: %w", err)
	}

	if userID != claims.UserID {
		s.logger.Error("Refresh token user ID mismatch",
			zap.Int64("tokenUserID", claims.UserID), zap.Int64("repoUserID", userID), zap.String("refreshUUID", refreshUUID))
		return nil, models.ErrTokenInvalid
	}

	newTd, err := s.createTokens(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create new tokens during refresh: %w", err)
	}

	// Пытаемся удалить старый refresh. Неудача не блокирует выдачу новой пары.
	if _, delErr := s.tokenRepo.DeleteTokens(ctx, claims.UserID, "", refreshUUID); delErr != nil {
		s.logger.Error("Non-critical: failed to delete old refresh token", zap.Error(delErr), zap.String("refreshUUID", refreshUUID))
	}

	if err := s.tokenRepo.SetToken(ctx, claims.UserID, newTd); err != nil {
		s.logger.Error("Failed to save new token details during refresh", zap.Error(err), zap.Int64("userID", claims.UserID))
		return nil, fmt.Errorf("failed to save new token details: %w", err)
	}

	s.logger.Info("Token refreshed successfully", zap.Int64("userID", claims.UserID))
	return newTd, nil
}

// VerifyAccessToken parses and validates an access token string.
func (s *authServiceImpl) VerifyAccessToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	s.logger.Debug("Verifying access token") // Не логируем сам токен
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Debug("Access token verification failed: expired")
			return nil, models.ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			s.logger.Warn("Access token verification failed: malformed")
			return nil, models.ErrTokenMalformed
		}
		s.logger.Error("Failed to parse access token", zap.Error(err))
		return nil, models.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		s.logger.Warn("Access token verification failed (invalid claims type or signature)")
		return nil, models.ErrTokenInvalid
	}

	accessUUID := claims.ID
	if _, err := s.tokenRepo.GetUserIDByAccessUUID(ctx, accessUUID); err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Debug("Access token not found in store (revoked)", zap.String("accessUUID", accessUUID))
			return nil, models.ErrTokenInvalid
		}
		s.logger.Error("Error checking access token existence", zap.Error(err), zap.String("accessUUID", accessUUID))
		return nil, fmt.Errorf("error checking access token existence: %w", err)
	}

	s.logger.Debug("Access token verified successfully", zap.Int64("userID", claims.UserID), zap.String("accessUUID", accessUUID))
	return claims, nil
}

// fetchPhoto downloads a profile photo into the media root and returns the
// stored path relative to it.
func (s *authServiceImpl) fetchPhoto(ctx context.Context, photoURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photoURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid photo url: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("photo download returned status %d", resp.StatusCode)
	}

	ext := path.Ext(req.URL.Path)
	if ext == "" {
		ext = ".jpg"
	}
	relPath := filepath.Join("photos", uuid.New().String()+ext)
	fullPath := filepath.Join(s.cfg.MediaRoot, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return "", fmt.Errorf("failed to write photo file: %w", err)
	}

	return relPath, nil
}

// applyPepper mixes the password with the server-side pepper via HMAC-SHA256.
func applyPepper(password, pepper string) []byte {
	h := hmac.New(sha256.New, []byte(pepper))
	h.Write([]byte(password))
	return h.Sum(nil)
}

// hashPassword generates a bcrypt hash of the password after applying the pepper.
func hashPassword(password, pepper string) (string, error) {
	pepperedPassword := applyPepper(password, pepper)
	bytes, err := bcrypt.GenerateFromPassword(pepperedPassword, bcrypt.DefaultCost)
	return string(bytes), err
}

// checkPasswordHash compares a plain text password (after applying pepper) with a stored hash.
func checkPasswordHash(password, hash, pepper string) bool {
	pepperedPassword := applyPepper(password, pepper)
	err := bcrypt.CompareHashAndPassword([]byte(hash), pepperedPassword)
	return err == nil
}

// createTokens generates new access and refresh tokens for a user.
func (s *authServiceImpl) createTokens(ctx context.Context, userID int64) (*models.TokenDetails, error) {
	s.logger.Debug("Creating new token pair", zap.Int64("userID", userID))

	td := &models.TokenDetails{}
	now := time.Now()
	td.AtExpires = now.Add(s.cfg.AccessTokenTTL).Unix()
	td.AccessUUID = uuid.New().String()
	td.RtExpires = now.Add(s.cfg.RefreshTokenTTL).Unix()
	td.RefreshUUID = uuid.New().String()

	acClaims := &models.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        td.AccessUUID,
			ExpiresAt: jwt.NewNumericDate(time.Unix(td.AtExpires, 0)),
			Subject:   fmt.Sprintf("%d", userID),
			Issuer:    "roommate-back",
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	acToken := jwt.NewWithClaims(jwt.SigningMethodHS256, acClaims)
	var err error
	td.AccessToken, err = acToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err), zap.Int64("userID", userID))
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	rcClaims := &models.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        td.RefreshUUID,
			ExpiresAt: jwt.NewNumericDate(time.Unix(td.RtExpires, 0)),
			Subject:   fmt.Sprintf("%d", userID),
			Issuer:    "roommate-back",
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	rtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, rcClaims)
	td.RefreshToken, err = rtToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("Failed to sign refresh token", zap.Error(err), zap.Int64("userID", userID))
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return td, nil
}
