package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MaratulyTemirbolat/roommate-back/internal/config"
	"github.com/MaratulyTemirbolat/roommate-back/internal/interfaces"
	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// fakeTokenRepo is an in-memory TokenRepository.
type fakeTokenRepo struct {
	access  map[string]int64
	refresh map[string]int64
}

var _ interfaces.TokenRepository = (*fakeTokenRepo)(nil)

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{
		access:  make(map[string]int64),
		refresh: make(map[string]int64),
	}
}

func (f *fakeTokenRepo) SetToken(ctx context.Context, userID int64, td *models.TokenDetails) error {
	f.access[td.AccessUUID] = userID
	f.refresh[td.RefreshUUID] = userID
	return nil
}

func (f *fakeTokenRepo) DeleteTokens(ctx context.Context, userID int64, accessUUID, refreshUUID string) (int64, error) {
	var deleted int64
	if _, ok := f.access[accessUUID]; ok {
		delete(f.access, accessUUID)
		deleted++
	}
	if _, ok := f.refresh[refreshUUID]; ok {
		delete(f.refresh, refreshUUID)
		deleted++
	}
	return deleted, nil
}

func (f *fakeTokenRepo) GetUserIDByAccessUUID(ctx context.Context, accessUUID string) (int64, error) {
	userID, ok := f.access[accessUUID]
	if !ok {
		return 0, models.ErrTokenNotFound
	}
	return userID, nil
}

func (f *fakeTokenRepo) GetUserIDByRefreshUUID(ctx context.Context, refreshUUID string) (int64, error) {
	userID, ok := f.refresh[refreshUUID]
	if !ok {
		return 0, models.ErrTokenNotFound
	}
	return userID, nil
}

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo, *fakeTokenRepo) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:       "unit-test-secret",
		PasswordPepper:  "unit-test-pepper",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}
	userRepo := &fakeUserRepo{districtsInfo: map[int64][]models.District{}}
	tokenRepo := newFakeTokenRepo()
	return NewAuthService(userRepo, tokenRepo, cfg, zap.NewNop()), userRepo, tokenRepo
}

func TestRegisterLoginRefreshFlow(t *testing.T) {
	svc, _, tokenRepo := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validInput())
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.NotEqual(t, "secret", user.PasswordHash)

	// вход по email
	loggedIn, td, err := svc.Login(ctx, "temirbolat@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	require.NotEmpty(t, td.AccessToken)
	require.NotEmpty(t, td.RefreshToken)

	// access-токен валиден и привязан к пользователю
	claims, err := svc.VerifyAccessToken(ctx, td.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// ротация refresh-токена
	newTd, err := svc.Refresh(ctx, td.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, td.RefreshUUID, newTd.RefreshUUID)

	// старый refresh отозван
	_, err = svc.Refresh(ctx, td.RefreshToken)
	require.Error(t, err)

	// новый работает
	_, err = tokenRepo.GetUserIDByRefreshUUID(ctx, newTd.RefreshUUID)
	require.NoError(t, err)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "secret")
	require.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "temirbolat@example.com", "wrong")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLogin_ByPhone(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	_, td, err := svc.Login(ctx, "+77011234567", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, td.AccessToken)
}

func TestLogin_DeletedUserHidden(t *testing.T) {
	svc, userRepo, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validInput())
	require.NoError(t, err)
	require.NoError(t, userRepo.SoftDeleteUser(ctx, user.ID))

	_, _, err = svc.Login(ctx, "temirbolat@example.com", "secret")
	require.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestVerifyAccessToken_Garbage(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.VerifyAccessToken(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, models.ErrTokenMalformed)
}

func TestRegister_AttachesDistricts(t *testing.T) {
	svc, userRepo, _ := newAuthFixture(t)
	ctx := context.Background()

	input := validInput()
	input.DistrictIDs = []int64{10, 11}
	user, err := svc.Register(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, userRepo.districts[user.ID])
}
