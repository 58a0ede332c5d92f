package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MaratulyTemirbolat/roommate-back/internal/interfaces"
	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// fakeUserRepo is an in-memory UserRepository good enough for matcher tests.
// ListCandidates re-implements the candidate predicate over the stored users.
type fakeUserRepo struct {
	users         []models.User
	districts     map[int64][]int64 // userID -> districtIDs
	queries       []interfaces.CandidateQuery
	districtsInfo map[int64][]models.District
}

var _ interfaces.UserRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = int64(len(f.users) + 1)
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			user := f.users[i]
			return &user, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByLogin(ctx context.Context, loginData string) (*models.User, error) {
	for i := range f.users {
		u := f.users[i]
		if u.Email == loginData || u.Phone == loginData ||
			(u.TelegramUsername != nil && *u.TelegramUsername == loginData) {
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (f *fakeUserRepo) MaxEligibleBudget(ctx context.Context) (int64, error) {
	var maxBudget int64
	for i := range f.users {
		if f.users[i].IsEligible() && f.users[i].MonthBudget > maxBudget {
			maxBudget = f.users[i].MonthBudget
		}
	}
	return maxBudget, nil
}

func (f *fakeUserRepo) ListCandidates(ctx context.Context, q interfaces.CandidateQuery) ([]models.User, error) {
	f.queries = append(f.queries, q)

	inScope := func(userID int64) bool {
		for _, have := range f.districts[userID] {
			for _, want := range q.DistrictIDs {
				if have == want {
					return true
				}
			}
		}
		return false
	}

	result := make([]models.User, 0)
	for i := range f.users {
		u := f.users[i]
		if !u.IsEligible() || u.ID == q.ExcludeUserID || u.MonthBudget > q.BudgetCeiling {
			continue
		}
		if q.Gender != nil && u.Gender != *q.Gender {
			continue
		}
		if !inScope(u.ID) {
			continue
		}
		result = append(result, u)
	}
	return result, nil
}

func (f *fakeUserRepo) GetDistrictsForUsers(ctx context.Context, userIDs []int64) (map[int64][]models.District, error) {
	result := make(map[int64][]models.District)
	for _, id := range userIDs {
		if ds, ok := f.districtsInfo[id]; ok {
			result[id] = ds
		}
	}
	return result, nil
}

func (f *fakeUserRepo) ReplaceDistricts(ctx context.Context, userID int64, districtIDs []int64) error {
	if f.districts == nil {
		f.districts = make(map[int64][]int64)
	}
	f.districts[userID] = districtIDs
	return nil
}

func (f *fakeUserRepo) AttachSubCategories(ctx context.Context, userID int64, subCategoryIDs []int64) error {
	return nil
}

func (f *fakeUserRepo) setFlag(userID int64, fn func(u *models.User)) error {
	for i := range f.users {
		if f.users[i].ID == userID {
			fn(&f.users[i])
			return nil
		}
	}
	return models.ErrUserNotFound
}

func (f *fakeUserRepo) SetActiveAccount(ctx context.Context, userID int64, active bool) error {
	return f.setFlag(userID, func(u *models.User) { u.IsActiveAccount = active })
}

func (f *fakeUserRepo) ConfirmAccount(ctx context.Context, userID int64) error {
	return f.setFlag(userID, func(u *models.User) { u.IsConfirmedAccount = true })
}

func (f *fakeUserRepo) SoftDeleteUser(ctx context.Context, userID int64) error {
	now := time.Now()
	return f.setFlag(userID, func(u *models.User) { u.DatetimeDeleted = &now })
}

func (f *fakeUserRepo) RecoverUser(ctx context.Context, userID int64) error {
	return f.setFlag(userID, func(u *models.User) { u.DatetimeDeleted = nil })
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, userID int64) error {
	now := time.Now()
	return f.setFlag(userID, func(u *models.User) { u.LastLogin = &now })
}

// fakeLocationRepo resolves districts from a static city map.
type fakeLocationRepo struct {
	cityDistricts map[string][]int64 // city name -> district ids
	knownIDs      map[int64]bool
}

var _ interfaces.LocationRepository = (*fakeLocationRepo)(nil)

func (f *fakeLocationRepo) ListCities(ctx context.Context) ([]models.City, error) { return nil, nil }
func (f *fakeLocationRepo) GetCityByID(ctx context.Context, id int64) (*models.City, error) {
	return nil, models.ErrCityNotFound
}
func (f *fakeLocationRepo) ListDistrictsByCity(ctx context.Context, cityID int64) ([]models.District, error) {
	return nil, nil
}
func (f *fakeLocationRepo) CreateCity(ctx context.Context, city *models.City) error { return nil }
func (f *fakeLocationRepo) CreateDistrict(ctx context.Context, district *models.District) error {
	return nil
}

func (f *fakeLocationRepo) ResolveDistrictIDs(ctx context.Context, cityName *string, ids []int64) ([]int64, error) {
	pool := f.knownIDs
	if cityName != nil {
		pool = make(map[int64]bool)
		for _, id := range f.cityDistricts[*cityName] {
			pool[id] = true
		}
		if len(ids) == 0 {
			return f.cityDistricts[*cityName], nil
		}
	}
	if len(ids) == 0 {
		// без фильтров скоуп покрывает все районы
		all := make([]int64, 0, len(pool))
		for id := range pool {
			all = append(all, id)
		}
		sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
		return all, nil
	}
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if pool[id] {
			result = append(result, id)
		}
	}
	return result, nil
}

// --- Test fixtures ---

func newMatcherFixture(t *testing.T) (*fakeUserRepo, *fakeLocationRepo, MatcherService) {
	t.Helper()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	userRepo := &fakeUserRepo{
		users: []models.User{
			{ID: 1, FirstName: "Arman", Gender: models.GenderMale, MonthBudget: 50000,
				IsActiveAccount: true, DatetimeCreated: base},
			{ID: 2, FirstName: "Aigerim", Gender: models.GenderFemale, MonthBudget: 80000,
				IsActiveAccount: true, DatetimeCreated: base.Add(time.Hour)},
			{ID: 3, FirstName: "Nurlan", Gender: models.GenderMale, MonthBudget: 90000,
				IsActiveAccount: true, DatetimeCreated: base.Add(2 * time.Hour)},
			// деактивированный и удалённый не должны попадать в выдачу
			{ID: 4, FirstName: "Dana", Gender: models.GenderFemale, MonthBudget: 40000,
				IsActiveAccount: false, DatetimeCreated: base.Add(3 * time.Hour)},
			{ID: 5, FirstName: "Madina", Gender: models.GenderFemale, MonthBudget: 45000,
				IsActiveAccount: true, DatetimeCreated: base.Add(4 * time.Hour),
				DatetimeDeleted: &base},
			// сам запрашивающий
			{ID: 9, FirstName: "Self", Gender: models.GenderMale, MonthBudget: 60000,
				IsActiveAccount: true, DatetimeCreated: base},
		},
		districts: map[int64][]int64{
			1: {10, 11},
			2: {10},
			3: {11},
			4: {10},
			5: {10},
			9: {10},
		},
		districtsInfo: map[int64][]models.District{},
	}
	locationRepo := &fakeLocationRepo{
		cityDistricts: map[string][]int64{"Almaty": {10, 11}},
		knownIDs:      map[int64]bool{10: true, 11: true},
	}

	return userRepo, locationRepo, NewMatcherService(userRepo, locationRepo, zap.NewNop())
}

func int64Ptr(v int64) *int64 { return &v }

func TestFindCandidates_StrictPass(t *testing.T) {
	userRepo, _, matcher := newMatcherFixture(t)

	city := "Almaty"
	users, relaxed, err := matcher.FindCandidates(context.Background(), 9, &CandidateFilter{
		City:        &city,
		MonthBudget: int64Ptr(80000),
	})
	require.NoError(t, err)
	assert.False(t, relaxed)
	require.Len(t, users, 2)

	// только единственный strict-запрос
	require.Len(t, userRepo.queries, 1)
	assert.Equal(t, int64(80000), userRepo.queries[0].BudgetCeiling)
	assert.Equal(t, int64(9), userRepo.queries[0].ExcludeUserID)
}

func TestFindCandidates_ExcludesSelfAndIneligible(t *testing.T) {
	_, _, matcher := newMatcherFixture(t)

	city := "Almaty"
	users, _, err := matcher.FindCandidates(context.Background(), 9, &CandidateFilter{
		City:        &city,
		MonthBudget: int64Ptr(200000),
	})
	require.NoError(t, err)

	for _, u := range users {
		assert.NotEqual(t, int64(9), u.ID, "requester must never match themselves")
		assert.NotEqual(t, int64(4), u.ID, "deactivated account must not match")
		assert.NotEqual(t, int64(5), u.ID, "deleted account must not match")
	}
}

func TestFindCandidates_DefaultBudgetIsMaxEligible(t *testing.T) {
	userRepo, _, matcher := newMatcherFixture(t)

	city := "Almaty"
	users, relaxed, err := matcher.FindCandidates(context.Background(), 9, &CandidateFilter{City: &city})
	require.NoError(t, err)
	assert.False(t, relaxed)
	// max eligible budget is 90000, everyone eligible fits
	require.Len(t, userRepo.queries, 1)
	assert.Equal(t, int64(90000), userRepo.queries[0].BudgetCeiling)
	assert.Len(t, users, 3)
}

func TestFindCandidates_UpperBudgetWidensDefault(t *testing.T) {
	userRepo, _, matcher := newMatcherFixture(t)

	city := "Almaty"
	_, _, err := matcher.FindCandidates(context.Background(), 9, &CandidateFilter{
		City:        &city,
		UpperBudget: true,
	})
	require.NoError(t, err)
	// 90000 * 1.2
	assert.Equal(t, int64(108000), userRepo.queries[0].BudgetCeiling)
}

func TestFindCandidates_SingleRelaxedRetry(t *testing.T) {
	userRepo, _, matcher := newMatcherFixture(t)

	// 45000 misses everyone strictly; 45000*1.2 = 54000 reaches user 1 (50000)
	city := "Almaty"
	users, relaxed, err := matcher.FindCandidates(context.Background(), 9, &CandidateFilter{
		City:        &city,
		MonthBudget: int64Ptr(45000),
	})
	require.NoError(t, err)
	assert.True(t, relaxed)
	require.Len(t, users, 1)
	assert.Equal(t, int64(1), users[0].ID)

	require.Len(t, userRepo.queries, 2, "exactly one relaxed retry")
	assert.Equal(t, int64(45000), userRepo.queries[0].BudgetCeiling)
	assert.Equal(t, int64(54000), userRepo.queries[1].BudgetCeiling)
}

func TestFindCandidates_RelaxedStillEmpty(t *testing.T) {
	userRepo, _, matcher := newMatcherFixture(t)

	city := "Almaty"
	users, relaxed, err := matcher.FindCandidates(context.Background(), 9, &CandidateFilter{
		City:        &city,
		MonthBudget: int64Ptr(10000),
	})
	require.NoError(t, err)
	assert.True(t, relaxed)
	assert.Empty(t, users)
	assert.Len(t, userRepo.queries, 2, "no second relaxation")
}

func TestFindCandidates_GenderFilter(t *testing.T) {
	_, _, matcher := newMatcherFixture(t)

	city := "Almaty"
	gender := models.GenderFemale
	users, _, err := matcher.FindCandidates(context.Background(), 9, &CandidateFilter{
		City:        &city,
		Gender:      &gender,
		MonthBudget: int64Ptr(200000),
	})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(2), users[0].ID)
}

func TestFindCandidates_ExplicitDistrictsNarrowScope(t *testing.T) {
	_, _, matcher := newMatcherFixture(t)

	users, _, err := matcher.FindCandidates(context.Background(), 9, &CandidateFilter{
		DistrictIDs: []int64{11},
		MonthBudget: int64Ptr(200000),
	})
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Contains(t, []int64{1, 3}, u.ID)
	}
}

func TestFindCandidates_CityIntersectsExplicitDistricts(t *testing.T) {
	userRepo, locationRepo, matcher := newMatcherFixture(t)
	locationRepo.cityDistricts["Astana"] = []int64{20}
	locationRepo.knownIDs[20] = true

	// район 20 не в Алматы, скоуп после пересечения пуст
	city := "Almaty"
	users, _, err := matcher.FindCandidates(context.Background(), 9, &CandidateFilter{
		City:        &city,
		DistrictIDs: []int64{20},
		MonthBudget: int64Ptr(200000),
	})
	require.NoError(t, err)
	assert.Empty(t, users)
	for _, q := range userRepo.queries {
		assert.Empty(t, q.DistrictIDs)
	}
}

func TestFindCandidates_NoFiltersCoverAllDistricts(t *testing.T) {
	userRepo, _, matcher := newMatcherFixture(t)

	// запрос без фильтров должен искать по всем районам
	users, relaxed, err := matcher.FindCandidates(context.Background(), 9, &CandidateFilter{})
	require.NoError(t, err)
	assert.False(t, relaxed)
	require.Len(t, userRepo.queries, 1)
	assert.Equal(t, []int64{10, 11}, userRepo.queries[0].DistrictIDs)
	require.Len(t, users, 3)
}

func TestFindCandidates_UnknownDistrictsMatchNobody(t *testing.T) {
	userRepo, _, matcher := newMatcherFixture(t)

	// все переданные id неизвестны: скоуп пуст, ослабление бюджета не помогает
	users, relaxed, err := matcher.FindCandidates(context.Background(), 9, &CandidateFilter{
		DistrictIDs: []int64{999},
		MonthBudget: int64Ptr(200000),
	})
	require.NoError(t, err)
	assert.True(t, relaxed)
	assert.Empty(t, users)
	assert.Len(t, userRepo.queries, 2)
}

func TestDedupUsers(t *testing.T) {
	users := []models.User{{ID: 3}, {ID: 1}, {ID: 3}, {ID: 2}, {ID: 1}}
	deduped := dedupUsers(users)
	require.Len(t, deduped, 3)
	assert.Equal(t, int64(3), deduped[0].ID)
	assert.Equal(t, int64(1), deduped[1].ID)
	assert.Equal(t, int64(2), deduped[2].ID)
}
