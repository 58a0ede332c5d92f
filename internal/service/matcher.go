package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MaratulyTemirbolat/roommate-back/internal/interfaces"
	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// budgetRelaxFactor widens the budget ceiling when the strict pass finds nobody.
const budgetRelaxFactor = 1.2

// MatcherService runs the roommate candidate search.
type MatcherService interface {
	// FindCandidates returns matching users newest first. The boolean reports
	// whether the relaxed budget pass produced the result.
	FindCandidates(ctx context.Context, requesterID int64, filter *CandidateFilter) ([]models.User, bool, error)
}

// Compile-time check to ensure matcherServiceImpl implements MatcherService
var _ MatcherService = (*matcherServiceImpl)(nil)

type matcherServiceImpl struct {
	userRepo     interfaces.UserRepository
	locationRepo interfaces.LocationRepository
	logger       *zap.Logger
}

// NewMatcherService creates a new instance of matcherServiceImpl.
func NewMatcherService(userRepo interfaces.UserRepository, locationRepo interfaces.LocationRepository, logger *zap.Logger) MatcherService {
	return &matcherServiceImpl{
		userRepo:     userRepo,
		locationRepo: locationRepo,
		logger:       logger.Named("MatcherService"),
	}
}

// FindCandidates resolves the district scope and the budget ceiling, runs the
// strict query and, if it comes back empty, retries exactly once with the
// ceiling widened by budgetRelaxFactor.
func (s *matcherServiceImpl) FindCandidates(ctx context.Context, requesterID int64, filter *CandidateFilter) ([]models.User, bool, error) {
	logFields := []zap.Field{zap.Int64("requesterID", requesterID)}
	s.logger.Debug("Starting candidate search", logFields...)

	districtIDs, err := s.locationRepo.ResolveDistrictIDs(ctx, filter.City, filter.DistrictIDs)
	if err != nil {
		s.logger.Error("Failed to resolve district scope", append(logFields, zap.Error(err))...)
		return nil, false, fmt.Errorf("failed to resolve district scope: %w", err)
	}

	ceiling, err := s.budgetCeiling(ctx, filter)
	if err != nil {
		return nil, false, err
	}
	logFields = append(logFields, zap.Int64("budgetCeiling", ceiling), zap.Int("districtScopeSize", len(districtIDs)))

	query := interfaces.CandidateQuery{
		Gender:        filter.Gender,
		DistrictIDs:   districtIDs,
		BudgetCeiling: ceiling,
		ExcludeUserID: requesterID,
	}

	candidates, err := s.userRepo.ListCandidates(ctx, query)
	if err != nil {
		s.logger.Error("Strict candidate query failed", append(logFields, zap.Error(err))...)
		return nil, false, fmt.Errorf("strict candidate query failed: %w", err)
	}
	if len(candidates) > 0 {
		candidates = dedupUsers(candidates)
		if err := s.attachDistricts(ctx, candidates); err != nil {
			return nil, false, err
		}
		s.logger.Info("Candidate search finished on strict pass", append(logFields, zap.Int("found", len(candidates)))...)
		return candidates, false, nil
	}

	// Одна ослабленная попытка, потолок расширяется на 20%
	query.BudgetCeiling = relaxBudget(ceiling)
	candidates, err = s.userRepo.ListCandidates(ctx, query)
	if err != nil {
		s.logger.Error("Relaxed candidate query failed", append(logFields, zap.Error(err))...)
		return nil, true, fmt.Errorf("relaxed candidate query failed: %w", err)
	}
	candidates = dedupUsers(candidates)
	if err := s.attachDistricts(ctx, candidates); err != nil {
		return nil, true, err
	}
	s.logger.Info("Candidate search finished on relaxed pass",
		append(logFields, zap.Int64("relaxedCeiling", query.BudgetCeiling), zap.Int("found", len(candidates)))...)
	return candidates, true, nil
}

// budgetCeiling picks the explicit month_budjet when given, otherwise the
// maximum budget among eligible users, widened when upper_budjet is set.
func (s *matcherServiceImpl) budgetCeiling(ctx context.Context, filter *CandidateFilter) (int64, error) {
	if filter.MonthBudget != nil {
		return *filter.MonthBudget, nil
	}

	maxBudget, err := s.userRepo.MaxEligibleBudget(ctx)
	if err != nil {
		s.logger.Error("Failed to get max eligible budget", zap.Error(err))
		return 0, fmt.Errorf("failed to get max eligible budget: %w", err)
	}
	if filter.UpperBudget {
		return relaxBudget(maxBudget), nil
	}
	return maxBudget, nil
}

func relaxBudget(ceiling int64) int64 {
	return int64(float64(ceiling) * budgetRelaxFactor)
}

// dedupUsers drops repeated ids while keeping the incoming order.
func dedupUsers(users []models.User) []models.User {
	seen := make(map[int64]struct{}, len(users))
	result := users[:0]
	for _, user := range users {
		if _, ok := seen[user.ID]; ok {
			continue
		}
		seen[user.ID] = struct{}{}
		result = append(result, user)
	}
	return result
}

func (s *matcherServiceImpl) attachDistricts(ctx context.Context, users []models.User) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	districtsByUser, err := s.userRepo.GetDistrictsForUsers(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load districts for candidates", zap.Error(err))
		return fmt.Errorf("failed to load districts for candidates: %w", err)
	}
	for i := range users {
		users[i].Districts = districtsByUser[users[i].ID]
	}
	return nil
}
