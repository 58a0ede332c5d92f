package interfaces

import (
	"context"

	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// CandidateQuery is the explicit, typed filter the candidate matcher executes.
// It enumerates exactly the predicates the matching query supports — a
// pass-through map of request parameters never reaches the storage layer.
type CandidateQuery struct {
	// Gender, when non-nil, is compared for equality against users.gender.
	Gender *models.Gender
	// DistrictIDs is the resolved district scope; a candidate must belong to
	// at least one of them. An empty scope matches nobody.
	DistrictIDs []int64
	// BudgetCeiling is the inclusive upper bound on a candidate's month_budjet.
	BudgetCeiling int64
	// ExcludeUserID removes the requester from their own candidate list.
	ExcludeUserID int64
}

// UserRepository defines the interface for user persistence (PostgreSQL).
type UserRepository interface {
	// CreateUser inserts a new user and fills in the generated ID and timestamps.
	// Unique violations are mapped to ErrEmailAlreadyExists / ErrPhoneAlreadyExists /
	// ErrTelegramAlreadyExists.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID, including soft-deleted rows; callers
	// decide how to treat the deleted state. Returns models.ErrUserNotFound
	// if no row exists.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// GetUserByLogin retrieves a user whose email, phone or telegram username
	// equals loginData. Returns models.ErrUserNotFound if none matches.
	GetUserByLogin(ctx context.Context, loginData string) (*models.User, error)

	// MaxEligibleBudget returns the maximum month_budjet among eligible
	// (non-deleted, active-account) users, or 0 when there are none.
	MaxEligibleBudget(ctx context.Context) (int64, error)

	// ListCandidates executes the candidate query: eligible users matching q,
	// newest first, deduplicated. A user matching through several districts
	// appears once.
	ListCandidates(ctx context.Context, q CandidateQuery) ([]models.User, error)

	// GetDistrictsForUsers loads the district set (with city) for each of the
	// given users. Soft-deleted districts are excluded.
	GetDistrictsForUsers(ctx context.Context, userIDs []int64) (map[int64][]models.District, error)

	// ReplaceDistricts replaces the user's district associations with the given set.
	ReplaceDistricts(ctx context.Context, userID int64, districtIDs []int64) error

	// AttachSubCategories associates hobby subcategories with the user.
	AttachSubCategories(ctx context.Context, userID int64, subCategoryIDs []int64) error

	// SetActiveAccount updates the business-level activation flag.
	SetActiveAccount(ctx context.Context, userID int64, active bool) error

	// ConfirmAccount sets is_confirmed_account. One-way; there is no un-confirm.
	ConfirmAccount(ctx context.Context, userID int64) error

	// SoftDeleteUser stamps datetime_deleted. The row is never removed.
	SoftDeleteUser(ctx context.Context, userID int64) error

	// RecoverUser clears datetime_deleted.
	RecoverUser(ctx context.Context, userID int64) error

	// UpdateLastLogin stamps last_login with the current time.
	UpdateLastLogin(ctx context.Context, userID int64) error
}
