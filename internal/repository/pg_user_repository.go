package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/MaratulyTemirbolat/roommate-back/internal/interfaces"
	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// Compile-time check to ensure pgUserRepository implements UserRepository
var _ interfaces.UserRepository = (*pgUserRepository)(nil)

const userColumns = `id, email, phone, first_name, telegram_username, telegram_user_id,
	gender, month_budjet, comment, photo, password_hash,
	is_active, is_staff, is_superuser, is_active_account, is_confirmed_account,
	last_login, datetime_created, datetime_updated, datetime_deleted`

type pgUserRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgUserRepository creates a new PostgreSQL-backed UserRepository.
func NewPgUserRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.UserRepository {
	return &pgUserRepository{
		db:     db,
		logger: logger.Named("PgUserRepo"),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Phone, &user.FirstName,
		&user.TelegramUsername, &user.TelegramUserID,
		&user.Gender, &user.MonthBudget, &user.Comment, &user.Photo, &user.PasswordHash,
		&user.IsActive, &user.IsStaff, &user.IsSuperuser,
		&user.IsActiveAccount, &user.IsConfirmedAccount,
		&user.LastLogin, &user.DatetimeCreated, &user.DatetimeUpdated, &user.DatetimeDeleted,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new user into the database.
func (r *pgUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (email, phone, first_name, telegram_username, telegram_user_id,
		gender, month_budjet, comment, photo, password_hash,
		is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, datetime_created, datetime_updated`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("email", user.Email), zap.String("phone", user.Phone))

	err := r.db.QueryRow(ctx, query,
		user.Email, user.Phone, user.FirstName, user.TelegramUsername, user.TelegramUserID,
		user.Gender, user.MonthBudget, user.Comment, user.Photo, user.PasswordHash,
		user.IsStaff, user.IsSuperuser,
	).Scan(&user.ID, &user.DatetimeCreated, &user.DatetimeUpdated)

	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 is unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			logFields := []zap.Field{zap.String("email", user.Email), zap.String("phone", user.Phone), zap.String("constraint", pgErr.ConstraintName)}
			r.logger.Warn("Attempted to create user with unique constraint violation", logFields...)
			switch pgErr.ConstraintName {
			case "users_email_key":
				return models.ErrEmailAlreadyExists
			case "users_phone_key":
				return models.ErrPhoneAlreadyExists
			case "users_telegram_username_key", "users_telegram_user_id_key":
				return models.ErrTelegramAlreadyExists
			default:
				return models.ErrEmailAlreadyExists
			}
		}
		r.logger.Error("Failed to create user in postgres", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("failed to create user in postgres: %w", err)
	}

	user.IsActive = true
	user.IsActiveAccount = true
	r.logger.Info("User created successfully", zap.Int64("userID", user.ID), zap.String("email", user.Email))
	return nil
}

// GetUserByID retrieves a user by their ID. Soft-deleted rows are returned too;
// the caller inspects DatetimeDeleted.
func (r *pgUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("id", id))

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by ID", zap.Int64("id", id))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by id from postgres", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user by id from postgres: %w", err)
	}
	return user, nil
}

// GetUserByLogin retrieves a user by email, phone or telegram username.
func (r *pgUserRepository) GetUserByLogin(ctx context.Context, loginData string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE email = $1 OR phone = $1 OR telegram_username = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("loginData", loginData))

	user, err := scanUser(r.db.QueryRow(ctx, query, loginData))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by login data", zap.String("loginData", loginData))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by login data from postgres", zap.Error(err), zap.String("loginData", loginData))
		return nil, fmt.Errorf("failed to get user by login data from postgres: %w", err)
	}
	return user, nil
}

// MaxEligibleBudget returns the maximum month_budjet among eligible users, 0 when none.
func (r *pgUserRepository) MaxEligibleBudget(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(MAX(month_budjet), 0) FROM users
		WHERE datetime_deleted IS NULL AND is_active_account = TRUE`
	r.logger.Debug("Executing query", zap.String("query", query))

	var maxBudget int64
	if err := r.db.QueryRow(ctx, query).Scan(&maxBudget); err != nil {
		r.logger.Error("Failed to get max eligible budget from postgres", zap.Error(err))
		return 0, fmt.Errorf("failed to get max eligible budget: %w", err)
	}
	return maxBudget, nil
}

// ListCandidates executes the candidate query. DISTINCT collapses users that
// match through several districts; ordering is newest first.
func (r *pgUserRepository) ListCandidates(ctx context.Context, q interfaces.CandidateQuery) ([]models.User, error) {
	query := `SELECT DISTINCT u.id, u.email, u.phone, u.first_name, u.telegram_username, u.telegram_user_id,
		u.gender, u.month_budjet, u.comment, u.photo, u.password_hash,
		u.is_active, u.is_staff, u.is_superuser, u.is_active_account, u.is_confirmed_account,
		u.last_login, u.datetime_created, u.datetime_updated, u.datetime_deleted
		FROM users u
		JOIN user_districts ud ON ud.user_id = u.id
		WHERE u.datetime_deleted IS NULL
		  AND u.is_active_account = TRUE
		  AND u.id <> $1
		  AND u.month_budjet <= $2
		  AND ud.district_id = ANY($3)`
	args := []any{q.ExcludeUserID, q.BudgetCeiling, q.DistrictIDs}
	if q.Gender != nil {
		query += ` AND u.gender = $4`
		args = append(args, *q.Gender)
	}
	query += ` ORDER BY u.datetime_created DESC, u.id DESC`

	r.logger.Debug("Executing candidate query",
		zap.Int64("excludeUserID", q.ExcludeUserID),
		zap.Int64("budgetCeiling", q.BudgetCeiling),
		zap.Int("districtScopeSize", len(q.DistrictIDs)),
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query candidates from postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.logger.Error("Failed to scan candidate row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating candidate rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating candidate rows: %w", err)
	}

	return users, nil
}

// GetDistrictsForUsers loads the non-deleted district set (with city) for each user.
func (r *pgUserRepository) GetDistrictsForUsers(ctx context.Context, userIDs []int64) (map[int64][]models.District, error) {
	result := make(map[int64][]models.District, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	query := `SELECT ud.user_id,
		d.id, d.name, d.city_id, d.datetime_created, d.datetime_deleted,
		c.id, c.name, c.datetime_created, c.datetime_deleted
		FROM user_districts ud
		JOIN districts d ON d.id = ud.district_id AND d.datetime_deleted IS NULL
		JOIN cities c ON c.id = d.city_id
		WHERE ud.user_id = ANY($1)
		ORDER BY ud.user_id, d.id`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int("userCount", len(userIDs)))

	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		r.logger.Error("Failed to query user districts from postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to query user districts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID   int64
			district models.District
			city     models.City
		)
		if err := rows.Scan(
			&userID,
			&district.ID, &district.Name, &district.CityID, &district.DatetimeCreated, &district.DatetimeDeleted,
			&city.ID, &city.Name, &city.DatetimeCreated, &city.DatetimeDeleted,
		); err != nil {
			r.logger.Error("Failed to scan user district row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan user district row: %w", err)
		}
		district.City = &city
		result[userID] = append(result[userID], district)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating user district rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating user district rows: %w", err)
	}

	return result, nil
}

// ReplaceDistricts replaces the user's district set. Unknown or deleted district
// ids are silently dropped by the insert query.
func (r *pgUserRepository) ReplaceDistricts(ctx context.Context, userID int64, districtIDs []int64) error {
	deleteQuery := `DELETE FROM user_districts WHERE user_id = $1`
	r.logger.Debug("Executing query", zap.String("query", deleteQuery), zap.Int64("userID", userID))
	if _, err := r.db.Exec(ctx, deleteQuery, userID); err != nil {
		r.logger.Error("Failed to clear user districts", zap.Error(err), zap.Int64("userID", userID))
		return fmt.Errorf("failed to clear user districts: %w", err)
	}

	if len(districtIDs) == 0 {
		return nil
	}

	insertQuery := `INSERT INTO user_districts (user_id, district_id)
		SELECT $1, d.id FROM districts d
		WHERE d.id = ANY($2) AND d.datetime_deleted IS NULL
		ON CONFLICT DO NOTHING`
	r.logger.Debug("Executing query", zap.String("query", insertQuery), zap.Int64("userID", userID), zap.Int64s("districtIDs", districtIDs))
	if _, err := r.db.Exec(ctx, insertQuery, userID, districtIDs); err != nil {
		r.logger.Error("Failed to insert user districts", zap.Error(err), zap.Int64("userID", userID))
		return fmt.Errorf("failed to insert user districts: %w", err)
	}

	r.logger.Info("User districts replaced", zap.Int64("userID", userID), zap.Int("requested", len(districtIDs)))
	return nil
}

// AttachSubCategories associates hobby subcategories with the user.
func (r *pgUserRepository) AttachSubCategories(ctx context.Context, userID int64, subCategoryIDs []int64) error {
	if len(subCategoryIDs) == 0 {
		return nil
	}

	query := `INSERT INTO user_subcategories (user_id, subcategory_id)
		SELECT $1, s.id FROM subcategories s
		WHERE s.id = ANY($2) AND s.datetime_deleted IS NULL
		ON CONFLICT DO NOTHING`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("userID", userID), zap.Int64s("subCategoryIDs", subCategoryIDs))
	if _, err := r.db.Exec(ctx, query, userID, subCategoryIDs); err != nil {
		r.logger.Error("Failed to attach subcategories", zap.Error(err), zap.Int64("userID", userID))
		return fmt.Errorf("failed to attach subcategories: %w", err)
	}
	return nil
}

func (r *pgUserRepository) execSingleRowUpdate(ctx context.Context, query string, userID int64, args ...any) error {
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("userID", userID))
	cmdTag, err := r.db.Exec(ctx, query, append([]any{userID}, args...)...)
	if err != nil {
		r.logger.Error("Failed to update user in postgres", zap.Error(err), zap.Int64("userID", userID))
		return fmt.Errorf("failed to update user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to update non-existent user", zap.Int64("userID", userID))
		return models.ErrUserNotFound
	}
	return nil
}

// SetActiveAccount updates the business-level activation flag.
func (r *pgUserRepository) SetActiveAccount(ctx context.Context, userID int64, active bool) error {
	query := `UPDATE users SET is_active_account = $2, datetime_updated = CURRENT_TIMESTAMP WHERE id = $1`
	return r.execSingleRowUpdate(ctx, query, userID, active)
}

// ConfirmAccount sets is_confirmed_account. One-way.
func (r *pgUserRepository) ConfirmAccount(ctx context.Context, userID int64) error {
	query := `UPDATE users SET is_confirmed_account = TRUE, datetime_updated = CURRENT_TIMESTAMP WHERE id = $1`
	return r.execSingleRowUpdate(ctx, query, userID)
}

// SoftDeleteUser stamps datetime_deleted; the row is kept.
func (r *pgUserRepository) SoftDeleteUser(ctx context.Context, userID int64) error {
	query := `UPDATE users SET datetime_deleted = CURRENT_TIMESTAMP, datetime_updated = CURRENT_TIMESTAMP WHERE id = $1`
	return r.execSingleRowUpdate(ctx, query, userID)
}

// RecoverUser clears datetime_deleted.
func (r *pgUserRepository) RecoverUser(ctx context.Context, userID int64) error {
	query := `UPDATE users SET datetime_deleted = NULL, datetime_updated = CURRENT_TIMESTAMP WHERE id = $1`
	return r.execSingleRowUpdate(ctx, query, userID)
}

// UpdateLastLogin stamps last_login with the current time.
func (r *pgUserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	query := `UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = $1`
	return r.execSingleRowUpdate(ctx, query, userID)
}
