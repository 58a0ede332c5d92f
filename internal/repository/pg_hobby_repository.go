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

var _ interfaces.HobbyRepository = (*pgHobbyRepository)(nil)

type pgHobbyRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgHobbyRepository creates a new PostgreSQL-backed HobbyRepository.
func NewPgHobbyRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.HobbyRepository {
	return &pgHobbyRepository{
		db:     db,
		logger: logger.Named("PgHobbyRepo"),
	}
}

// ListCategories returns all non-deleted hobby categories ordered by name.
func (r *pgHobbyRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	query := `SELECT id, name, datetime_created, datetime_deleted FROM categories
		WHERE datetime_deleted IS NULL ORDER BY name`
	r.logger.Debug("Executing query", zap.String("query", query))

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query categories from postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.DatetimeCreated, &category.DatetimeDeleted); err != nil {
			r.logger.Error("Failed to scan category row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

// GetCategoryByID returns a non-deleted category by id.
func (r *pgHobbyRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT id, name, datetime_created, datetime_deleted FROM categories
		WHERE id = $1 AND datetime_deleted IS NULL`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("id", id))

	var category models.Category
	err := r.db.QueryRow(ctx, query, id).Scan(&category.ID, &category.Name, &category.DatetimeCreated, &category.DatetimeDeleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Category not found", zap.Int64("id", id))
			return nil, models.ErrCategoryNotFound
		}
		r.logger.Error("Failed to get category from postgres", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// ListSubCategoriesByCategory returns the non-deleted subcategories of a category.
func (r *pgHobbyRepository) ListSubCategoriesByCategory(ctx context.Context, categoryID int64) ([]models.SubCategory, error) {
	query := `SELECT id, name, category_id, datetime_created, datetime_deleted FROM subcategories
		WHERE category_id = $1 AND datetime_deleted IS NULL ORDER BY name`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("categoryID", categoryID))

	rows, err := r.db.Query(ctx, query, categoryID)
	if err != nil {
		r.logger.Error("Failed to query subcategories from postgres", zap.Error(err), zap.Int64("categoryID", categoryID))
		return nil, fmt.Errorf("failed to query subcategories: %w", err)
	}
	defer rows.Close()

	subCategories := make([]models.SubCategory, 0)
	for rows.Next() {
		var sub models.SubCategory
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.CategoryID, &sub.DatetimeCreated, &sub.DatetimeDeleted); err != nil {
			r.logger.Error("Failed to scan subcategory row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan subcategory row: %w", err)
		}
		subCategories = append(subCategories, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subcategory rows: %w", err)
	}
	return subCategories, nil
}

// CreateCategory inserts a new hobby category.
func (r *pgHobbyRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING id, datetime_created`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("name", category.Name))

	err := r.db.QueryRow(ctx, query, category.Name).Scan(&category.ID, &category.DatetimeCreated)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Warn("Attempted to create duplicate category", zap.String("name", category.Name))
			return fmt.Errorf("category %q: %w", category.Name, models.ErrValidation)
		}
		r.logger.Error("Failed to create category in postgres", zap.Error(err), zap.String("name", category.Name))
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// CreateSubCategory inserts a new subcategory under a category.
func (r *pgHobbyRepository) CreateSubCategory(ctx context.Context, sub *models.SubCategory) error {
	query := `INSERT INTO subcategories (name, category_id) VALUES ($1, $2) RETURNING id, datetime_created`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("name", sub.Name), zap.Int64("categoryID", sub.CategoryID))

	err := r.db.QueryRow(ctx, query, sub.Name, sub.CategoryID).Scan(&sub.ID, &sub.DatetimeCreated)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				r.logger.Warn("Attempted to create duplicate subcategory", zap.String("name", sub.Name))
				return fmt.Errorf("subcategory %q: %w", sub.Name, models.ErrValidation)
			case "23503":
				r.logger.Warn("Attempted to create subcategory for unknown category", zap.Int64("categoryID", sub.CategoryID))
				return models.ErrCategoryNotFound
			}
		}
		r.logger.Error("Failed to create subcategory in postgres", zap.Error(err), zap.String("name", sub.Name))
		return fmt.Errorf("failed to create subcategory: %w", err)
	}
	return nil
}
