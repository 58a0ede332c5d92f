package interfaces

import (
	"context"

	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// HobbyRepository defines the interface for the Category/SubCategory taxonomy.
// All read methods exclude soft-deleted rows.
type HobbyRepository interface {
	// ListCategories returns all non-deleted categories.
	ListCategories(ctx context.Context) ([]models.Category, error)

	// GetCategoryByID returns a non-deleted category or models.ErrCategoryNotFound.
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)

	// ListSubCategoriesByCategory returns the non-deleted subcategories of a category.
	ListSubCategoriesByCategory(ctx context.Context, categoryID int64) ([]models.SubCategory, error)

	// CreateCategory inserts a category and fills in the generated ID and timestamp.
	CreateCategory(ctx context.Context, category *models.Category) error

	// CreateSubCategory inserts a subcategory and fills in the generated ID and
	// timestamp. Returns models.ErrCategoryNotFound when the category does not exist.
	CreateSubCategory(ctx context.Context, sub *models.SubCategory) error
}
