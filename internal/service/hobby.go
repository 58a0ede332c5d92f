package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/MaratulyTemirbolat/roommate-back/internal/interfaces"
	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// HobbyService exposes the hobby category reference data.
type HobbyService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListSubCategories(ctx context.Context, categoryID int64) ([]models.SubCategory, error)
}

var _ HobbyService = (*hobbyServiceImpl)(nil)

type hobbyServiceImpl struct {
	hobbyRepo interfaces.HobbyRepository
	logger    *zap.Logger
}

// NewHobbyService creates a new instance of hobbyServiceImpl.
func NewHobbyService(hobbyRepo interfaces.HobbyRepository, logger *zap.Logger) HobbyService {
	return &hobbyServiceImpl{
		hobbyRepo: hobbyRepo,
		logger:    logger.Named("HobbyService"),
	}
}

func (s *hobbyServiceImpl) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.hobbyRepo.ListCategories(ctx)
}

// ListSubCategories returns the subcategories of an existing category.
func (s *hobbyServiceImpl) ListSubCategories(ctx context.Context, categoryID int64) ([]models.SubCategory, error) {
	if _, err := s.hobbyRepo.GetCategoryByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.hobbyRepo.ListSubCategoriesByCategory(ctx, categoryID)
}
