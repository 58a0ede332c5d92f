package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// listCategories handles GET /api/v1/hobbies/categories.
func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.hobbyService.ListCategories(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	results := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		results = append(results, categoryResponse{ID: category.ID, Name: category.Name})
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// listSubCategories handles GET /api/v1/hobbies/categories/:id/subcategories.
func (h *Handler) listSubCategories(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		handleServiceError(c, fmt.Errorf("id must be an integer: %w", models.ErrValidation))
		return
	}

	subCategories, err := h.hobbyService.ListSubCategories(c.Request.Context(), categoryID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	results := make([]subCategoryResponse, 0, len(subCategories))
	for _, sub := range subCategories {
		results = append(results, subCategoryResponse{ID: sub.ID, Name: sub.Name, CategoryID: sub.CategoryID})
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
