package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

func pathCityID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id must be an integer: %w", models.ErrValidation)
	}
	return id, nil
}

// listCities handles GET /api/v1/locations/cities.
func (h *Handler) listCities(c *gin.Context) {
	cities, err := h.locationService.ListCities(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	results := make([]cityResponse, 0, len(cities))
	for _, city := range cities {
		results = append(results, cityResponse{ID: city.ID, Name: city.Name})
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// listDistricts handles GET /api/v1/locations/cities/:id/districts.
func (h *Handler) listDistricts(c *gin.Context) {
	cityID, err := pathCityID(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	districts, err := h.locationService.ListDistricts(c.Request.Context(), cityID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	results := make([]districtResponse, 0, len(districts))
	for _, d := range districts {
		results = append(results, districtResponse{ID: d.ID, Name: d.Name})
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// createCity handles POST /api/v1/locations/cities.
func (h *Handler) createCity(c *gin.Context) {
	var req createCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindingError(c, err)
		return
	}

	city, err := h.locationService.CreateCity(c.Request.Context(), req.Name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cityResponse{ID: city.ID, Name: city.Name})
}

// createDistrict handles POST /api/v1/locations/cities/:id/districts.
func (h *Handler) createDistrict(c *gin.Context) {
	cityID, err := pathCityID(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	var req createDistrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindingError(c, err)
		return
	}

	district, err := h.locationService.CreateDistrict(c.Request.Context(), cityID, req.Name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, districtResponse{ID: district.ID, Name: district.Name})
}
