package interfaces

import (
	"context"

	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// LocationRepository defines the interface for City/District reference data.
// All read methods exclude soft-deleted rows.
type LocationRepository interface {
	// ListCities returns all non-deleted cities.
	ListCities(ctx context.Context) ([]models.City, error)

	// GetCityByID returns a non-deleted city or models.ErrCityNotFound.
	GetCityByID(ctx context.Context, id int64) (*models.City, error)

	// ListDistrictsByCity returns the non-deleted districts of a city.
	ListDistrictsByCity(ctx context.Context, cityID int64) ([]models.District, error)

	// ResolveDistrictIDs computes the district scope for the candidate matcher:
	// non-deleted districts, narrowed to the named city when cityName is non-nil,
	// intersected with ids when ids is non-empty. Unknown ids are dropped, they
	// never fail the resolution.
	ResolveDistrictIDs(ctx context.Context, cityName *string, ids []int64) ([]int64, error)

	// CreateCity inserts a city and fills in the generated ID and timestamp.
	CreateCity(ctx context.Context, city *models.City) error

	// CreateDistrict inserts a district and fills in the generated ID and
	// timestamp. Returns models.ErrCityNotFound when the city does not exist.
	CreateDistrict(ctx context.Context, district *models.District) error
}
