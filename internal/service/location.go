package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/MaratulyTemirbolat/roommate-back/internal/interfaces"
	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// LocationService exposes the city and district reference data.
type LocationService interface {
	ListCities(ctx context.Context) ([]models.City, error)
	ListDistricts(ctx context.Context, cityID int64) ([]models.District, error)
	CreateCity(ctx context.Context, name string) (*models.City, error)
	CreateDistrict(ctx context.Context, cityID int64, name string) (*models.District, error)
}

var _ LocationService = (*locationServiceImpl)(nil)

type locationServiceImpl struct {
	locationRepo interfaces.LocationRepository
	logger       *zap.Logger
}

// NewLocationService creates a new instance of locationServiceImpl.
func NewLocationService(locationRepo interfaces.LocationRepository, logger *zap.Logger) LocationService {
	return &locationServiceImpl{
		locationRepo: locationRepo,
		logger:       logger.Named("LocationService"),
	}
}

func (s *locationServiceImpl) ListCities(ctx context.Context) ([]models.City, error) {
	return s.locationRepo.ListCities(ctx)
}

// ListDistricts returns the districts of an existing city.
func (s *locationServiceImpl) ListDistricts(ctx context.Context, cityID int64) ([]models.District, error) {
	if _, err := s.locationRepo.GetCityByID(ctx, cityID); err != nil {
		return nil, err
	}
	return s.locationRepo.ListDistrictsByCity(ctx, cityID)
}

func (s *locationServiceImpl) CreateCity(ctx context.Context, name string) (*models.City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("city name must not be blank: %w", models.ErrValidation)
	}
	city := &models.City{Name: name}
	if err := s.locationRepo.CreateCity(ctx, city); err != nil {
		return nil, err
	}
	s.logger.Info("City created", zap.Int64("cityID", city.ID), zap.String("name", city.Name))
	return city, nil
}

func (s *locationServiceImpl) CreateDistrict(ctx context.Context, cityID int64, name string) (*models.District, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("district name must not be blank: %w", models.ErrValidation)
	}
	if _, err := s.locationRepo.GetCityByID(ctx, cityID); err != nil {
		return nil, err
	}
	district := &models.District{Name: name, CityID: cityID}
	if err := s.locationRepo.CreateDistrict(ctx, district); err != nil {
		return nil, err
	}
	s.logger.Info("District created", zap.Int64("districtID", district.ID), zap.Int64("cityID", cityID), zap.String("name", district.Name))
	return district, nil
}
