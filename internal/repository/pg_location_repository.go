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

var _ interfaces.LocationRepository = (*pgLocationRepository)(nil)

type pgLocationRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgLocationRepository creates a new PostgreSQL-backed LocationRepository.
func NewPgLocationRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.LocationRepository {
	return &pgLocationRepository{
		db:     db,
		logger: logger.Named("PgLocationRepo"),
	}
}

// ListCities returns all non-deleted cities ordered by name.
func (r *pgLocationRepository) ListCities(ctx context.Context) ([]models.City, error) {
	query := `SELECT id, name, datetime_created, datetime_deleted FROM cities
		WHERE datetime_deleted IS NULL ORDER BY name`
	r.logger.Debug("Executing query", zap.String("query", query))

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query cities from postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to query cities: %w", err)
	}
	defer rows.Close()

	cities := make([]models.City, 0)
	for rows.Next() {
		var city models.City
		if err := rows.Scan(&city.ID, &city.Name, &city.DatetimeCreated, &city.DatetimeDeleted); err != nil {
			r.logger.Error("Failed to scan city row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan city row: %w", err)
		}
		cities = append(cities, city)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating city rows: %w", err)
	}
	return cities, nil
}

// GetCityByID returns a non-deleted city by id.
func (r *pgLocationRepository) GetCityByID(ctx context.Context, id int64) (*models.City, error) {
	query := `SELECT id, name, datetime_created, datetime_deleted FROM cities
		WHERE id = $1 AND datetime_deleted IS NULL`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("id", id))

	var city models.City
	err := r.db.QueryRow(ctx, query, id).Scan(&city.ID, &city.Name, &city.DatetimeCreated, &city.DatetimeDeleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("City not found", zap.Int64("id", id))
			return nil, models.ErrCityNotFound
		}
		r.logger.Error("Failed to get city from postgres", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get city: %w", err)
	}
	return &city, nil
}

// ListDistrictsByCity returns the non-deleted districts of a city ordered by name.
func (r *pgLocationRepository) ListDistrictsByCity(ctx context.Context, cityID int64) ([]models.District, error) {
	query := `SELECT id, name, city_id, datetime_created, datetime_deleted FROM districts
		WHERE city_id = $1 AND datetime_deleted IS NULL ORDER BY name`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("cityID", cityID))

	rows, err := r.db.Query(ctx, query, cityID)
	if err != nil {
		r.logger.Error("Failed to query districts from postgres", zap.Error(err), zap.Int64("cityID", cityID))
		return nil, fmt.Errorf("failed to query districts: %w", err)
	}
	defer rows.Close()

	districts := make([]models.District, 0)
	for rows.Next() {
		var district models.District
		if err := rows.Scan(&district.ID, &district.Name, &district.CityID, &district.DatetimeCreated, &district.DatetimeDeleted); err != nil {
			r.logger.Error("Failed to scan district row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan district row: %w", err)
		}
		districts = append(districts, district)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating district rows: %w", err)
	}
	return districts, nil
}

// ResolveDistrictIDs builds the district scope for the candidate search.
// A city name (case-insensitive) selects all of its districts; explicit ids
// narrow that pool further by membership. Unknown ids are dropped. When
// neither filter is given the scope is every non-deleted district.
func (r *pgLocationRepository) ResolveDistrictIDs(ctx context.Context, cityName *string, districtIDs []int64) ([]int64, error) {
	var (
		query string
		args  []any
	)
	switch {
	case cityName != nil && len(districtIDs) > 0:
		query = `SELECT d.id FROM districts d
			JOIN cities c ON c.id = d.city_id
			WHERE LOWER(c.name) = LOWER($1)
			  AND d.id = ANY($2)
			  AND d.datetime_deleted IS NULL
			  AND c.datetime_deleted IS NULL`
		args = []any{*cityName, districtIDs}
	case len(districtIDs) > 0:
		query = `SELECT id FROM districts WHERE id = ANY($1) AND datetime_deleted IS NULL`
		args = []any{districtIDs}
	case cityName != nil:
		query = `SELECT d.id FROM districts d
			JOIN cities c ON c.id = d.city_id
			WHERE LOWER(c.name) = LOWER($1)
			  AND d.datetime_deleted IS NULL
			  AND c.datetime_deleted IS NULL`
		args = []any{*cityName}
	default:
		query = `SELECT id FROM districts WHERE datetime_deleted IS NULL`
	}

	r.logger.Debug("Resolving district scope", zap.Int("explicitIDs", len(districtIDs)))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to resolve district scope", zap.Error(err))
		return nil, fmt.Errorf("failed to resolve district scope: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan district id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating district ids: %w", err)
	}
	return ids, nil
}

// CreateCity inserts a new city.
func (r *pgLocationRepository) CreateCity(ctx context.Context, city *models.City) error {
	query := `INSERT INTO cities (name) VALUES ($1) RETURNING id, datetime_created`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("name", city.Name))

	err := r.db.QueryRow(ctx, query, city.Name).Scan(&city.ID, &city.DatetimeCreated)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Warn("Attempted to create duplicate city", zap.String("name", city.Name))
			return fmt.Errorf("city %q: %w", city.Name, models.ErrValidation)
		}
		r.logger.Error("Failed to create city in postgres", zap.Error(err), zap.String("name", city.Name))
		return fmt.Errorf("failed to create city: %w", err)
	}
	return nil
}

// CreateDistrict inserts a new district for a city.
func (r *pgLocationRepository) CreateDistrict(ctx context.Context, district *models.District) error {
	query := `INSERT INTO districts (name, city_id) VALUES ($1, $2) RETURNING id, datetime_created`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("name", district.Name), zap.Int64("cityID", district.CityID))

	err := r.db.QueryRow(ctx, query, district.Name, district.CityID).Scan(&district.ID, &district.DatetimeCreated)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				r.logger.Warn("Attempted to create duplicate district", zap.String("name", district.Name), zap.Int64("cityID", district.CityID))
				return fmt.Errorf("district %q in city %d: %w", district.Name, district.CityID, models.ErrValidation)
			case "23503":
				r.logger.Warn("Attempted to create district for unknown city", zap.Int64("cityID", district.CityID))
				return models.ErrCityNotFound
			}
		}
		r.logger.Error("Failed to create district in postgres", zap.Error(err), zap.String("name", district.Name))
		return fmt.Errorf("failed to create district: %w", err)
	}
	return nil
}
