package service

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// CandidateFilter holds the recognized candidate search parameters.
// Anything else in the query string is ignored.
type CandidateFilter struct {
	Gender      *models.Gender
	City        *string
	DistrictIDs []int64
	MonthBudget *int64
	UpperBudget bool
}

// ParseCandidateFilter extracts the whitelisted search parameters from the
// query string. Unknown keys are silently dropped; malformed values of known
// keys are rejected with ErrValidation.
func ParseCandidateFilter(values url.Values) (*CandidateFilter, error) {
	filter := &CandidateFilter{}

	if values.Has("gender") {
		gender := models.Gender(strings.TrimSpace(values.Get("gender")))
		if !gender.Valid() {
			return nil, fmt.Errorf("gender must be %q or %q: %w", models.GenderMale, models.GenderFemale, models.ErrValidation)
		}
		filter.Gender = &gender
	}

	if values.Has("city") {
		city := strings.TrimSpace(values.Get("city"))
		if city == "" {
			return nil, fmt.Errorf("city must not be blank: %w", models.ErrValidation)
		}
		filter.City = &city
	}

	// districts accepts repeated keys and comma-separated lists
	if values.Has("districts") {
		for _, raw := range values["districts"] {
			for _, token := range strings.Split(raw, ",") {
				token = strings.TrimSpace(token)
				if token == "" {
					continue
				}
				id, err := strconv.ParseInt(token, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("districts must contain integer ids: %w", models.ErrValidation)
				}
				filter.DistrictIDs = append(filter.DistrictIDs, id)
			}
		}
	}

	if values.Has("month_budjet") {
		budget, err := strconv.ParseInt(strings.TrimSpace(values.Get("month_budjet")), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("month_budjet must be an integer: %w", models.ErrValidation)
		}
		if budget < 0 {
			return nil, fmt.Errorf("month_budjet must not be negative: %w", models.ErrValidation)
		}
		filter.MonthBudget = &budget
	}

	// Присутствие ключа само по себе включает флаг, явное false выключает
	if values.Has("upper_budjet") {
		raw := strings.TrimSpace(values.Get("upper_budjet"))
		if raw == "" {
			filter.UpperBudget = true
		} else {
			flag, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("upper_budjet must be a boolean: %w", models.ErrValidation)
			}
			filter.UpperBudget = flag
		}
	}

	return filter, nil
}
