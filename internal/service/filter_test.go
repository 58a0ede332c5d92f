package service

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

func TestParseCandidateFilter_Empty(t *testing.T) {
	filter, err := ParseCandidateFilter(url.Values{})
	require.NoError(t, err)
	assert.Nil(t, filter.Gender)
	assert.Nil(t, filter.City)
	assert.Nil(t, filter.MonthBudget)
	assert.Empty(t, filter.DistrictIDs)
	assert.False(t, filter.UpperBudget)
}

func TestParseCandidateFilter_AllKnownParams(t *testing.T) {
	values := url.Values{
		"gender":       {"F"},
		"city":         {"Almaty"},
		"districts":    {"1,2", "3"},
		"month_budjet": {"75000"},
		"upper_budjet": {"true"},
	}

	filter, err := ParseCandidateFilter(values)
	require.NoError(t, err)
	require.NotNil(t, filter.Gender)
	assert.Equal(t, models.GenderFemale, *filter.Gender)
	require.NotNil(t, filter.City)
	assert.Equal(t, "Almaty", *filter.City)
	assert.Equal(t, []int64{1, 2, 3}, filter.DistrictIDs)
	require.NotNil(t, filter.MonthBudget)
	assert.Equal(t, int64(75000), *filter.MonthBudget)
	assert.True(t, filter.UpperBudget)
}

func TestParseCandidateFilter_UnknownParamsIgnored(t *testing.T) {
	values := url.Values{
		"is_staff":      {"true"},
		"password_hash": {"x"},
		"order_by":      {"id"},
	}

	filter, err := ParseCandidateFilter(values)
	require.NoError(t, err)
	assert.Equal(t, &CandidateFilter{}, filter)
}

func TestParseCandidateFilter_InvalidGender(t *testing.T) {
	_, err := ParseCandidateFilter(url.Values{"gender": {"X"}})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestParseCandidateFilter_InvalidBudget(t *testing.T) {
	for _, raw := range []string{"abc", "12.5", "-100"} {
		_, err := ParseCandidateFilter(url.Values{"month_budjet": {raw}})
		require.ErrorIs(t, err, models.ErrValidation, "month_budjet=%s", raw)
	}
}

func TestParseCandidateFilter_InvalidDistrictToken(t *testing.T) {
	_, err := ParseCandidateFilter(url.Values{"districts": {"1,abc"}})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestParseCandidateFilter_UpperBudgetVariants(t *testing.T) {
	// bare key counts as enabled
	filter, err := ParseCandidateFilter(url.Values{"upper_budjet": {""}})
	require.NoError(t, err)
	assert.True(t, filter.UpperBudget)

	filter, err = ParseCandidateFilter(url.Values{"upper_budjet": {"false"}})
	require.NoError(t, err)
	assert.False(t, filter.UpperBudget)

	_, err = ParseCandidateFilter(url.Values{"upper_budjet": {"maybe"}})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestParseCandidateFilter_BlankCity(t *testing.T) {
	_, err := ParseCandidateFilter(url.Values{"city": {"   "}})
	require.ErrorIs(t, err, models.ErrValidation)
}
