package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageParams_Defaults(t *testing.T) {
	params, err := ParsePageParams(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.PageSize)
}

func TestParsePageParams_Explicit(t *testing.T) {
	params, err := ParsePageParams(url.Values{"page": {"3"}, "page_size": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 5, params.PageSize)
}

func TestParsePageParams_ClampsPageSize(t *testing.T) {
	params, err := ParsePageParams(url.Values{"page_size": {"1000"}})
	require.NoError(t, err)
	assert.Equal(t, 100, params.PageSize)
}

func TestParsePageParams_Malformed(t *testing.T) {
	for _, values := range []url.Values{
		{"page": {"zero"}},
		{"page": {"0"}},
		{"page": {"-1"}},
		{"page_size": {"abc"}},
		{"page_size": {"0"}},
	} {
		_, err := ParsePageParams(values)
		require.Error(t, err, "values=%v", values)
	}
}

func TestPaginateSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page, meta := PaginateSlice(items, PageParams{Page: 1, PageSize: 3})
	assert.Equal(t, []int{1, 2, 3}, page)
	assert.Equal(t, 7, meta.Count)
	require.NotNil(t, meta.Next)
	assert.Equal(t, 2, *meta.Next)
	assert.Nil(t, meta.Previous)

	page, meta = PaginateSlice(items, PageParams{Page: 3, PageSize: 3})
	assert.Equal(t, []int{7}, page)
	assert.Nil(t, meta.Next)
	require.NotNil(t, meta.Previous)
	assert.Equal(t, 2, *meta.Previous)
}

func TestPaginateSlice_PastTheEnd(t *testing.T) {
	page, meta := PaginateSlice([]int{1, 2}, PageParams{Page: 5, PageSize: 10})
	assert.Empty(t, page)
	assert.Equal(t, 2, meta.Count)
	assert.Nil(t, meta.Next)
}
