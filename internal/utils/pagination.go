package utils

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageParams holds the parsed page-number pagination parameters.
type PageParams struct {
	Page     int
	PageSize int
}

// PageMeta describes the position of a returned page inside the full result set.
type PageMeta struct {
	Count    int
	Page     int
	PageSize int
	Next     *int // next page number, nil on the last page
	Previous *int // previous page number, nil on the first page
}

// ParsePageParams reads "page" and "page_size" from the query string.
// Missing values default to page 1 and a page size of 20; page_size is
// clamped to 100. Malformed or non-positive values are an error.
func ParsePageParams(values url.Values) (PageParams, error) {
	params := PageParams{Page: 1, PageSize: defaultPageSize}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return PageParams{}, fmt.Errorf("invalid page %q", raw)
		}
		params.Page = page
	}
	if raw := values.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return PageParams{}, fmt.Errorf("invalid page_size %q", raw)
		}
		if size > maxPageSize {
			size = maxPageSize
		}
		params.PageSize = size
	}
	return params, nil
}

// PaginateSlice returns the items of the requested page plus the page metadata.
// A page past the end of the collection yields an empty page, not an error.
func PaginateSlice[T any](items []T, params PageParams) ([]T, PageMeta) {
	meta := PageMeta{
		Count:    len(items),
		Page:     params.Page,
		PageSize: params.PageSize,
	}

	start := (params.Page - 1) * params.PageSize
	end := start + params.PageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	if end < len(items) {
		next := params.Page + 1
		meta.Next = &next
	}
	if params.Page > 1 {
		prev := params.Page - 1
		meta.Previous = &prev
	}

	return items[start:end], meta
}
