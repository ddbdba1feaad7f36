package roblox

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryParams collects the query parameters shared by cursor-paged
// endpoints plus arbitrary per-endpoint filters.
type QueryParams struct {
	Cursor    string
	Limit     int
	SortOrder SortOrder
	Filters   map[string][]string
}

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string][]string),
	}
}

// WithCursor sets the page cursor.
func (q *QueryParams) WithCursor(cursor string) *QueryParams {
	q.Cursor = cursor

	return q
}

// WithLimit sets the page size.
func (q *QueryParams) WithLimit(limit int) *QueryParams {
	q.Limit = limit

	return q
}

// WithSortOrder sets the sort direction.
func (q *QueryParams) WithSortOrder(order SortOrder) *QueryParams {
	q.SortOrder = order

	return q
}

// WithFilter adds values to a filter key.
func (q *QueryParams) WithFilter(key string, values ...string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters[key] = append(q.Filters[key], values...)

	return q
}

// ToValues converts the parameters to url.Values. Multiple filter
// values are joined with commas, which is how the platform encodes
// multi-value parameters.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	if q.Cursor != "" {
		values.Set("cursor", q.Cursor)
	}

	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.SortOrder != "" {
		values.Set("sortOrder", string(q.SortOrder))
	}

	for key, vals := range q.Filters {
		if len(vals) > 0 {
			values.Set(key, strings.Join(vals, ","))
		}
	}

	return values
}

// Clone returns a deep copy. Iterators clone their parameters so that
// advancing pages never mutates the caller's copy.
func (q *QueryParams) Clone() *QueryParams {
	if q == nil {
		return NewQueryParams()
	}

	clone := &QueryParams{
		Cursor:    q.Cursor,
		Limit:     q.Limit,
		SortOrder: q.SortOrder,
		Filters:   make(map[string][]string, len(q.Filters)),
	}

	for key, vals := range q.Filters {
		clone.Filters[key] = append([]string(nil), vals...)
	}

	return clone
}
