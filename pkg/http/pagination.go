package http

import (
	"net/url"
	"strconv"
)

// PaginationParams represents pagination parameters for list requests.
type PaginationParams struct {
	Page  int
	Limit int
}

// ToQuery converts pagination parameters to URL query values.
func (p *PaginationParams) ToQuery() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

// MetaResponse represents pagination metadata.
type MetaResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// HasMore returns true if there are more pages.
func (m *MetaResponse) HasMore() bool {
	return m.Page < m.TotalPages
}

// MergeQuery merges multiple url.Values into one.
func MergeQuery(queries ...url.Values) url.Values {
	result := url.Values{}
	for _, q := range queries {
		for k, vals := range q {
			for _, v := range vals {
				result.Add(k, v)
			}
		}
	}
	return result
}
