// Package api - API types for the dashboard endpoints
package api

import (
	"gapminder/core/types"
)

// RecordsResponse is the body of GET /api/records
type RecordsResponse struct {
	Year      int            `json:"year"`
	Countries []string       `json:"countries"`
	Count     int            `json:"count"`
	Records   []types.Record `json:"records"`
}

// DatasetInfo is the body of GET /api/dataset
type DatasetInfo struct {
	BuildID    string         `json:"build_id"`
	BuiltAt    string         `json:"built_at"`
	Records    int            `json:"records"`
	Countries  int            `json:"countries"`
	MinYear    int            `json:"min_year"`
	MaxYear    int            `json:"max_year"`
	SourceRows map[string]int `json:"source_rows"`
}

// ErrorDetail describes a failed request
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an ErrorDetail
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
