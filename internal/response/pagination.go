// File: internal/response/pagination.go
package response

import (
	"fmt"
	"net/url"
	"strconv"
)

// ===============================
// PAGINATION CONFIGURATION
// ===============================

// PaginationConfig holds pagination configuration
type PaginationConfig struct {
	DefaultPageSize int    `json:"default_page_size"`
	MaxPageSize     int    `json:"max_page_size"`
	PageParam       string `json:"page_param"`
	SizeParam       string `json:"size_param"`
}

// DefaultPaginationConfig returns default pagination configuration
func DefaultPaginationConfig() *PaginationConfig {
	return &PaginationConfig{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		PageParam:       "page",
		SizeParam:       "page_size",
	}
}

// PaginationParams represents parsed pagination parameters
type PaginationParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Offset   int `json:"offset"`
}

// ===============================
// PAGINATION PARSER
// ===============================

// PaginationParser parses pagination parameters from requests
type PaginationParser struct {
	config *PaginationConfig
}

// NewPaginationParser creates a new pagination parser
func NewPaginationParser(config *PaginationConfig) *PaginationParser {
	if config == nil {
		config = DefaultPaginationConfig()
	}
	return &PaginationParser{config: config}
}

// ParseFromQuery parses pagination parameters from the query string.
// Page sizes above the maximum are clamped rather than rejected.
func (p *PaginationParser) ParseFromQuery(query url.Values) (*PaginationParams, error) {
	params := &PaginationParams{
		Page:     1,
		PageSize: p.config.DefaultPageSize,
	}

	if pageStr := query.Get(p.config.PageParam); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return nil, fmt.Errorf("invalid page parameter: %s", pageStr)
		}
		params.Page = page
	}

	if sizeStr := query.Get(p.config.SizeParam); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size < 1 {
			return nil, fmt.Errorf("invalid page size parameter: %s", sizeStr)
		}
		if size > p.config.MaxPageSize {
			size = p.config.MaxPageSize
		}
		params.PageSize = size
	}

	params.Offset = (params.Page - 1) * params.PageSize
	return params, nil
}
