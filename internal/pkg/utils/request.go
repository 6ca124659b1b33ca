package utils

import (
	"net/http"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/dto/requests"
	"strconv"
	"strings"
)

func BuildPaginationRequest(r *http.Request) *requests.Pagination {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}

	pageSize, err := strconv.Atoi(r.URL.Query().Get("page_size"))
	if err != nil || pageSize <= 0 {
		pageSize = constvars.AppDefaultPageSize
	}
	if pageSize > constvars.AppMaxPageSize {
		pageSize = constvars.AppMaxPageSize
	}

	return &requests.Pagination{
		Page:     page,
		PageSize: pageSize,
	}
}

// Paginate returns the page of items selected by pagination. Pages past the
// end are empty.
func Paginate[T any](items []T, pagination *requests.Pagination) []T {
	if pagination == nil {
		return items
	}
	start := (pagination.Page - 1) * pagination.PageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pagination.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func ExtractBearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get(constvars.HeaderAuthorization))
	if !strings.HasPrefix(header, constvars.HeaderBearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, constvars.HeaderBearerPrefix))
}

func BuildBaseURL(r *http.Request) string {
	return r.URL.Path
}
