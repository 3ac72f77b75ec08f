package helpers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"donationtracker/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ErrBadPageSize is returned for a page_size that is neither a positive integer nor "all".
var ErrBadPageSize = errors.New("page_size must be a positive integer or \"all\"")

// ErrBadPage is returned by ParseSummaryParams for a page that is not a positive integer.
var ErrBadPage = errors.New("page must be a positive integer")

// ParsePage reads the 1-indexed page query parameter. A page that is not a positive
// integer yields domain.ErrInvalidPage, which controllers report as 404.
func ParsePage(r *http.Request) (int, error) {
	s := r.URL.Query().Get("page")
	if s == "" {
		return DefaultPage, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, domain.ErrInvalidPage
	}
	return v, nil
}

// ParsePagination reads page and page_size. A missing or malformed page_size falls back to
// the default and values above MaxPageSize are clamped.
func ParsePagination(r *http.Request) (domain.PaginationParams, error) {
	page, err := ParsePage(r)
	if err != nil {
		return domain.PaginationParams{}, err
	}
	pageSize := DefaultPageSize
	if s := r.URL.Query().Get("page_size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			pageSize = min(v, MaxPageSize)
		}
	}
	params := domain.PaginationParams{Page: page, PageSize: pageSize}
	if params.Overflows() {
		return domain.PaginationParams{}, domain.ErrInvalidPage
	}
	return params, nil
}

// ParseSummaryParams reads page and page_size for the summary report. page_size=all
// returns nil params, meaning every row. Malformed values are errors.
func ParseSummaryParams(r *http.Request) (*domain.PaginationParams, error) {
	q := r.URL.Query()
	sizeParam := q.Get("page_size")
	if sizeParam == "all" {
		return nil, nil
	}

	page := DefaultPage
	if s := q.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, ErrBadPage
		}
		page = v
	}
	pageSize := DefaultPageSize
	if sizeParam != "" {
		v, err := strconv.Atoi(sizeParam)
		if err != nil || v < 1 {
			return nil, ErrBadPageSize
		}
		pageSize = v
	}
	params := &domain.PaginationParams{Page: page, PageSize: pageSize}
	if params.Overflows() {
		return nil, ErrBadPage
	}
	return params, nil
}

// Page is the paged list payload: the total count, links to the neighbouring pages and the rows.
// swagger:model Page
type Page struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// NewPage builds the paged payload for results of the current request.
// Links are absolute and keep every other query parameter.
func NewPage(r *http.Request, params domain.PaginationParams, total int, results any) Page {
	p := Page{Count: total, Results: results}
	if params.Page*params.PageSize < total {
		next := pageURL(r, params.Page+1)
		p.Next = &next
	}
	if params.Page > 1 {
		prev := pageURL(r, params.Page-1)
		p.Previous = &prev
	}
	return p
}

func pageURL(r *http.Request, page int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	q := r.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	return u.String()
}
