package pagination

import (
	"errors"
	"math"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

var (
	// ErrInvalidPage is returned for negative page or limit values.
	ErrInvalidPage = errors.New("page and limit must be positive")
	// ErrPageOutOfRange is returned when the page's offset does not fit in an int.
	ErrPageOutOfRange = errors.New("page is out of range")
)

// Page is a 1-based page request.
type Page struct {
	Number int `json:"page"`
	Limit  int `json:"limit"`
}

// New normalizes raw page/limit input: zero means default (page 1,
// DefaultLimit), limit is capped at MaxLimit, negatives are rejected.
func New(page, limit int64) (Page, error) {
	if page < 0 || limit < 0 {
		return Page{}, ErrInvalidPage
	}
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page-1 > math.MaxInt/limit {
		return Page{}, ErrPageOutOfRange
	}
	return Page{Number: int(page), Limit: int(limit)}, nil
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}
