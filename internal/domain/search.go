package domain

import (
	"strings"
	"time"
)

const MaxQueryLength = 512

// Date is a caller-supplied calendar date filter. It is passed to the
// API client unchecked: an impossible triple is silently omitted from
// the outgoing request rather than treated as an error here.
type Date struct {
	Year  int
	Month int
	Day   int
}

// SearchParams is what a user can ask for in one search. Zero values
// mean "not set".
type SearchParams struct {
	Query      string
	Section    string
	Tag        string
	OrderBy    string // newest, oldest or relevance
	StarRating int
	From       *Date
	To         *Date
	Page       int
	PageSize   int
}

func (p *SearchParams) Validate() error {
	if strings.TrimSpace(p.Query) == "" {
		return ErrEmptyQuery
	}
	if len(p.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}

// ContentItem is one search hit, flattened from the API response for
// display and storage.
type ContentItem struct {
	ID        string
	Title     string
	URL       string
	Section   string
	Published *time.Time
	Byline    string
	TrailText string
}

// SearchPage is a single page of results. Pages is -1 when the API
// rejected the requested page size.
type SearchPage struct {
	Query       string
	Total       int
	Pages       int
	CurrentPage int
	Items       []ContentItem
}
