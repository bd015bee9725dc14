package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ewanmcc/guardian-bot/internal/domain"
)

// ParseSearchArgs turns command arguments into search parameters.
// Plain words form the search terms; key:value tokens set filters:
//
//	/search brexit deal section:politics order:newest stars:4 from:2024-01-01 page:2
//
// Unknown keys and malformed values produce an error so the user gets
// told instead of silently searching for something else.
func ParseSearchArgs(args string) (domain.SearchParams, error) {
	var params domain.SearchParams
	var terms []string

	for _, token := range strings.Fields(args) {
		key, value, found := strings.Cut(token, ":")
		if !found {
			terms = append(terms, token)
			continue
		}

		switch strings.ToLower(key) {
		case "section":
			params.Section = value
		case "tag":
			params.Tag = value
		case "order":
			switch value {
			case "newest", "oldest", "relevance":
				params.OrderBy = value
			default:
				return params, fmt.Errorf("unknown order %q (use newest, oldest or relevance)", value)
			}
		case "stars":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 || n > 5 {
				return params, fmt.Errorf("stars must be a number from 1 to 5, got %q", value)
			}
			params.StarRating = n
		case "from":
			d, err := parseDate(value)
			if err != nil {
				return params, err
			}
			params.From = d
		case "to":
			d, err := parseDate(value)
			if err != nil {
				return params, err
			}
			params.To = d
		case "page":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return params, fmt.Errorf("page must be a positive number, got %q", value)
			}
			params.Page = n
		default:
			// tokens like "18:00" are part of the search text
			terms = append(terms, token)
		}
	}

	params.Query = strings.Join(terms, " ")
	return params, nil
}

func parseDate(value string) (*domain.Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("dates must look like 2024-01-31, got %q", value)
	}
	return &domain.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}
