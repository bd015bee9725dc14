package guardian

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Query accumulates search parameters. A Query belongs to a single
// caller, is consumed by one Send and is never shared; create a new
// one per search via Client.Search, Client.Item or Client.NewQuery.
//
// Setters that receive an invalid value outside the reach of the type
// system (an impossible calendar date, a star rating outside 1..5)
// drop the parameter silently: it is omitted from the outgoing request
// instead of failing the call.
type Query struct {
	client   *Client
	endpoint Endpoint
	itemID   string
	params   url.Values

	// enum lists, deduplicated in first-selection order
	showFields  []Field
	showTags    []Tag
	queryFields []Field
	showBlocks  []Block
}

// Endpoint switches which part of the API the query targets.
func (q *Query) Endpoint(e Endpoint) *Query {
	q.endpoint = e
	return q
}

// Term sets the search term (the q parameter).
func (q *Query) Term(term string) *Query {
	q.params.Set("q", term)
	return q
}

// Page requests the given page of the paginated result list.
func (q *Query) Page(page int) *Query {
	q.params.Set("page", strconv.Itoa(page))
	return q
}

// PageSize overrides the default page size of 10. The API enforces
// its own bounds and answers an out-of-range size with pages: -1.
func (q *Query) PageSize(size int) *Query {
	q.params.Set("page-size", strconv.Itoa(size))
	return q
}

// OrderBy sets the result ordering criterion.
func (q *Query) OrderBy(order OrderBy) *Query {
	q.params.Set("order-by", string(order))
	return q
}

// OrderDate sets which date OrderBy sorts on.
func (q *Query) OrderDate(date OrderDate) *Query {
	q.params.Set("order-date", string(date))
	return q
}

// UseDate sets which date the FromDate/ToDate filters apply to.
func (q *Query) UseDate(date UseDate) *Query {
	q.params.Set("use-date", string(date))
	return q
}

// ShowFields requests optional fields on each result. Repeated calls
// accumulate; duplicates are kept once, in first-selection order.
// FieldAll anywhere in the accumulated list overrides the rest.
func (q *Query) ShowFields(fields ...Field) *Query {
	q.showFields = appendUnique(q.showFields, fields...)
	return q
}

// ShowTags requests metadata tags of the given types on each result.
// Same accumulation semantics as ShowFields.
func (q *Query) ShowTags(tags ...Tag) *Query {
	q.showTags = appendUnique(q.showTags, tags...)
	return q
}

// QueryFields restricts which indexed fields the search term is
// matched against. Same accumulation semantics as ShowFields.
func (q *Query) QueryFields(fields ...Field) *Query {
	q.queryFields = appendUnique(q.queryFields, fields...)
	return q
}

// ShowBlocks requests content blocks on each result. Same
// accumulation semantics as ShowFields.
func (q *Query) ShowBlocks(blocks ...Block) *Query {
	q.showBlocks = appendUnique(q.showBlocks, blocks...)
	return q
}

// FromDate filters to content on or after the given date. A triple
// that does not form a real calendar date is dropped silently.
func (q *Query) FromDate(year, month, day int) *Query {
	if validDate(year, month, day) {
		q.params.Set("from-date", formatDate(year, month, day))
	}
	return q
}

// ToDate filters to content on or before the given date. A triple
// that does not form a real calendar date is dropped silently.
func (q *Query) ToDate(year, month, day int) *Query {
	if validDate(year, month, day) {
		q.params.Set("to-date", formatDate(year, month, day))
	}
	return q
}

// FromTime is FromDate with sub-day precision and a timezone offset,
// sent in RFC 3339 form.
func (q *Query) FromTime(t time.Time) *Query {
	q.params.Set("from-date", t.Format(time.RFC3339))
	return q
}

// ToTime is ToDate with sub-day precision and a timezone offset, sent
// in RFC 3339 form.
func (q *Query) ToTime(t time.Time) *Query {
	q.params.Set("to-date", t.Format(time.RFC3339))
	return q
}

// StarRating filters reviews by star rating, 1 to 5. Ratings outside
// that range are dropped silently.
func (q *Query) StarRating(rating int) *Query {
	if rating >= 1 && rating <= 5 {
		q.params.Set("star-rating", strconv.Itoa(rating))
	}
	return q
}

// ShowSection adds the section metadata block to each result.
func (q *Query) ShowSection(show bool) *Query {
	q.params.Set("show-section", strconv.FormatBool(show))
	return q
}

// Section filters to content in the given section, e.g. "football".
func (q *Query) Section(section string) *Query {
	q.params.Set("section", section)
	return q
}

// Reference filters to content with the given reference, e.g.
// "isbn/9780718178949".
func (q *Query) Reference(reference string) *Query {
	q.params.Set("reference", reference)
	return q
}

// ReferenceType filters to content with references of the given type,
// e.g. "isbn".
func (q *Query) ReferenceType(refType string) *Query {
	q.params.Set("reference-type", refType)
	return q
}

// Tag filters to content with the given tag, e.g. "technology/apple".
func (q *Query) Tag(tag string) *Query {
	q.params.Set("tag", tag)
	return q
}

// IDs filters to content with the given comma-separated ids.
func (q *Query) IDs(ids string) *Query {
	q.params.Set("ids", ids)
	return q
}

// ProductionOffice filters to content from the given production
// office, e.g. "uk".
func (q *Query) ProductionOffice(office string) *Query {
	q.params.Set("production-office", office)
	return q
}

// Lang filters to content in the given ISO language code, e.g. "en".
func (q *Query) Lang(lang string) *Query {
	q.params.Set("lang", lang)
	return q
}

// TagType returns only tags of the given type. Only meaningful on the
// tags endpoint.
func (q *Query) TagType(tagType string) *Query {
	q.params.Set("type", tagType)
	return q
}

// Encode renders the accumulated parameters as a canonical query
// string. Parameter presence mirrors exactly which setters took
// effect; rendering the same Query twice is byte-identical.
func (q *Query) Encode() string {
	v := url.Values{}
	for key, vals := range q.params {
		v[key] = vals
	}
	if len(q.showFields) > 0 {
		v.Set("show-fields", joinSequence(q.showFields))
	}
	if len(q.showTags) > 0 {
		v.Set("show-tags", joinSequence(q.showTags))
	}
	if len(q.queryFields) > 0 {
		v.Set("query-fields", joinSequence(q.queryFields))
	}
	if len(q.showBlocks) > 0 {
		v.Set("show-blocks", joinSequence(q.showBlocks))
	}
	if q.client.apiKey != "" {
		v.Set("api-key", q.client.apiKey)
	}
	return v.Encode()
}

func (q *Query) path() string {
	switch q.endpoint {
	case EndpointTags:
		return "tags"
	case EndpointSections:
		return "sections"
	case EndpointEditions:
		return "editions"
	case EndpointSingleItem:
		if q.itemID != "" {
			return q.itemID
		}
		return q.params.Get("q")
	default:
		return "search"
	}
}

// Send performs the GET request and decodes the reply. Exactly one
// round trip: no retries, no backoff, no pagination traversal.
// Callers wanting more pages issue further queries.
func (q *Query) Send(ctx context.Context) (*SearchResponse, error) {
	if q.endpoint == EndpointSingleItem && q.path() == "" {
		return nil, ErrNoItemID
	}

	reqURL := q.client.baseURL + "/" + q.path()
	if encoded := q.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("create request: %w", err)}
	}

	q.client.logger.Debug("sending request",
		zap.String("endpoint", q.path()),
	)

	resp, err := q.client.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := apiMessage(body)
		q.client.logger.Error("api request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return decodeResponse(body)
}

// appendUnique extends dst with the items not already present,
// preserving first-selection order across calls.
func appendUnique[T comparable](dst []T, items ...T) []T {
	for _, item := range items {
		seen := false
		for _, have := range dst {
			if have == item {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, item)
		}
	}
	return dst
}

// joinSequence renders an enum list as the API's comma-separated
// form. "all" anywhere in the list overrides everything else.
func joinSequence[T ~string](items []T) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if string(item) == "all" {
			return "all"
		}
		parts = append(parts, string(item))
	}
	return strings.Join(parts, ",")
}

func validDate(year, month, day int) bool {
	if year < 1 || year > 9999 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

func formatDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
