package guardian

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

// The API wraps every reply in an envelope; error replies sometimes
// carry a top-level message instead of a response object.
type envelope struct {
	Message  *string         `json:"message"`
	Response *SearchResponse `json:"response"`
}

// SearchResponse is the decoded reply envelope. Status is the only
// field the API always sends; everything else is pointer-typed so
// absence stays distinguishable from a zero value. Unknown JSON keys
// are ignored for forward compatibility.
type SearchResponse struct {
	Status      string  `json:"status"`
	UserTier    *string `json:"userTier"`
	Total       *int    `json:"total"`
	StartIndex  *int    `json:"startIndex"`
	PageSize    *int    `json:"pageSize"`
	CurrentPage *int    `json:"currentPage"`
	// Pages is signed: the API answers an out-of-range page-size
	// request with pages: -1 rather than an error status.
	Pages   *int     `json:"pages"`
	OrderBy *string  `json:"orderBy"`
	Results []Result `json:"results"`
	// Content is set instead of Results on the single-item endpoint.
	Content *Result `json:"content"`
	Message *string `json:"message"`
}

// Result is one matched piece of content. ID, WebTitle and WebURL are
// required; the rest is populated only when present in the reply, and
// Fields, Tags and Blocks only when the corresponding show-* parameter
// requested them.
type Result struct {
	ID                 string        `json:"id"`
	Type               *string       `json:"type"`
	SectionID          *string       `json:"sectionId"`
	SectionName        *string       `json:"sectionName"`
	WebPublicationDate *time.Time    `json:"webPublicationDate"`
	WebTitle           string        `json:"webTitle"`
	WebURL             string        `json:"webUrl"`
	APIURL             *string       `json:"apiUrl"`
	IsHosted           *bool         `json:"isHosted"`
	PillarID           *string       `json:"pillarId"`
	PillarName         *string       `json:"pillarName"`
	Fields             *Fields       `json:"fields"`
	Tags               []ResultTag   `json:"tags"`
	Blocks             *ResultBlocks `json:"blocks"`
}

// Fields holds the optional show-fields values. The API returns them
// all as strings, including the numeric-looking ones; only the two
// date fields are real timestamps.
type Fields struct {
	TrailText            *string    `json:"trailText"`
	Headline             *string    `json:"headline"`
	ShowInRelatedContent *string    `json:"showInRelatedContent"`
	Body                 *string    `json:"body"`
	BodyText             *string    `json:"bodyText"`
	LastModified         *time.Time `json:"lastModified"`
	HasStoryPackage      *string    `json:"hasStoryPackage"`
	Score                *string    `json:"score"`
	Standfirst           *string    `json:"standfirst"`
	ShortURL             *string    `json:"shortUrl"`
	Byline               *string    `json:"byline"`
	Thumbnail            *string    `json:"thumbnail"`
	Wordcount            *string    `json:"wordcount"`
	Commentable          *string    `json:"commentable"`
	IsPremoderated       *string    `json:"isPremoderated"`
	AllowUGC             *string    `json:"allowUgc"`
	Publication          *string    `json:"publication"`
	InternalPageCode     *string    `json:"internalPageCode"`
	ProductionOffice     *string    `json:"productionOffice"`
	ShouldHideAdverts    *string    `json:"shouldHideAdverts"`
	LiveBloggingNow      *string    `json:"liveBloggingNow"`
	CommentCloseDate     *time.Time `json:"commentCloseDate"`
	StarRating           *string    `json:"starRating"`
}

// ResultTag is one metadata tag attached to a result by show-tags.
type ResultTag struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	WebTitle    string  `json:"webTitle"`
	WebURL      string  `json:"webUrl"`
	APIURL      string  `json:"apiUrl"`
	SectionID   *string `json:"sectionId"`
	SectionName *string `json:"sectionName"`
}

// ResultBlocks holds the content blocks attached by show-blocks.
// Liveblogs have many body blocks; ordinary content has one.
type ResultBlocks struct {
	Main *BlockDetail  `json:"main"`
	Body []BlockDetail `json:"body"`
}

type BlockDetail struct {
	ID                 string     `json:"id"`
	BodyHTML           *string    `json:"bodyHtml"`
	BodyTextSummary    *string    `json:"bodyTextSummary"`
	PublishedDate      *time.Time `json:"publishedDate"`
	FirstPublishedDate *time.Time `json:"firstPublishedDate"`
}

// decodeResponse decodes a 2xx reply body. Undecodable JSON, a
// malformed timestamp anywhere in the document, a missing envelope or
// a missing required field all fail with a DecodeError; absent
// optional fields decode to nil.
func decodeResponse(body []byte) (*SearchResponse, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Reason: "unmarshal response body", Err: err}
	}
	if env.Response == nil {
		return nil, &DecodeError{Reason: "missing response envelope"}
	}
	if err := env.Response.validate(); err != nil {
		return nil, err
	}
	return env.Response, nil
}

func (r *SearchResponse) validate() error {
	if r.Status == "" {
		return &DecodeError{Reason: `missing required field "status"`}
	}
	for i := range r.Results {
		if err := r.Results[i].validate(); err != nil {
			return err
		}
	}
	if r.Content != nil {
		return r.Content.validate()
	}
	return nil
}

func (r *Result) validate() error {
	switch {
	case r.ID == "":
		return &DecodeError{Reason: `result missing required field "id"`}
	case r.WebTitle == "":
		return &DecodeError{Reason: `result missing required field "webTitle"`}
	case r.WebURL == "":
		return &DecodeError{Reason: `result missing required field "webUrl"`}
	}
	return nil
}

// apiMessage extracts the error detail from a non-2xx body: the
// envelope message when the body parses, the trimmed raw body when it
// does not.
func apiMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Response != nil && env.Response.Message != nil {
			return *env.Response.Message
		}
		if env.Message != nil {
			return *env.Message
		}
		return ""
	}

	const maxDetail = 200
	detail := strings.TrimSpace(string(body))
	if len(detail) > maxDetail {
		// back off to a rune boundary so the detail stays valid UTF-8
		cut := maxDetail
		for cut > 0 && !utf8.RuneStart(detail[cut]) {
			cut--
		}
		detail = detail[:cut]
	}
	return detail
}
