// Package guardian is a client for the Guardian Open Platform content
// API. A Client is constructed once with an API key and shared; each
// search is a fresh Query built up with chainable setters and executed
// with Send, which performs exactly one GET and decodes the JSON reply.
//
// Failures surface as one of three typed errors: NetworkError for
// transport problems, APIError for non-2xx statuses and DecodeError
// for reply bodies that do not match the documented shape.
package guardian

import (
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://content.guardianapis.com"

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client holds the API key and transport. It keeps no per-request
// state and is safe for concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// NewQuery starts an empty query against the content endpoint.
func (c *Client) NewQuery() *Query {
	return &Query{
		client:   c,
		endpoint: EndpointContent,
		params:   url.Values{},
	}
}

// Search starts a content query for the given search term. The term
// supports AND, OR and NOT operators and exact phrases in double
// quotes, e.g. `"Barack Obama" AND election`.
func (c *Client) Search(term string) *Query {
	return c.NewQuery().Term(term)
}

// Item starts a single-item query. The id is a content, tag or
// section id and matches the path on theguardian.com, e.g.
// "world/2022/jan/01/funeral-of-desmond-tutu-takes-place-in-cape-town".
func (c *Client) Item(id string) *Query {
	q := c.NewQuery()
	q.endpoint = EndpointSingleItem
	q.itemID = id
	return q
}
