package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ewanmcc/guardian-bot/internal/domain"
	"github.com/ewanmcc/guardian-bot/internal/guardian"
	"github.com/ewanmcc/guardian-bot/internal/metrics"
)

// SearchService runs a single content search. One call is one API
// round trip: paging through results means calling again with a
// higher page number.
type SearchService interface {
	Search(ctx context.Context, params domain.SearchParams) (*domain.SearchPage, error)
}

type SearchConfig struct {
	DefaultPageSize int
}

type searchService struct {
	client  *guardian.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
	config  SearchConfig
}

func NewSearchService(client *guardian.Client, logger *zap.Logger, m *metrics.Metrics, cfg SearchConfig) SearchService {
	if cfg.DefaultPageSize == 0 {
		cfg.DefaultPageSize = 10
	}

	return &searchService{
		client:  client,
		logger:  logger,
		metrics: m,
		config:  cfg,
	}
}

func (s *searchService) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchPage, error) {
	if s.metrics != nil {
		s.metrics.IncRequestsInFlight()
		defer s.metrics.DecRequestsInFlight()
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	query := s.client.Search(params.Query).
		ShowFields(guardian.FieldByline, guardian.FieldTrailText)

	if params.Section != "" {
		query.Section(params.Section)
	}
	if params.Tag != "" {
		query.Tag(params.Tag)
	}
	if order, ok := parseOrderBy(params.OrderBy); ok {
		query.OrderBy(order)
	}
	if params.StarRating != 0 {
		query.StarRating(params.StarRating)
	}
	if params.From != nil {
		query.FromDate(params.From.Year, params.From.Month, params.From.Day)
	}
	if params.To != nil {
		query.ToDate(params.To.Year, params.To.Month, params.To.Day)
	}
	if params.Page > 0 {
		query.Page(params.Page)
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = s.config.DefaultPageSize
	}
	query.PageSize(pageSize)

	start := time.Now()
	resp, err := query.Send(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}
	if s.metrics != nil {
		s.metrics.RecordSearchRequest("content", status, time.Since(start))
	}

	if err != nil {
		s.logger.Error("search failed",
			zap.String("query", params.Query),
			zap.Error(err),
		)
		return nil, err
	}

	page := toSearchPage(params.Query, resp)
	if len(page.Items) == 0 {
		return nil, domain.ErrNoResults
	}
	return page, nil
}

func parseOrderBy(order string) (guardian.OrderBy, bool) {
	switch order {
	case "newest":
		return guardian.OrderByNewest, true
	case "oldest":
		return guardian.OrderByOldest, true
	case "relevance":
		return guardian.OrderByRelevance, true
	default:
		return "", false
	}
}

func toSearchPage(query string, resp *guardian.SearchResponse) *domain.SearchPage {
	page := &domain.SearchPage{
		Query:       query,
		Total:       intValue(resp.Total),
		Pages:       intValue(resp.Pages),
		CurrentPage: intValue(resp.CurrentPage),
		Items:       make([]domain.ContentItem, 0, len(resp.Results)),
	}

	for _, r := range resp.Results {
		page.Items = append(page.Items, toContentItem(&r))
	}
	return page
}

func toContentItem(r *guardian.Result) domain.ContentItem {
	item := domain.ContentItem{
		ID:        r.ID,
		Title:     r.WebTitle,
		URL:       r.WebURL,
		Section:   stringValue(r.SectionName),
		Published: r.WebPublicationDate,
	}
	if r.Fields != nil {
		item.Byline = stringValue(r.Fields.Byline)
		item.TrailText = stringValue(r.Fields.TrailText)
	}
	return item
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
