package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ewanmcc/guardian-bot/internal/domain"
	"github.com/ewanmcc/guardian-bot/internal/guardian"
	"github.com/ewanmcc/guardian-bot/internal/metrics"
	"github.com/ewanmcc/guardian-bot/internal/repository"
)

// Notifier delivers newly stored articles to the watch owner.
type Notifier interface {
	NotifyNewArticles(ctx context.Context, userID int64, watch domain.Watch, items []domain.ContentItem) error
}

// WatchService manages saved searches and periodic polling for new content.
type WatchService interface {
	Create(ctx context.Context, userID int64, query, section, tag string) (domain.Watch, error)
	Delete(ctx context.Context, userID, watchID int64) error
	List(ctx context.Context, userID int64) ([]domain.Watch, error)
	RecentArticles(ctx context.Context, userID int64, limit int) ([]domain.Article, error)
	RunDue(ctx context.Context) error
}

// WatchRunConfig controls the polling pass.
type WatchRunConfig struct {
	Interval    time.Duration
	Concurrency int
	PageSize    int
}

type WatchServiceDeps struct {
	Watches  repository.WatchRepository
	Articles repository.ArticleRepository
	Client   *guardian.Client
	Notifier Notifier
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Config   WatchRunConfig
}

type watchService struct {
	watches  repository.WatchRepository
	articles repository.ArticleRepository
	client   *guardian.Client
	notifier Notifier
	logger   *zap.Logger
	metrics  *metrics.Metrics
	config   WatchRunConfig
}

func NewWatchService(deps WatchServiceDeps) WatchService {
	cfg := deps.Config
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	return &watchService{
		watches:  deps.Watches,
		articles: deps.Articles,
		client:   deps.Client,
		notifier: deps.Notifier,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		config:   cfg,
	}
}

func (s *watchService) Create(ctx context.Context, userID int64, query, section, tag string) (domain.Watch, error) {
	w := domain.Watch{
		UserID:        userID,
		Query:         query,
		Section:       section,
		Tag:           tag,
		LastCheckedAt: time.Now().UTC(),
	}
	if err := w.Validate(); err != nil {
		return domain.Watch{}, err
	}

	count, err := s.watches.CountByUser(ctx, userID)
	if err != nil {
		return domain.Watch{}, fmt.Errorf("count watches: %w", err)
	}
	if count >= domain.MaxWatchesPerUser {
		return domain.Watch{}, domain.ErrWatchLimitReached
	}

	exists, err := s.watches.Exists(ctx, userID, w.Query, w.Section, w.Tag)
	if err != nil {
		return domain.Watch{}, fmt.Errorf("check watch: %w", err)
	}
	if exists {
		return domain.Watch{}, domain.ErrDuplicateWatch
	}

	if err := s.watches.Create(ctx, &w); err != nil {
		return domain.Watch{}, fmt.Errorf("create watch: %w", err)
	}

	s.logger.Info("watch created",
		zap.Int64("user_id", userID),
		zap.Int64("watch_id", w.ID),
		zap.String("query", w.Query))
	return w, nil
}

func (s *watchService) Delete(ctx context.Context, userID, watchID int64) error {
	if err := s.watches.Delete(ctx, userID, watchID); err != nil {
		return err
	}
	s.logger.Info("watch deleted", zap.Int64("user_id", userID), zap.Int64("watch_id", watchID))
	return nil
}

func (s *watchService) List(ctx context.Context, userID int64) ([]domain.Watch, error) {
	return s.watches.ListByUser(ctx, userID)
}

func (s *watchService) RecentArticles(ctx context.Context, userID int64, limit int) ([]domain.Article, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.articles.ListRecentByUser(ctx, userID, limit)
}

// RunDue polls every watch whose last check is older than the configured
// interval. Watches are checked concurrently with a bounded worker count;
// a failing watch is logged and skipped, it does not abort the pass.
func (s *watchService) RunDue(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.config.Interval)
	due, err := s.watches.ListDue(ctx, cutoff)
	if err != nil {
		s.recordRun("error")
		return fmt.Errorf("list due watches: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	s.logger.Debug("polling watches", zap.Int("count", len(due)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for _, w := range due {
		g.Go(func() error {
			if err := s.checkWatch(gctx, w); err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				s.recordRun("error")
				s.logger.Warn("watch check failed",
					zap.Int64("watch_id", w.ID),
					zap.String("query", w.Query),
					zap.Error(err))
				return nil
			}
			s.recordRun("ok")
			return nil
		})
	}
	return g.Wait()
}

func (s *watchService) recordRun(status string) {
	if s.metrics != nil {
		s.metrics.RecordWatchRun(status)
	}
}

func (s *watchService) checkWatch(ctx context.Context, w domain.Watch) error {
	q := s.client.Search(w.Query).
		FromTime(w.LastCheckedAt).
		OrderBy(guardian.OrderByNewest).
		PageSize(s.config.PageSize).
		ShowFields(guardian.FieldTrailText)
	if w.Section != "" {
		q.Section(w.Section)
	}
	if w.Tag != "" {
		q.Tag(w.Tag)
	}

	resp, err := q.Send(ctx)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	now := time.Now().UTC()
	var fresh []domain.ContentItem
	stored := 0
	for i := range resp.Results {
		r := &resp.Results[i]
		seen, err := s.articles.ExistsForWatch(ctx, w.ID, r.ID)
		if err != nil {
			return fmt.Errorf("check article: %w", err)
		}
		if seen {
			continue
		}
		item := toContentItem(r)
		err = s.articles.Create(ctx, &domain.Article{
			WatchID:     w.ID,
			ContentID:   item.ID,
			Title:       item.Title,
			URL:         item.URL,
			Section:     item.Section,
			PublishedAt: item.Published,
		})
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateArticle) {
				continue
			}
			return fmt.Errorf("store article: %w", err)
		}
		stored++
		fresh = append(fresh, item)
	}

	if err := s.watches.SetLastChecked(ctx, w.ID, now); err != nil {
		return fmt.Errorf("mark checked: %w", err)
	}
	if stored > 0 && s.metrics != nil {
		s.metrics.RecordArticlesStored(stored)
	}

	if len(fresh) > 0 && s.notifier != nil {
		if err := s.notifier.NotifyNewArticles(ctx, w.UserID, w, fresh); err != nil {
			s.logger.Warn("notify failed",
				zap.Int64("watch_id", w.ID),
				zap.Int64("user_id", w.UserID),
				zap.Error(err))
		}
	}
	return nil
}
