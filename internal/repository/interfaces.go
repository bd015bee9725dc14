package repository

import (
	"context"
	"time"

	"github.com/ewanmcc/guardian-bot/internal/domain"
)

type UserRepository interface {
	GetOrCreate(ctx context.Context, telegramID int64, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type WatchRepository interface {
	Create(ctx context.Context, watch *domain.Watch) error
	Delete(ctx context.Context, userID, watchID int64) error
	GetByID(ctx context.Context, watchID int64) (*domain.Watch, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Watch, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	Exists(ctx context.Context, userID int64, query, section, tag string) (bool, error)
	// ListDue returns watches not checked since the cutoff.
	ListDue(ctx context.Context, cutoff time.Time) ([]domain.Watch, error)
	SetLastChecked(ctx context.Context, watchID int64, checkedAt time.Time) error
}

type ArticleRepository interface {
	// Create records an article; domain.ErrDuplicateArticle when the
	// content id was already recorded for the watch.
	Create(ctx context.Context, article *domain.Article) error
	ExistsForWatch(ctx context.Context, watchID int64, contentID string) (bool, error)
	ListRecentByUser(ctx context.Context, userID int64, limit int) ([]domain.Article, error)
}
