package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ewanmcc/guardian-bot/internal/domain"
)

type ArticleRepo struct {
	db *DB
}

func NewArticleRepo(db *DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

func (r *ArticleRepo) Create(ctx context.Context, article *domain.Article) error {
	query := `
        INSERT INTO articles (watch_id, content_id, title, url, section, published_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `

	err := r.db.Pool.QueryRow(ctx, query,
		article.WatchID,
		article.ContentID,
		article.Title,
		article.URL,
		article.Section,
		article.PublishedAt,
	).Scan(&article.ID, &article.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateArticle
		}
		return fmt.Errorf("create article: %w", err)
	}

	return nil
}

func (r *ArticleRepo) ExistsForWatch(ctx context.Context, watchID int64, contentID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM articles WHERE watch_id = $1 AND content_id = $2)`

	var exists bool
	err := r.db.Pool.QueryRow(ctx, query, watchID, contentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check article exists: %w", err)
	}

	return exists, nil
}

func (r *ArticleRepo) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]domain.Article, error) {
	query := `
        SELECT a.id, a.watch_id, a.content_id, a.title, a.url, a.section, a.published_at, a.created_at
        FROM articles a
        JOIN watches w ON w.id = a.watch_id
        WHERE w.user_id = $1
        ORDER BY a.created_at DESC
        LIMIT $2
    `

	rows, err := r.db.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		err := rows.Scan(
			&a.ID,
			&a.WatchID,
			&a.ContentID,
			&a.Title,
			&a.URL,
			&a.Section,
			&a.PublishedAt,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return articles, nil
}
