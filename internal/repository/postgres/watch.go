package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ewanmcc/guardian-bot/internal/domain"
)

type WatchRepo struct {
	db *DB
}

func NewWatchRepo(db *DB) *WatchRepo {
	return &WatchRepo{db: db}
}

func (r *WatchRepo) Create(ctx context.Context, watch *domain.Watch) error {
	query := `
        INSERT INTO watches (user_id, query, section, tag, last_checked_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `

	err := r.db.Pool.QueryRow(ctx, query,
		watch.UserID,
		watch.Query,
		watch.Section,
		watch.Tag,
		watch.LastCheckedAt,
	).Scan(&watch.ID, &watch.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateWatch
		}
		return fmt.Errorf("create watch: %w", err)
	}

	return nil
}

func (r *WatchRepo) Delete(ctx context.Context, userID, watchID int64) error {
	query := `DELETE FROM watches WHERE id = $1 AND user_id = $2`

	result, err := r.db.Pool.Exec(ctx, query, watchID, userID)
	if err != nil {
		return fmt.Errorf("delete watch: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrWatchNotFound
	}

	return nil
}

func (r *WatchRepo) GetByID(ctx context.Context, watchID int64) (*domain.Watch, error) {
	query := `
        SELECT id, user_id, query, section, tag, last_checked_at, created_at
        FROM watches
        WHERE id = $1
    `

	var w domain.Watch
	err := r.db.Pool.QueryRow(ctx, query, watchID).Scan(
		&w.ID,
		&w.UserID,
		&w.Query,
		&w.Section,
		&w.Tag,
		&w.LastCheckedAt,
		&w.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWatchNotFound
		}
		return nil, fmt.Errorf("get watch: %w", err)
	}

	return &w, nil
}

func (r *WatchRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Watch, error) {
	query := `
        SELECT id, user_id, query, section, tag, last_checked_at, created_at
        FROM watches
        WHERE user_id = $1
        ORDER BY created_at
    `

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list watches: %w", err)
	}
	defer rows.Close()

	return scanWatches(rows)
}

func (r *WatchRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM watches WHERE user_id = $1`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count watches: %w", err)
	}

	return count, nil
}

func (r *WatchRepo) Exists(ctx context.Context, userID int64, searchQuery, section, tag string) (bool, error) {
	query := `
        SELECT EXISTS(
            SELECT 1 FROM watches
            WHERE user_id = $1 AND query = $2 AND section = $3 AND tag = $4
        )
    `

	var exists bool
	err := r.db.Pool.QueryRow(ctx, query, userID, searchQuery, section, tag).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check watch exists: %w", err)
	}

	return exists, nil
}

func (r *WatchRepo) ListDue(ctx context.Context, cutoff time.Time) ([]domain.Watch, error) {
	query := `
        SELECT id, user_id, query, section, tag, last_checked_at, created_at
        FROM watches
        WHERE last_checked_at < $1
        ORDER BY last_checked_at
    `

	rows, err := r.db.Pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list due watches: %w", err)
	}
	defer rows.Close()

	return scanWatches(rows)
}

func (r *WatchRepo) SetLastChecked(ctx context.Context, watchID int64, checkedAt time.Time) error {
	query := `UPDATE watches SET last_checked_at = $1 WHERE id = $2`

	result, err := r.db.Pool.Exec(ctx, query, checkedAt, watchID)
	if err != nil {
		return fmt.Errorf("set last checked: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrWatchNotFound
	}

	return nil
}

func scanWatches(rows pgx.Rows) ([]domain.Watch, error) {
	var watches []domain.Watch
	for rows.Next() {
		var w domain.Watch
		err := rows.Scan(
			&w.ID,
			&w.UserID,
			&w.Query,
			&w.Section,
			&w.Tag,
			&w.LastCheckedAt,
			&w.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan watch: %w", err)
		}
		watches = append(watches, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return watches, nil
}
