package domain

import (
	"strings"
	"time"
)

const MaxWatchesPerUser = 25

// Watch is a saved search run periodically on the user's behalf. New
// matches since LastCheckedAt are stored and pushed to the user.
type Watch struct {
	ID            int64
	UserID        int64
	Query         string
	Section       string
	Tag           string
	LastCheckedAt time.Time
	CreatedAt     time.Time
}

func (w *Watch) Validate() error {
	if strings.TrimSpace(w.Query) == "" {
		return ErrEmptyQuery
	}
	if len(w.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}

// Article is a content item recorded for a watch, keyed by the API's
// content id so a piece is only ever delivered once per watch.
type Article struct {
	ID          int64
	WatchID     int64
	ContentID   string
	Title       string
	URL         string
	Section     string
	PublishedAt *time.Time
	CreatedAt   time.Time
}
