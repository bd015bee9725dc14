package domain

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
)

var (
	ErrEmptyQuery   = errors.New("empty query")
	ErrQueryTooLong = errors.New("query too long")
	ErrNoResults    = errors.New("no results found")
)

var (
	ErrWatchNotFound     = errors.New("watch not found")
	ErrDuplicateWatch    = errors.New("watch already exists")
	ErrWatchLimitReached = errors.New("watch limit reached")
)

var (
	ErrDuplicateArticle = errors.New("article already recorded")
)
