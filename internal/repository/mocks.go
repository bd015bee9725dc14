package repository

import (
	"context"
	"sync"
	"time"

	"github.com/ewanmcc/guardian-bot/internal/domain"
)

type MockUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User // key: TelegramID
	nextID int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[int64]*domain.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) GetOrCreate(ctx context.Context, telegramID int64, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user, exists := m.users[telegramID]; exists {
		if user.Username != username {
			user.Username = username
		}
		return user, nil
	}

	user := &domain.User{
		ID:         m.nextID,
		TelegramID: telegramID,
		Username:   username,
		CreatedAt:  time.Now(),
	}
	m.nextID++
	m.users[telegramID] = user
	return user, nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type MockWatchRepository struct {
	mu      sync.RWMutex
	watches map[int64]*domain.Watch // key: Watch ID
	nextID  int64
}

func NewMockWatchRepository() *MockWatchRepository {
	return &MockWatchRepository{
		watches: make(map[int64]*domain.Watch),
		nextID:  1,
	}
}

func (m *MockWatchRepository) Create(ctx context.Context, watch *domain.Watch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.watches {
		if w.UserID == watch.UserID && w.Query == watch.Query &&
			w.Section == watch.Section && w.Tag == watch.Tag {
			return domain.ErrDuplicateWatch
		}
	}

	watch.ID = m.nextID
	m.nextID++
	watch.CreatedAt = time.Now()
	copied := *watch
	m.watches[watch.ID] = &copied
	return nil
}

func (m *MockWatchRepository) Delete(ctx context.Context, userID, watchID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, exists := m.watches[watchID]
	if !exists || w.UserID != userID {
		return domain.ErrWatchNotFound
	}
	delete(m.watches, watchID)
	return nil
}

func (m *MockWatchRepository) GetByID(ctx context.Context, watchID int64) (*domain.Watch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if w, exists := m.watches[watchID]; exists {
		copied := *w
		return &copied, nil
	}
	return nil, domain.ErrWatchNotFound
}

func (m *MockWatchRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Watch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var watches []domain.Watch
	for _, w := range m.watches {
		if w.UserID == userID {
			watches = append(watches, *w)
		}
	}
	sortWatchesByID(watches)
	return watches, nil
}

func (m *MockWatchRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, w := range m.watches {
		if w.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *MockWatchRepository) Exists(ctx context.Context, userID int64, query, section, tag string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, w := range m.watches {
		if w.UserID == userID && w.Query == query && w.Section == section && w.Tag == tag {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockWatchRepository) ListDue(ctx context.Context, cutoff time.Time) ([]domain.Watch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var watches []domain.Watch
	for _, w := range m.watches {
		if w.LastCheckedAt.Before(cutoff) {
			watches = append(watches, *w)
		}
	}
	sortWatchesByID(watches)
	return watches, nil
}

func (m *MockWatchRepository) SetLastChecked(ctx context.Context, watchID int64, checkedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, exists := m.watches[watchID]
	if !exists {
		return domain.ErrWatchNotFound
	}
	w.LastCheckedAt = checkedAt
	return nil
}

type MockArticleRepository struct {
	mu       sync.RWMutex
	articles map[int64]*domain.Article // key: Article ID
	watches  *MockWatchRepository      // for ListRecentByUser joins; optional
	nextID   int64
}

func NewMockArticleRepository(watches *MockWatchRepository) *MockArticleRepository {
	return &MockArticleRepository{
		articles: make(map[int64]*domain.Article),
		watches:  watches,
		nextID:   1,
	}
}

func (m *MockArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.articles {
		if a.WatchID == article.WatchID && a.ContentID == article.ContentID {
			return domain.ErrDuplicateArticle
		}
	}

	article.ID = m.nextID
	m.nextID++
	article.CreatedAt = time.Now()
	copied := *article
	m.articles[article.ID] = &copied
	return nil
}

func (m *MockArticleRepository) ExistsForWatch(ctx context.Context, watchID int64, contentID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.articles {
		if a.WatchID == watchID && a.ContentID == contentID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockArticleRepository) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]domain.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var articles []domain.Article
	for _, a := range m.articles {
		w, err := m.watches.GetByID(ctx, a.WatchID)
		if err != nil {
			continue
		}
		if w.UserID == userID {
			articles = append(articles, *a)
		}
	}

	// newest first, as the SQL implementation orders
	for i := 0; i < len(articles); i++ {
		for j := i + 1; j < len(articles); j++ {
			if articles[j].ID > articles[i].ID {
				articles[i], articles[j] = articles[j], articles[i]
			}
		}
	}

	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

func sortWatchesByID(watches []domain.Watch) {
	for i := 0; i < len(watches); i++ {
		for j := i + 1; j < len(watches); j++ {
			if watches[j].ID < watches[i].ID {
				watches[i], watches[j] = watches[j], watches[i]
			}
		}
	}
}
