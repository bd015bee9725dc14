package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ewanmcc/guardian-bot/internal/domain"
	"github.com/ewanmcc/guardian-bot/internal/repository"
)

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

type notifyCall struct {
	userID int64
	watch  domain.Watch
	items  []domain.ContentItem
}

func (n *fakeNotifier) NotifyNewArticles(ctx context.Context, userID int64, watch domain.Watch, items []domain.ContentItem) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{userID: userID, watch: watch, items: items})
	return nil
}

func (n *fakeNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func newWatchFixture(t *testing.T, serverURL string, notifier Notifier) (WatchService, *repository.MockWatchRepository, *repository.MockArticleRepository) {
	t.Helper()
	watches := repository.NewMockWatchRepository()
	articles := repository.NewMockArticleRepository(watches)
	svc := NewWatchService(WatchServiceDeps{
		Watches:  watches,
		Articles: articles,
		Client:   newGuardianClient(t, serverURL),
		Notifier: notifier,
		Logger:   zap.NewNop(),
		Config: WatchRunConfig{
			Interval:    15 * time.Minute,
			Concurrency: 2,
			PageSize:    20,
		},
	})
	return svc, watches, articles
}

func TestWatchService_Create(t *testing.T) {
	svc, _, _ := newWatchFixture(t, "http://unused", nil)
	ctx := context.Background()

	w, err := svc.Create(ctx, 1, "climate crisis", "environment", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if w.ID == 0 {
		t.Error("watch ID not assigned")
	}
	if w.LastCheckedAt.IsZero() {
		t.Error("LastCheckedAt not set")
	}

	_, err = svc.Create(ctx, 1, "climate crisis", "environment", "")
	if !errors.Is(err, domain.ErrDuplicateWatch) {
		t.Errorf("duplicate error = %v, want ErrDuplicateWatch", err)
	}

	// same query for another user is fine
	if _, err := svc.Create(ctx, 2, "climate crisis", "environment", ""); err != nil {
		t.Errorf("Create() for other user error = %v", err)
	}
}

func TestWatchService_CreateLimit(t *testing.T) {
	svc, _, _ := newWatchFixture(t, "http://unused", nil)
	ctx := context.Background()

	for i := 0; i < domain.MaxWatchesPerUser; i++ {
		if _, err := svc.Create(ctx, 1, fmt.Sprintf("query %d", i), "", ""); err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
	}

	_, err := svc.Create(ctx, 1, "one too many", "", "")
	if !errors.Is(err, domain.ErrWatchLimitReached) {
		t.Errorf("error = %v, want ErrWatchLimitReached", err)
	}
}

func TestWatchService_CreateInvalid(t *testing.T) {
	svc, _, _ := newWatchFixture(t, "http://unused", nil)

	_, err := svc.Create(context.Background(), 1, "   ", "", "")
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Errorf("error = %v, want ErrEmptyQuery", err)
	}
}

func TestWatchService_Delete(t *testing.T) {
	svc, _, _ := newWatchFixture(t, "http://unused", nil)
	ctx := context.Background()

	w, err := svc.Create(ctx, 1, "climate crisis", "", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// another user cannot delete it
	if err := svc.Delete(ctx, 2, w.ID); !errors.Is(err, domain.ErrWatchNotFound) {
		t.Errorf("cross-user delete error = %v, want ErrWatchNotFound", err)
	}

	if err := svc.Delete(ctx, 1, w.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, 1, w.ID); !errors.Is(err, domain.ErrWatchNotFound) {
		t.Errorf("second delete error = %v, want ErrWatchNotFound", err)
	}
}

func TestWatchService_RunDue(t *testing.T) {
	server := newSearchServer(t, searchBody, nil)
	defer server.Close()

	notifier := &fakeNotifier{}
	svc, watches, articles := newWatchFixture(t, server.URL, notifier)
	ctx := context.Background()

	stale := time.Now().UTC().Add(-2 * time.Hour)
	w := &domain.Watch{UserID: 7, Query: "politics", LastCheckedAt: stale}
	if err := watches.Create(ctx, w); err != nil {
		t.Fatalf("seed watch: %v", err)
	}

	if err := svc.RunDue(ctx); err != nil {
		t.Fatalf("RunDue() error = %v", err)
	}

	got, err := articles.ListRecentByUser(ctx, 7, 10)
	if err != nil {
		t.Fatalf("ListRecentByUser() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("stored %d articles, want 2", len(got))
	}

	if notifier.callCount() != 1 {
		t.Fatalf("notifier called %d times, want 1", notifier.callCount())
	}
	call := notifier.calls[0]
	if call.userID != 7 {
		t.Errorf("notified user %d, want 7", call.userID)
	}
	if len(call.items) != 2 {
		t.Errorf("notified with %d items, want 2", len(call.items))
	}

	updated, err := watches.GetByID(ctx, w.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !updated.LastCheckedAt.After(stale) {
		t.Error("LastCheckedAt not advanced")
	}

	// a second pass over the same results stores nothing new
	if err := watches.SetLastChecked(ctx, w.ID, stale); err != nil {
		t.Fatalf("SetLastChecked() error = %v", err)
	}
	if err := svc.RunDue(ctx); err != nil {
		t.Fatalf("second RunDue() error = %v", err)
	}

	got, err = articles.ListRecentByUser(ctx, 7, 10)
	if err != nil {
		t.Fatalf("ListRecentByUser() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("stored %d articles after rerun, want 2", len(got))
	}
	if notifier.callCount() != 1 {
		t.Errorf("notifier called %d times after rerun, want 1", notifier.callCount())
	}
}

func TestWatchService_RunDue_SkipsFresh(t *testing.T) {
	server := newSearchServer(t, searchBody, nil)
	defer server.Close()

	notifier := &fakeNotifier{}
	svc, watches, articles := newWatchFixture(t, server.URL, notifier)
	ctx := context.Background()

	w := &domain.Watch{UserID: 7, Query: "politics", LastCheckedAt: time.Now().UTC()}
	if err := watches.Create(ctx, w); err != nil {
		t.Fatalf("seed watch: %v", err)
	}

	if err := svc.RunDue(ctx); err != nil {
		t.Fatalf("RunDue() error = %v", err)
	}

	got, err := articles.ListRecentByUser(ctx, 7, 10)
	if err != nil {
		t.Fatalf("ListRecentByUser() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("stored %d articles for a fresh watch, want 0", len(got))
	}
}

func TestWatchService_RunDue_FailingWatchDoesNotAbort(t *testing.T) {
	var mu sync.Mutex
	queries := make(map[string]bool)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		mu.Lock()
		queries[q] = true
		mu.Unlock()
		if q == "broken" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"response":{"status":"error","message":"boom"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchBody))
	}))
	defer server.Close()

	svc, watches, articles := newWatchFixture(t, server.URL, nil)
	ctx := context.Background()

	stale := time.Now().UTC().Add(-2 * time.Hour)
	broken := &domain.Watch{UserID: 7, Query: "broken", LastCheckedAt: stale}
	healthy := &domain.Watch{UserID: 7, Query: "politics", LastCheckedAt: stale}
	if err := watches.Create(ctx, broken); err != nil {
		t.Fatalf("seed watch: %v", err)
	}
	if err := watches.Create(ctx, healthy); err != nil {
		t.Fatalf("seed watch: %v", err)
	}

	if err := svc.RunDue(ctx); err != nil {
		t.Fatalf("RunDue() error = %v", err)
	}

	mu.Lock()
	sawBoth := queries["broken"] && queries["politics"]
	mu.Unlock()
	if !sawBoth {
		t.Errorf("expected both watches polled, saw %v", queries)
	}

	got, err := articles.ListRecentByUser(ctx, 7, 10)
	if err != nil {
		t.Fatalf("ListRecentByUser() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("stored %d articles from healthy watch, want 2", len(got))
	}

	// the broken watch stays due for the next pass
	updated, err := watches.GetByID(ctx, broken.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if updated.LastCheckedAt.After(stale.Add(time.Second)) {
		t.Error("failing watch should not be marked checked")
	}
}
