package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ewanmcc/guardian-bot/internal/domain"
	"github.com/ewanmcc/guardian-bot/internal/guardian"
)

func TestMapErrorToMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty query", domain.ErrEmptyQuery, "The search text is empty. Tell me what to look for."},
		{"no results", domain.ErrNoResults, "No results. Try different search terms or fewer filters."},
		{"watch not found", domain.ErrWatchNotFound, "That watch does not exist."},
		{"duplicate watch", domain.ErrDuplicateWatch, "You are already watching that."},
		{"api error", &guardian.APIError{StatusCode: http.StatusForbidden, Message: "nope"}, "The Guardian API rejected the request. Please try again later."},
		{"network error", &guardian.NetworkError{Err: errors.New("refused")}, "Could not reach the Guardian API. Please try again later."},
		{"unknown", errors.New("some random error"), "Something went wrong. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapErrorToMessage(tt.err)
			if got != tt.want {
				t.Errorf("mapErrorToMessage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapErrorToMessage_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("search: %w", domain.ErrWatchLimitReached)
	got := mapErrorToMessage(wrapped)
	if got == "Something went wrong. Please try again later." {
		t.Errorf("wrapped limit error got default message")
	}
}

func TestHandler_SearchCommand(t *testing.T) {
	searchSvc := &MockSearchService{}
	bot := createTestBot(searchSvc, &MockWatchService{})

	msg := createTestMessage(123, "/search brexit deal section:politics order:newest")
	bot.handler.HandleMessage(context.Background(), msg)

	if searchSvc.CallCount != 1 {
		t.Fatalf("CallCount = %d, want 1", searchSvc.CallCount)
	}
	if searchSvc.LastParams.Query != "brexit deal" {
		t.Errorf("Query = %q, want 'brexit deal'", searchSvc.LastParams.Query)
	}
	if searchSvc.LastParams.Section != "politics" {
		t.Errorf("Section = %q, want 'politics'", searchSvc.LastParams.Section)
	}
	if searchSvc.LastParams.OrderBy != "newest" {
		t.Errorf("OrderBy = %q, want 'newest'", searchSvc.LastParams.OrderBy)
	}
}

func TestHandler_BareTextIsSearch(t *testing.T) {
	searchSvc := &MockSearchService{}
	bot := createTestBot(searchSvc, &MockWatchService{})

	msg := createTestMessage(123, "climate crisis")
	bot.handler.HandleMessage(context.Background(), msg)

	if searchSvc.CallCount != 1 {
		t.Fatalf("CallCount = %d, want 1", searchSvc.CallCount)
	}
	if searchSvc.LastParams.Query != "climate crisis" {
		t.Errorf("Query = %q, want 'climate crisis'", searchSvc.LastParams.Query)
	}
}

func TestHandler_SearchBadOption(t *testing.T) {
	searchSvc := &MockSearchService{}
	bot := createTestBot(searchSvc, &MockWatchService{})

	msg := createTestMessage(123, "/search brexit stars:nine")
	bot.handler.HandleMessage(context.Background(), msg)

	if searchSvc.CallCount != 0 {
		t.Errorf("CallCount = %d, want 0 for malformed option", searchSvc.CallCount)
	}
}

func TestHandler_WatchCommand(t *testing.T) {
	watchSvc := &MockWatchService{}
	bot := createTestBot(&MockSearchService{}, watchSvc)

	msg := createTestMessage(123, "/watch climate crisis section:environment")
	bot.handler.HandleMessage(context.Background(), msg)

	if watchSvc.CreateCalls != 1 {
		t.Fatalf("CreateCalls = %d, want 1", watchSvc.CreateCalls)
	}
}

func TestHandler_WatchWithoutArgs(t *testing.T) {
	watchSvc := &MockWatchService{}
	bot := createTestBot(&MockSearchService{}, watchSvc)

	msg := createTestMessage(123, "/watch")
	bot.handler.HandleMessage(context.Background(), msg)

	if watchSvc.CreateCalls != 0 {
		t.Errorf("CreateCalls = %d, want 0 without arguments", watchSvc.CreateCalls)
	}
}

func TestHandler_Unwatch(t *testing.T) {
	watchSvc := &MockWatchService{
		Watches: []domain.Watch{
			{ID: 11, UserID: 123, Query: "first"},
			{ID: 12, UserID: 123, Query: "second"},
		},
	}
	bot := createTestBot(&MockSearchService{}, watchSvc)

	msg := createTestMessage(123, "/unwatch 2")
	bot.handler.HandleMessage(context.Background(), msg)

	if len(watchSvc.DeletedIDs) != 1 || watchSvc.DeletedIDs[0] != 12 {
		t.Errorf("DeletedIDs = %v, want [12]", watchSvc.DeletedIDs)
	}
}

func TestHandler_UnwatchOutOfRange(t *testing.T) {
	watchSvc := &MockWatchService{
		Watches: []domain.Watch{{ID: 11, UserID: 123, Query: "only"}},
	}
	bot := createTestBot(&MockSearchService{}, watchSvc)

	msg := createTestMessage(123, "/unwatch 5")
	bot.handler.HandleMessage(context.Background(), msg)

	if len(watchSvc.DeletedIDs) != 0 {
		t.Errorf("DeletedIDs = %v, want none", watchSvc.DeletedIDs)
	}
}
