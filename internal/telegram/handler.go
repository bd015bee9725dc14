package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ewanmcc/guardian-bot/internal/domain"
	"github.com/ewanmcc/guardian-bot/internal/guardian"
)

// telegram rejects messages above this length
const maxMessageLen = 4096

type Handler struct {
	bot *Bot
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{bot: bot}
}

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.logger.Info("received message",
		zap.Int64("user_id", msg.From.ID),
		zap.String("username", msg.From.UserName),
		zap.Bool("is_command", msg.IsCommand()),
	)

	if msg.IsCommand() {
		h.handleCommand(ctx, msg)
		return
	}

	// bare text is treated as a search
	h.handleSearchText(ctx, msg, msg.Text)
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "search":
		h.handleSearchText(ctx, msg, msg.CommandArguments())
	case "watch":
		h.handleWatch(ctx, msg)
	case "watches":
		h.handleWatches(ctx, msg)
	case "unwatch":
		h.handleUnwatch(ctx, msg)
	case "latest":
		h.handleLatest(ctx, msg)
	default:
		h.bot.Send(msg.Chat.ID, "Unknown command. Use /help to see what I can do.")
	}
}

func (h *Handler) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	_, err := h.bot.userService.GetOrCreate(ctx, msg.From.ID, msg.From.UserName)
	if err != nil {
		h.bot.logger.Error("failed to create user", zap.Error(err))
		h.bot.Send(msg.Chat.ID, "Something went wrong. Please try again later.")
		return
	}

	h.bot.Send(msg.Chat.ID, "Welcome! I search Guardian journalism for you.\n\nSend me any text to search, or use /help to see all commands.")
}

func (h *Handler) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	helpText := `<b>Commands:</b>

/search text - Search Guardian content
/watch text - Get notified about new matches
/watches - List your watches
/unwatch N - Remove watch number N
/latest - Recent articles from your watches
/help - Show this message

<b>Search filters</b> (work with /search and /watch):
section:politics - Limit to a section
tag:environment/energy - Limit to a tag
order:newest - newest, oldest or relevance
stars:4 - Minimum review star rating
from:2024-01-01 to:2024-06-30 - Date range
page:2 - Further result pages

<b>Examples:</b>
/search brexit deal section:politics order:newest
/watch "climate crisis" tag:environment/climate-crisis

You can also just send me text without any command.`

	h.bot.Send(msg.Chat.ID, helpText)
}

func (h *Handler) handleSearchText(ctx context.Context, msg *tgbotapi.Message, args string) {
	if _, err := h.bot.userService.GetOrCreate(ctx, msg.From.ID, msg.From.UserName); err != nil {
		h.bot.Send(msg.Chat.ID, "Something went wrong. Please try again later.")
		return
	}

	params, err := ParseSearchArgs(args)
	if err != nil {
		h.bot.Send(msg.Chat.ID, err.Error())
		return
	}

	h.bot.SendTyping(msg.Chat.ID)

	page, err := h.bot.searchService.Search(ctx, params)
	if err != nil {
		h.bot.logger.Error("search failed",
			zap.Error(err),
			zap.Int64("user_id", msg.From.ID),
		)
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	for _, m := range SplitMessage(FormatSearchPage(page), maxMessageLen) {
		if err := h.bot.Send(msg.Chat.ID, m); err != nil {
			h.bot.logger.Error("failed to send message", zap.Error(err))
		}
	}
}

func (h *Handler) handleWatch(ctx context.Context, msg *tgbotapi.Message) {
	user, err := h.bot.userService.GetOrCreate(ctx, msg.From.ID, msg.From.UserName)
	if err != nil {
		h.bot.Send(msg.Chat.ID, "Something went wrong. Please try again later.")
		return
	}

	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		h.bot.Send(msg.Chat.ID, "Tell me what to watch: /watch climate crisis section:environment")
		return
	}

	params, err := ParseSearchArgs(args)
	if err != nil {
		h.bot.Send(msg.Chat.ID, err.Error())
		return
	}

	w, err := h.bot.watchService.Create(ctx, user.ID, params.Query, params.Section, params.Tag)
	if err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.bot.Send(msg.Chat.ID, fmt.Sprintf("Watching %q. I will message you when new matches appear.", w.Query))
}

func (h *Handler) handleWatches(ctx context.Context, msg *tgbotapi.Message) {
	user, err := h.bot.userService.GetOrCreate(ctx, msg.From.ID, msg.From.UserName)
	if err != nil {
		h.bot.Send(msg.Chat.ID, "Something went wrong. Please try again later.")
		return
	}

	watches, err := h.bot.watchService.List(ctx, user.ID)
	if err != nil {
		h.bot.logger.Error("failed to list watches", zap.Error(err))
		h.bot.Send(msg.Chat.ID, "Something went wrong. Please try again later.")
		return
	}

	if len(watches) == 0 {
		h.bot.Send(msg.Chat.ID, "You have no watches yet. Create one with /watch.")
		return
	}

	h.bot.Send(msg.Chat.ID, FormatWatchList(watches))
}

func (h *Handler) handleUnwatch(ctx context.Context, msg *tgbotapi.Message) {
	user, err := h.bot.userService.GetOrCreate(ctx, msg.From.ID, msg.From.UserName)
	if err != nil {
		h.bot.Send(msg.Chat.ID, "Something went wrong. Please try again later.")
		return
	}

	numStr := strings.TrimSpace(msg.CommandArguments())
	if numStr == "" {
		h.bot.Send(msg.Chat.ID, "Tell me which watch to remove: /unwatch 1")
		return
	}

	num, err := strconv.Atoi(numStr)
	if err != nil || num < 1 {
		h.bot.Send(msg.Chat.ID, "The watch number must be a positive number.")
		return
	}

	watches, err := h.bot.watchService.List(ctx, user.ID)
	if err != nil {
		h.bot.Send(msg.Chat.ID, "Something went wrong. Please try again later.")
		return
	}

	if num > len(watches) {
		h.bot.Send(msg.Chat.ID, fmt.Sprintf("Watch %d not found. You have %d.", num, len(watches)))
		return
	}

	if err := h.bot.watchService.Delete(ctx, user.ID, watches[num-1].ID); err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.bot.Send(msg.Chat.ID, fmt.Sprintf("Stopped watching %q.", watches[num-1].Query))
}

func (h *Handler) handleLatest(ctx context.Context, msg *tgbotapi.Message) {
	user, err := h.bot.userService.GetOrCreate(ctx, msg.From.ID, msg.From.UserName)
	if err != nil {
		h.bot.Send(msg.Chat.ID, "Something went wrong. Please try again later.")
		return
	}

	articles, err := h.bot.watchService.RecentArticles(ctx, user.ID, 10)
	if err != nil {
		h.bot.logger.Error("failed to list articles", zap.Error(err))
		h.bot.Send(msg.Chat.ID, "Something went wrong. Please try again later.")
		return
	}

	if len(articles) == 0 {
		h.bot.Send(msg.Chat.ID, "Nothing yet. Create a watch with /watch and I will collect matches for you.")
		return
	}

	h.bot.Send(msg.Chat.ID, FormatArticles(articles))
}

func mapErrorToMessage(err error) string {
	var apiErr *guardian.APIError
	var netErr *guardian.NetworkError

	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return "The search text is empty. Tell me what to look for."
	case errors.Is(err, domain.ErrQueryTooLong):
		return fmt.Sprintf("That search is too long. Keep it under %d characters.", domain.MaxQueryLength)
	case errors.Is(err, domain.ErrNoResults):
		return "No results. Try different search terms or fewer filters."
	case errors.Is(err, domain.ErrWatchNotFound):
		return "That watch does not exist."
	case errors.Is(err, domain.ErrDuplicateWatch):
		return "You are already watching that."
	case errors.Is(err, domain.ErrWatchLimitReached):
		return fmt.Sprintf("You have reached the limit of %d watches. Remove one with /unwatch first.", domain.MaxWatchesPerUser)
	case errors.As(err, &apiErr):
		return "The Guardian API rejected the request. Please try again later."
	case errors.As(err, &netErr):
		return "Could not reach the Guardian API. Please try again later."
	default:
		return "Something went wrong. Please try again later."
	}
}
