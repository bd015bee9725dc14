package telegram

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ewanmcc/guardian-bot/internal/domain"
	"github.com/ewanmcc/guardian-bot/internal/repository"
)

// Notifier pushes new watch matches to their owner's chat.
type Notifier struct {
	bot    *Bot
	users  repository.UserRepository
	logger *zap.Logger
}

func NewNotifier(bot *Bot, users repository.UserRepository, logger *zap.Logger) *Notifier {
	return &Notifier{bot: bot, users: users, logger: logger}
}

func (n *Notifier) NotifyNewArticles(ctx context.Context, userID int64, watch domain.Watch, items []domain.ContentItem) error {
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve user %d: %w", userID, err)
	}

	text := FormatNewArticles(watch, items)
	for _, m := range SplitMessage(text, maxMessageLen) {
		if err := n.bot.Send(user.TelegramID, m); err != nil {
			return fmt.Errorf("send notification: %w", err)
		}
	}

	n.logger.Debug("notified user",
		zap.Int64("user_id", userID),
		zap.Int64("watch_id", watch.ID),
		zap.Int("items", len(items)),
	)
	return nil
}
